package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const (
	ExportFilename    = "dados.csv"
	ExportContentType = "text/csv"
	exportTimeLayout  = "2006-01-02 15:04:05.999999999"
)

// WriteCSV writes the view as UTF-8 CSV: a header row (Time plus every
// server column) followed by one line per row. Values are written as they are
// held in memory, already in microseconds.
func WriteCSV(w io.Writer, view *models.View) error {
	cw := csv.NewWriter(w)

	header := append([]string{models.TimeColumn}, view.Servers...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range view.Rows {
		record[0] = row.Time.Format(exportTimeLayout)
		for i, v := range row.Values {
			record[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadExport parses a file produced by WriteCSV. Unlike Normalize it expects
// no title row and applies no unit scaling.
func ReadExport(r io.Reader, loc *time.Location) (*models.Table, error) {
	if loc == nil {
		loc = time.UTC
	}
	reader := newCSVReader(r)

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	servers := header[1:]

	rows, err := readRows(reader, servers, loc, parseCell)
	if err != nil {
		return nil, err
	}
	return &models.Table{Servers: servers, Rows: rows, Loaded: time.Now()}, nil
}
