package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const utf8BOM = "\ufeff"

// Loader reads source files into normalized measurement tables.
type Loader struct {
	// Location is applied to timestamps without an explicit offset. Timestamps
	// that carry an offset keep it, and with it their calendar date. Defaults
	// to UTC.
	Location *time.Location
}

func NewLoader(loc *time.Location) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{Location: loc}
}

// Load reads and normalizes the file at path using UTC.
func Load(path string) (*models.Table, error) {
	return NewLoader(time.UTC).LoadFile(path)
}

func (l *Loader) LoadFile(path string) (*models.Table, error) {
	return l.LoadSource(context.Background(), FileSource(path))
}

// LoadSource reads and normalizes everything src yields.
func (l *Loader) LoadSource(ctx context.Context, src Source) (*models.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer rc.Close()

	table, err := l.Normalize(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src, err)
	}
	table.Source = src.String()

	logger.WithFields(map[string]interface{}{
		"source":  table.Source,
		"rows":    table.Len(),
		"servers": len(table.Servers),
	}).Info("Measurement table loaded")

	return table, nil
}

// Normalize reads a source whose first line is a title, second line is the
// header (Time plus one column per server) and the rest are data rows. Either
// every row normalizes or an error is returned and no table is produced.
func (l *Loader) Normalize(r io.Reader) (*models.Table, error) {
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}

	// The title is dropped as a raw line, whatever quotes or blanks it holds.
	br := bufio.NewReader(r)
	title, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && title == "" {
			return nil, ErrNoHeader
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read title row: %w", err)
		}
	}

	reader := newCSVReader(br)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	servers := header[1:]

	rows, err := readRows(reader, servers, loc, NormalizeValue)
	if err != nil {
		return nil, err
	}

	return &models.Table{
		Servers: servers,
		Rows:    rows,
		Loaded:  time.Now(),
	}, nil
}

// readRows converts every remaining record. Row indexes in errors count data
// rows only.
func readRows(reader *csv.Reader, servers []string, loc *time.Location, convert func(string) (float64, error)) ([]models.Row, error) {
	width := len(servers) + 1
	rows := make([]models.Row, 0, 64)

	for idx := 0; ; idx++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Row: idx, Reason: err.Error()}
		}
		if len(record) != width {
			return nil, &FormatError{
				Row:    idx,
				Reason: fmt.Sprintf("expected %d fields, got %d", width, len(record)),
			}
		}

		ts, err := parseTime(record[0], loc)
		if err != nil {
			return nil, &ParseError{Row: idx, Value: record[0], Err: err}
		}

		values := make([]float64, len(servers))
		for col, cell := range record[1:] {
			v, err := convert(cell)
			if err != nil {
				return nil, &FormatError{
					Row:    idx,
					Column: servers[col],
					Value:  cell,
					Reason: "not a number",
				}
			}
			values[col] = v
		}

		rows = append(rows, models.Row{Time: ts, Values: values})
	}

	return rows, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: need %s and at least one server column", ErrNoHeader, models.TimeColumn)
	}
	if header[0] != models.TimeColumn {
		return nil, fmt.Errorf("%w: first column is %q, want %q", ErrNoHeader, header[0], models.TimeColumn)
	}

	seen := make(map[string]bool, len(header))
	for _, name := range header[1:] {
		if name == "" {
			return nil, fmt.Errorf("%w: empty server column name", ErrNoHeader)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate server column %q", ErrNoHeader, name)
		}
		seen[name] = true
	}
	return header, nil
}
