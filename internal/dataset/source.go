package dataset

import (
	"context"
	"io"
	"os"
)

// Source yields the raw bytes of a measurement table.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the table from a local file.
type FileSource string

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(f))
}

func (f FileSource) String() string {
	return string(f)
}
