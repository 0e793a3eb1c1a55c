// Package notes reads the raw notes array from local files.
package notes

import (
	"context"
	"io"
	"os"

	pkgerrors "thoughtgraph/pkg/errors"
)

// FileSource reads notes from a JSON file; "-" reads standard input
type FileSource struct {
	path  string
	stdin io.Reader
}

// NewFileSource creates a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, stdin: os.Stdin}
}

// FetchNotes returns the file contents
func (s *FileSource) FetchNotes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.path == "-" {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, pkgerrors.NewStorageError("read notes from stdin", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, pkgerrors.NewNotFoundError("notes file " + s.path)
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError("read notes file", err)
	}
	return data, nil
}
