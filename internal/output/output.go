// Package output emits key=value pairs on the CI output channel.
package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// EnvFile names the environment variable pointing at the CI output file.
const EnvFile = "GITHUB_OUTPUT"

// Standard output keys.
const (
	KeyStatus     = "validation_status"
	KeyErrorCount = "error_count"
	KeyFileCount  = "file_count"
)

// KV is a single key=value output pair.
type KV struct {
	Key   string
	Value string
}

// Writer appends key=value lines to a CI output file, or prints them to
// stdout when no file is configured.
type Writer struct {
	Path   string
	Stdout io.Writer
}

// New returns a Writer targeting the CI output file from the environment.
func New() *Writer {
	return &Writer{Path: os.Getenv(EnvFile), Stdout: os.Stdout}
}

func (w *Writer) stdout() io.Writer {
	if w.Stdout == nil {
		return os.Stdout
	}
	return w.Stdout
}

// Emit writes the pairs, one per line.
func (w *Writer) Emit(pairs ...KV) error {
	if w.Path == "" {
		for _, p := range pairs {
			fmt.Fprintf(w.stdout(), "%s=%s\n", p.Key, p.Value)
		}
		return nil
	}

	f, err := os.OpenFile(w.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening output file %s: %w", w.Path, err)
	}
	defer f.Close()

	for _, p := range pairs {
		if _, err := fmt.Fprintf(f, "%s=%s\n", p.Key, p.Value); err != nil {
			return fmt.Errorf("writing output file %s: %w", w.Path, err)
		}
	}
	return nil
}

// Summary emits the three standard gate outputs.
func (w *Writer) Summary(status string, errorCount, fileCount int) error {
	return w.Emit(
		KV{KeyStatus, status},
		KV{KeyErrorCount, strconv.Itoa(errorCount)},
		KV{KeyFileCount, strconv.Itoa(fileCount)},
	)
}
