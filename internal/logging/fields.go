package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging.
const (
	FieldRunID    = "run_id"
	FieldTable    = "table"
	FieldRows     = "rows"
	FieldRow      = "row"
	FieldBytes    = "bytes"
	FieldDuration = "duration_ms"
	FieldError    = "error"
	FieldPath     = "path"
)

// RunID returns a slog attribute for the generation run ID.
func RunID(id string) slog.Attr {
	return slog.String(FieldRunID, id)
}

// Table returns a slog attribute for the target table name.
func Table(name string) slog.Attr {
	return slog.String(FieldTable, name)
}

// Rows returns a slog attribute for a row count.
func Rows(n int) slog.Attr {
	return slog.Int(FieldRows, n)
}

// Row returns a slog attribute for a row index.
func Row(i int) slog.Attr {
	return slog.Int(FieldRow, i)
}

// Bytes returns a slog attribute for a byte count.
func Bytes(n int64) slog.Attr {
	return slog.Int64(FieldBytes, n)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Path returns a slog attribute for a filesystem path.
func Path(p string) slog.Attr {
	return slog.String(FieldPath, p)
}
