package export

import "errors"

var (
	// ErrUnsupportedFormat is returned for formats with no registered backend.
	ErrUnsupportedFormat = errors.New("export: unsupported format")

	// ErrInvalidOptions is returned when the output size or scale is out of range.
	ErrInvalidOptions = errors.New("export: invalid options")

	// ErrJobPending is returned by Job.Result before the job has finished.
	ErrJobPending = errors.New("export: job still running")

	// ErrBackendPanic is the error of a job whose backend panicked.
	ErrBackendPanic = errors.New("export: backend panicked")
)
