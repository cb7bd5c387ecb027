package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/ggedit"
)

// Job is a background export. It runs once, on its own copy of the
// elements, and cannot be cancelled; callers bound their wait instead.
type Job struct {
	id     string
	opts   Options
	done   chan struct{}
	result *Result
	err    error
}

// Start launches an export of elements in a new goroutine. Every job
// completes independently of the others.
func Start(elements []ggedit.Element, opts Options) *Job {
	own := make([]ggedit.Element, len(elements))
	for i, el := range elements {
		own[i] = el.Clone()
	}
	j := &Job{
		id:   uuid.NewString(),
		opts: opts,
		done: make(chan struct{}),
	}
	ggedit.Logger().Debug("export: job started", "job", j.id, "format", opts.Format)
	go j.run(own)
	return j
}

func (j *Job) run(elements []ggedit.Element) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			j.result = nil
			j.err = fmt.Errorf("%w: %v", ErrBackendPanic, r)
			ggedit.Logger().Warn("export: job panicked", "job", j.id, "format", j.opts.Format, "panic", r)
		}
	}()
	res, err := Render(elements, j.opts)
	if err != nil {
		ggedit.Logger().Warn("export: job failed", "job", j.id, "format", j.opts.Format, "error", err)
		j.err = err
		return
	}
	j.result = res
	ggedit.Logger().Debug("export: job done", "job", j.id, "bytes", len(res.Data))
}

// ID returns the job's unique id.
func (j *Job) ID() string { return j.id }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx is done. A context error leaves
// the job running.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.done:
		return j.result, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrJobPending.
func (j *Job) Result() (*Result, error) {
	select {
	case <-j.done:
		return j.result, j.err
	default:
		return nil, ErrJobPending
	}
}
