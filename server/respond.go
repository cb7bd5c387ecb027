package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

var (
	errNotFound   = errors.New("server: element not found")
	errJobMissing = errors.New("server: export job not found")
	errEmptyPatch = errors.New("server: patch changes nothing")

	errTooManyJobs = errors.New("server: too many export jobs running")
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, err error) {
	writeError(w, statusOf(err), err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, errJobMissing):
		return http.StatusNotFound
	case errors.Is(err, ggedit.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, ggedit.ErrInvalidPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ggedit.ErrGroupingUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errTooManyJobs):
		return http.StatusTooManyRequests
	case errors.Is(err, export.ErrJobPending):
		return http.StatusAccepted
	default:
		return http.StatusBadRequest
	}
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("server: invalid payload: %w", err)
	}
	return nil
}
