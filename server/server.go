// Package server exposes an Editor over HTTP. It plays the part of the
// surrounding page: every request becomes one editor event, and requests
// are handled one at a time so the editor keeps its single-threaded
// event model.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// DefaultJobLimit is how many export jobs a server keeps at once.
const DefaultJobLimit = 32

// Server serves one Editor.
type Server struct {
	mu       sync.Mutex
	editor   *ggedit.Editor
	export   export.Options
	jobs     map[string]*export.Job
	jobOrder []string // job ids, oldest first
	jobLimit int
}

// Option configures a Server.
type Option func(*Server)

// WithExportDefaults sets the options export requests start from. Width
// and height left at zero follow the canvas.
func WithExportDefaults(o export.Options) Option {
	return func(s *Server) { s.export = o }
}

// WithJobLimit caps the number of export jobs kept for download. Starting
// a job past the cap drops the oldest finished one.
func WithJobLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.jobLimit = n
		}
	}
}

// New returns a server for ed.
func New(ed *ggedit.Editor, opts ...Option) *Server {
	s := &Server{
		editor:   ed,
		export:   export.DefaultOptions(),
		jobs:     make(map[string]*export.Job),
		jobLimit: DefaultJobLimit,
	}
	s.export.Width, s.export.Height = 0, 0
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Use(s.serialize)

	r.Get("/preview.svg", s.handlePreview)

	r.Route("/api", func(api chi.Router) {
		api.Route("/elements", func(el chi.Router) {
			el.Get("/", s.handleListElements)
			el.Post("/", s.handleAddElement)
			el.Route("/{id}", func(one chi.Router) {
				one.Get("/", s.handleGetElement)
				one.Patch("/", s.handlePatchElement)
				one.Delete("/", s.handleDeleteElement)
				one.Post("/duplicate", s.handleDuplicate)
				one.Post("/visibility", s.handleToggleVisible)
				one.Post("/lock", s.handleToggleLocked)
				one.Post("/layer", s.handleLayer)
			})
		})
		api.Post("/layers/reorder", s.handleReorder)

		api.Post("/drop", s.handleDrop)
		api.Post("/pointer/down", s.handlePointerDown)
		api.Post("/pointer/move", s.handlePointerMove)
		api.Post("/pointer/up", s.handlePointerUp)
		api.Post("/keys", s.handleKey)
		api.Post("/align", s.handleAlign)
		api.Post("/group", s.handleGroup)
		api.Post("/ungroup", s.handleGroup)

		api.Get("/history", s.handleHistory)
		api.Post("/undo", s.handleUndo)
		api.Post("/redo", s.handleRedo)

		api.Get("/selection", s.handleGetSelection)
		api.Put("/selection", s.handleSelect)
		api.Delete("/selection", s.handleClearSelection)

		api.Get("/canvas", s.handleGetCanvas)
		api.Patch("/canvas", s.handlePatchCanvas)
		api.Post("/canvas/zoom-in", s.handleZoom(true))
		api.Post("/canvas/zoom-out", s.handleZoom(false))

		api.Get("/library", s.handleLibrary)

		api.Get("/export", s.handleExport)
		api.Get("/export/size", s.handleExportSize)
		api.Post("/export/jobs", s.handleStartJob)
		api.Get("/export/jobs/{id}", s.handleJobStatus)
		api.Get("/export/jobs/{id}/download", s.handleJobDownload)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		ggedit.Logger().Info("server: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	ggedit.Logger().Info("server: shutting down")
	return srv.Shutdown(shutdownCtx)
}
