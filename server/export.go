package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
)

// exportOptions reads export settings from the query string over the
// server defaults:
//
//	format, quality, scale, width, height, background (color),
//	transparent (drops the background)
func (s *Server) exportOptions(q url.Values) (export.Options, error) {
	o := s.export
	c := s.editor.Canvas()
	if o.Width <= 0 {
		o.Width = c.Width
	}
	if o.Height <= 0 {
		o.Height = c.Height
	}
	if v := q.Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			return o, err
		}
		o.Format = f
	}
	if v := q.Get("quality"); v != "" {
		qual, err := export.ParseQuality(v)
		if err != nil {
			return o, err
		}
		o.Quality = qual
	}
	for name, dst := range map[string]*float64{"scale": &o.Scale, "width": &o.Width, "height": &o.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, fmt.Errorf("%w: %s=%q", export.ErrInvalidOptions, name, v)
		}
		*dst = n
	}
	if v := q.Get("background"); v != "" {
		o.Background = v
		o.IncludeBackground = true
	}
	if v := q.Get("transparent"); v != "" {
		t, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("%w: transparent=%q", export.ErrInvalidOptions, v)
		}
		o.IncludeBackground = !t
	}
	return o, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.exportOptions(r.URL.Query())
	if err != nil {
		fail(w, err)
		return
	}
	res, err := export.Render(s.editor.Elements(), opts)
	if err != nil {
		fail(w, err)
		return
	}
	writeDownload(w, res, export.Filename(r.URL.Query().Get("filename"), res.Format))
}

func writeDownload(w http.ResponseWriter, res *export.Result, name string) {
	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleExportSize(w http.ResponseWriter, r *http.Request) {
	opts, err := s.exportOptions(r.URL.Query())
	if err != nil {
		fail(w, err)
		return
	}
	n, err := export.EstimateSize(s.editor.Elements(), opts)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bytes": n, "human": export.HumanSize(n)})
}

// handlePreview renders the canvas as the editor shows it: background,
// grid when visible, elements, then the selection outline.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts, err := s.exportOptions(nil)
	if err != nil {
		fail(w, err)
		return
	}
	c := s.editor.Canvas()
	opts.Format = export.FormatSVG
	opts.Width, opts.Height = c.Width, c.Height
	opts.Scale = 1
	if c.ShowGrid {
		opts.Grid = c.GridSize
	}
	if id, ok := s.editor.Selection().ID(); ok {
		opts.Selected = id
	}
	res, err := export.Render(s.editor.Elements(), opts)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(res.Data)
}

func (s *Server) handleStartJob(w http.ResponseWriter, r *http.Request) {
	opts, err := s.exportOptions(r.URL.Query())
	if err == nil {
		err = opts.Validate()
	}
	if err != nil {
		fail(w, err)
		return
	}
	if !s.makeJobRoom() {
		fail(w, errTooManyJobs)
		return
	}
	job := export.Start(s.editor.Elements(), opts)
	s.jobs[job.ID()] = job
	s.jobOrder = append(s.jobOrder, job.ID())
	writeJSON(w, http.StatusAccepted, map[string]any{"id": job.ID(), "status": "pending"})
}

// makeJobRoom drops finished jobs, oldest first, until a new one fits under
// the limit. It reports false when every kept job is still running.
func (s *Server) makeJobRoom() bool {
	live := s.jobOrder[:0]
	for _, id := range s.jobOrder {
		if _, ok := s.jobs[id]; ok {
			live = append(live, id)
		}
	}
	s.jobOrder = live

	for i := 0; len(s.jobs) >= s.jobLimit && i < len(s.jobOrder); {
		id := s.jobOrder[i]
		if _, err := s.jobs[id].Result(); errors.Is(err, export.ErrJobPending) {
			i++
			continue
		}
		delete(s.jobs, id)
		s.jobOrder = append(s.jobOrder[:i], s.jobOrder[i+1:]...)
		ggedit.Logger().Debug("server: export job evicted", "job", id)
	}
	return len(s.jobs) < s.jobLimit
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs[chi.URLParam(r, "id")]
	if !ok {
		fail(w, errJobMissing)
		return
	}
	resp := map[string]any{"id": job.ID()}
	res, err := job.Result()
	switch {
	case errors.Is(err, export.ErrJobPending):
		resp["status"] = "pending"
	case err != nil:
		resp["status"] = "failed"
		resp["error"] = err.Error()
	default:
		resp["status"] = "done"
		resp["format"] = res.Format
		resp["bytes"] = len(res.Data)
		resp["width"] = res.Width
		resp["height"] = res.Height
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleJobDownload serves a finished job once and forgets it.
func (s *Server) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.jobs[id]
	if !ok {
		fail(w, errJobMissing)
		return
	}
	res, err := job.Result()
	if err != nil {
		if !errors.Is(err, export.ErrJobPending) {
			delete(s.jobs, id)
		}
		fail(w, err)
		return
	}
	delete(s.jobs, id)
	writeDownload(w, res, export.Filename(r.URL.Query().Get("filename"), res.Format))
}
