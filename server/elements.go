package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/library"
)

func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.Elements())
}

func (s *Server) handleAddElement(w http.ResponseWriter, r *http.Request) {
	var el ggedit.Element
	if err := decode(r, &el); err != nil {
		fail(w, err)
		return
	}
	out, err := s.editor.Add(el)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetElement(w http.ResponseWriter, r *http.Request) {
	el, ok := s.editor.Store().Get(chi.URLParam(r, "id"))
	if !ok {
		fail(w, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, el)
}

func (s *Server) handlePatchElement(w http.ResponseWriter, r *http.Request) {
	var p ggedit.Patch
	if err := decode(r, &p); err != nil {
		fail(w, err)
		return
	}
	if p.IsZero() {
		fail(w, errEmptyPatch)
		return
	}
	el, ok := s.editor.Update(chi.URLParam(r, "id"), p)
	if !ok {
		fail(w, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, el)
}

func (s *Server) handleDeleteElement(w http.ResponseWriter, r *http.Request) {
	if !s.editor.Delete(chi.URLParam(r, "id")) {
		fail(w, errNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	el, ok := s.editor.Duplicate(chi.URLParam(r, "id"))
	if !ok {
		fail(w, errNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, el)
}

func (s *Server) handleToggleVisible(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.editor.ToggleVisible)
}

func (s *Server) handleToggleLocked(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.editor.ToggleLocked)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, fn func(string) bool) {
	id := chi.URLParam(r, "id")
	if !fn(id) {
		fail(w, errNotFound)
		return
	}
	el, _ := s.editor.Store().Get(id)
	writeJSON(w, http.StatusOK, el)
}

type layerRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	var req layerRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	action, err := ggedit.ParseLayerAction(req.Action)
	if err != nil {
		fail(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if s.editor.Store().IndexOf(id) < 0 {
		fail(w, errNotFound)
		return
	}
	moved := s.editor.Layers().Apply(id, action)
	writeJSON(w, http.StatusOK, map[string]any{"moved": moved, "order": order(s.editor)})
}

type reorderRequest struct {
	Dragged string `json:"dragged"`
	Target  string `json:"target"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	moved := s.editor.Layers().ReorderByDrag(req.Dragged, req.Target)
	writeJSON(w, http.StatusOK, map[string]any{"moved": moved, "order": order(s.editor)})
}

func order(ed *ggedit.Editor) []string {
	list := ed.Elements()
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

// dropRequest drops either a library template by id or a raw creation
// payload, given as a JSON object or as a JSON string holding one.
type dropRequest struct {
	Template string          `json:"template,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
}

func (req dropRequest) payload() ([]byte, error) {
	if req.Template != "" {
		t, ok := library.Lookup(req.Template)
		if !ok {
			return nil, fmt.Errorf("%w: unknown template %q", ggedit.ErrInvalidPayload, req.Template)
		}
		return t.Payload()
	}
	if len(req.Payload) > 0 && req.Payload[0] == '"' {
		var raw string
		if err := json.Unmarshal(req.Payload, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ggedit.ErrInvalidPayload, err)
		}
		return []byte(raw), nil
	}
	return req.Payload, nil
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		fail(w, err)
		return
	}
	el, err := s.editor.Controller().Drop(payload, req.X, req.Y)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, el)
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	var p point
	if err := decode(r, &p); err != nil {
		fail(w, err)
		return
	}
	s.editor.Controller().PointerDown(p.X, p.Y)
	s.writeInteraction(w)
}

func (s *Server) handlePointerMove(w http.ResponseWriter, r *http.Request) {
	var p point
	if err := decode(r, &p); err != nil {
		fail(w, err)
		return
	}
	s.editor.Controller().PointerMove(p.X, p.Y)
	s.writeInteraction(w)
}

func (s *Server) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	s.editor.Controller().PointerUp()
	s.writeInteraction(w)
}

// writeInteraction reports the controller state and the selected element.
func (s *Server) writeInteraction(w http.ResponseWriter) {
	resp := map[string]any{"state": s.editor.Controller().State().String()}
	if el, ok := s.editor.Selection().Current(); ok {
		resp["selected"] = el
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var k ggedit.KeyEvent
	if err := decode(r, &k); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"consumed": s.editor.Shortcut(k)})
}

type alignRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req alignRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	kind, err := ggedit.ParseAlignKind(req.Kind)
	if err != nil {
		fail(w, err)
		return
	}
	aligned := s.editor.Controller().Align(kind)
	resp := map[string]any{"aligned": aligned}
	if el, ok := s.editor.Selection().Current(); ok {
		resp["selected"] = el
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	fail(w, s.editor.Group())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeHistory(w)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.editor.Undo()
	s.writeHistory(w)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.editor.Redo()
	s.writeHistory(w)
}

func (s *Server) writeHistory(w http.ResponseWriter) {
	h := s.editor.History()
	writeJSON(w, http.StatusOK, map[string]any{
		"canUndo": h.CanUndo(),
		"canRedo": h.CanRedo(),
		"length":  h.Len(),
		"cursor":  h.Cursor(),
	})
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	el, ok := s.editor.Selection().Current()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"selected": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selected": el})
}

type selectRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if !s.editor.Selection().Select(req.ID) {
		fail(w, errNotFound)
		return
	}
	s.handleGetSelection(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.editor.Selection().Clear()
	w.WriteHeader(http.StatusNoContent)
}

type canvasPatch struct {
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	GridSize *float64 `json:"gridSize"`
	Snap     *bool    `json:"snapToGrid"`
	ShowGrid *bool    `json:"showGrid"`
	Zoom     *int     `json:"zoom"`
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.Canvas())
}

func (s *Server) handlePatchCanvas(w http.ResponseWriter, r *http.Request) {
	var p canvasPatch
	if err := decode(r, &p); err != nil {
		fail(w, err)
		return
	}
	c := s.editor.Canvas()
	if p.Width != nil && *p.Width > 0 {
		c.Width = *p.Width
	}
	if p.Height != nil && *p.Height > 0 {
		c.Height = *p.Height
	}
	if p.GridSize != nil && *p.GridSize >= 0 {
		c.GridSize = *p.GridSize
	}
	if p.Snap != nil {
		c.Snap = *p.Snap
	}
	if p.ShowGrid != nil {
		c.ShowGrid = *p.ShowGrid
	}
	if p.Zoom != nil {
		c.SetZoom(*p.Zoom)
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleZoom(in bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if in {
			s.editor.Canvas().ZoomIn()
		} else {
			s.editor.Canvas().ZoomOut()
		}
		writeJSON(w, http.StatusOK, s.editor.Canvas())
	}
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, library.Search(r.URL.Query().Get("q")))
}
