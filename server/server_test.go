package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
	_ "github.com/gogpu/ggedit/export/backends/raster"
	_ "github.com/gogpu/ggedit/export/backends/svg"
	"github.com/gogpu/ggedit/shape"
)

func rect(id string, x, y float64) ggedit.Element {
	return ggedit.NewElement(id, "rect", id, ggedit.KindRectangle,
		shape.List{shape.Rectangle{Width: 100, Height: 60}}, x, y)
}

func newTestServer(t *testing.T, elems ...ggedit.Element) (*Server, http.Handler) {
	t.Helper()
	ed := ggedit.New(
		ggedit.WithClock(func() time.Time { return time.UnixMilli(7000) }),
		ggedit.WithElements(elems),
	)
	s := New(ed)
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestElementsCRUD(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))

	rec := do(t, h, http.MethodGet, "/api/elements", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if list := decodeInto[[]ggedit.Element](t, rec); len(list) != 1 || list[0].ID != "a" {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, h, http.MethodPatch, "/api/elements/a", map[string]any{"x": 40, "fill": "#FF0000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body)
	}
	if el := decodeInto[ggedit.Element](t, rec); el.Geometry.X != 40 || el.Style.Fill != "#FF0000" {
		t.Errorf("patched = %+v", el)
	}

	if rec := do(t, h, http.MethodPost, "/api/elements", rect("a", 0, 0)); rec.Code != http.StatusConflict {
		t.Errorf("duplicate add status = %d, want 409", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/elements", rect("b", 5, 5)); rec.Code != http.StatusCreated {
		t.Errorf("add status = %d: %s", rec.Code, rec.Body)
	}

	if rec := do(t, h, http.MethodDelete, "/api/elements/a", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/elements/a", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/api/elements/zz", map[string]any{"x": 1}); rec.Code != http.StatusNotFound {
		t.Errorf("patch missing status = %d, want 404", rec.Code)
	}
}

func TestEmptyPatchRejected(t *testing.T) {
	s, h := newTestServer(t, rect("a", 10, 10))
	before := s.editor.History().CanUndo()

	for _, body := range []any{map[string]any{}, nil} {
		if rec := do(t, h, http.MethodPatch, "/api/elements/a", body); rec.Code != http.StatusBadRequest {
			t.Errorf("patch %v status = %d, want 400", body, rec.Code)
		}
	}
	if s.editor.History().CanUndo() != before {
		t.Error("empty patch recorded history")
	}
}

func TestDuplicateAndToggles(t *testing.T) {
	_, h := newTestServer(t, rect("a", 10, 10))

	rec := do(t, h, http.MethodPost, "/api/elements/a/duplicate", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
	dup := decodeInto[ggedit.Element](t, rec)
	if dup.ID != "rect_7000" || dup.Geometry.X != 30 || dup.Geometry.Y != 30 {
		t.Errorf("duplicate = %+v", dup)
	}

	rec = do(t, h, http.MethodPost, "/api/elements/a/visibility", nil)
	if el := decodeInto[ggedit.Element](t, rec); el.Visible {
		t.Error("visibility toggle left element visible")
	}
	rec = do(t, h, http.MethodPost, "/api/elements/a/lock", nil)
	if el := decodeInto[ggedit.Element](t, rec); !el.Locked {
		t.Error("lock toggle left element unlocked")
	}
}

func TestDropTemplateAndRawPayload(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/drop", map[string]any{"template": "rect", "x": 133, "y": 47})
	if rec.Code != http.StatusCreated {
		t.Fatalf("drop template status = %d: %s", rec.Code, rec.Body)
	}
	el := decodeInto[ggedit.Element](t, rec)
	if el.ID != "rect_7000" || el.Geometry.X != 140 || el.Geometry.Y != 40 {
		t.Errorf("dropped = %+v", el)
	}

	payload := `{"id":"dot","name":"Dot","svg":"<circle cx=\"50\" cy=\"50\" r=\"40\"/>"}`
	rec = do(t, h, http.MethodPost, "/api/drop", map[string]any{"payload": payload, "x": 0, "y": 0})
	if rec.Code != http.StatusCreated {
		t.Fatalf("drop string payload status = %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodPost, "/api/drop", `{"payload":{"id":"dot2","name":"Dot","svg":"<circle r=\"4\"/>"},"x":0,"y":0}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("drop object payload status = %d: %s", rec.Code, rec.Body)
	}

	for _, body := range []string{
		`{"template":"nope"}`,
		`{"payload":{"name":"no id","svg":"<rect/>"}}`,
		`{"payload":"not json"}`,
	} {
		if rec := do(t, h, http.MethodPost, "/api/drop", body); rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("drop %s status = %d, want 422", body, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodPost, "/api/drop", `{bad`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestPointerDragAndKeys(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))

	rec := do(t, h, http.MethodPost, "/api/pointer/down", map[string]any{"x": 10, "y": 10})
	resp := decodeInto[map[string]any](t, rec)
	if resp["state"] != "dragging" || resp["selected"] == nil {
		t.Fatalf("pointer down = %v", resp)
	}
	do(t, h, http.MethodPost, "/api/pointer/move", map[string]any{"x": 143, "y": 71})
	rec = do(t, h, http.MethodPost, "/api/pointer/up", nil)
	if resp := decodeInto[map[string]any](t, rec); resp["state"] != "idle" {
		t.Errorf("pointer up state = %v", resp["state"])
	}
	rec = do(t, h, http.MethodGet, "/api/elements/a", nil)
	if el := decodeInto[ggedit.Element](t, rec); el.Geometry.X != 140 || el.Geometry.Y != 60 {
		t.Errorf("dragged to (%v, %v), want (140, 60)", el.Geometry.X, el.Geometry.Y)
	}

	rec = do(t, h, http.MethodPost, "/api/keys", ggedit.KeyEvent{Key: "Delete"})
	if resp := decodeInto[map[string]bool](t, rec); !resp["consumed"] {
		t.Error("Delete not consumed")
	}
	rec = do(t, h, http.MethodGet, "/api/elements", nil)
	if list := decodeInto[[]ggedit.Element](t, rec); len(list) != 0 {
		t.Errorf("elements after Delete = %d", len(list))
	}

	rec = do(t, h, http.MethodPost, "/api/keys", ggedit.KeyEvent{Key: "z", Ctrl: true})
	if resp := decodeInto[map[string]bool](t, rec); !resp["consumed"] {
		t.Error("Ctrl+Z not consumed")
	}
	rec = do(t, h, http.MethodGet, "/api/elements", nil)
	if list := decodeInto[[]ggedit.Element](t, rec); len(list) != 1 {
		t.Errorf("elements after undo = %d, want 1", len(list))
	}
}

func TestHistoryEndpoints(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/drop", map[string]any{"template": "circle", "x": 0, "y": 0})

	rec := do(t, h, http.MethodGet, "/api/history", nil)
	st := decodeInto[map[string]any](t, rec)
	if st["canUndo"] != true || st["canRedo"] != false || st["length"] != 2.0 {
		t.Errorf("history = %v", st)
	}
	rec = do(t, h, http.MethodPost, "/api/undo", nil)
	if st := decodeInto[map[string]any](t, rec); st["canRedo"] != true || st["cursor"] != 0.0 {
		t.Errorf("after undo = %v", st)
	}
	rec = do(t, h, http.MethodPost, "/api/redo", nil)
	if st := decodeInto[map[string]any](t, rec); st["canRedo"] != false {
		t.Errorf("after redo = %v", st)
	}
}

func TestLayersEndpoints(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0), rect("b", 0, 0), rect("c", 0, 0))

	rec := do(t, h, http.MethodPost, "/api/elements/a/layer", map[string]string{"action": "front"})
	resp := decodeInto[struct {
		Moved bool     `json:"moved"`
		Order []string `json:"order"`
	}](t, rec)
	if !resp.Moved || strings.Join(resp.Order, ",") != "b,c,a" {
		t.Errorf("front = %+v", resp)
	}
	if rec := do(t, h, http.MethodPost, "/api/elements/a/layer", map[string]string{"action": "up"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad action status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/layers/reorder", map[string]string{"dragged": "a", "target": "b"})
	resp = decodeInto[struct {
		Moved bool     `json:"moved"`
		Order []string `json:"order"`
	}](t, rec)
	if !resp.Moved || strings.Join(resp.Order, ",") != "a,b,c" {
		t.Errorf("reorder = %+v", resp)
	}
}

func TestAlignSelectionAndCanvas(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))

	if rec := do(t, h, http.MethodPut, "/api/selection", map[string]string{"id": "zz"}); rec.Code != http.StatusNotFound {
		t.Errorf("select missing status = %d", rec.Code)
	}
	do(t, h, http.MethodPut, "/api/selection", map[string]string{"id": "a"})
	rec := do(t, h, http.MethodPost, "/api/align", map[string]string{"kind": "center"})
	resp := decodeInto[struct {
		Aligned  bool           `json:"aligned"`
		Selected ggedit.Element `json:"selected"`
	}](t, rec)
	if !resp.Aligned || resp.Selected.Geometry.X != 350 {
		t.Errorf("align = %+v", resp)
	}

	if rec := do(t, h, http.MethodDelete, "/api/selection", nil); rec.Code != http.StatusNoContent {
		t.Errorf("clear selection status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/selection", nil)
	if resp := decodeInto[map[string]any](t, rec); resp["selected"] != nil {
		t.Errorf("selection after clear = %v", resp)
	}

	rec = do(t, h, http.MethodPatch, "/api/canvas", map[string]any{"gridSize": 10, "snapToGrid": false, "zoom": 1000})
	c := decodeInto[ggedit.Canvas](t, rec)
	if c.GridSize != 10 || c.Snap || c.Zoom != ggedit.MaxZoom {
		t.Errorf("canvas = %+v", c)
	}
	rec = do(t, h, http.MethodPost, "/api/canvas/zoom-out", nil)
	if c := decodeInto[ggedit.Canvas](t, rec); c.Zoom != ggedit.MaxZoom-ggedit.ZoomStep {
		t.Errorf("zoom out = %d", c.Zoom)
	}
}

func TestGroupNotImplemented(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(t, h, http.MethodPost, "/api/group", nil); rec.Code != http.StatusNotImplemented {
		t.Errorf("group status = %d, want 501", rec.Code)
	}
}

func TestLibrarySearch(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/library?q=star", nil)
	cats := decodeInto[[]struct {
		ID        string `json:"id"`
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}](t, rec)
	if len(cats) == 0 {
		t.Fatal("no categories for star")
	}
	for _, c := range cats {
		for _, tpl := range c.Templates {
			if !strings.Contains(tpl.ID, "star") {
				t.Errorf("unexpected template %q", tpl.ID)
			}
		}
	}
}

func TestExportDownload(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))

	rec := do(t, h, http.MethodGet, "/api/export?filename=Mon%20Dessin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=mon-dessin.svg` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body = %.40q", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/export?format=png&scale=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("png export status = %d: %s", rec.Code, rec.Body)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1600 || b.Dy() != 1200 {
		t.Errorf("png size = %v, want 1600x1200", b)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=my-svg-design.png` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	for _, q := range []string{"format=gif", "format=pdf", "scale=abc", "quality=ultra"} {
		if rec := do(t, h, http.MethodGet, "/api/export?"+q, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("export %s status = %d, want 400", q, rec.Code)
		}
	}
}

func TestExportSize(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))
	rec := do(t, h, http.MethodGet, "/api/export/size", nil)
	resp := decodeInto[struct {
		Bytes int    `json:"bytes"`
		Human string `json:"human"`
	}](t, rec)
	if resp.Bytes <= 0 || resp.Human == "" {
		t.Errorf("size = %+v", resp)
	}
}

func TestPreviewShowsGridAndSelection(t *testing.T) {
	s, h := newTestServer(t, rect("a", 0, 0))
	s.editor.Selection().Select("a")

	rec := do(t, h, http.MethodGet, "/preview.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "#E2E8F0") {
		t.Error("preview has no grid lines")
	}
	if !strings.Contains(body, "#3B82F6") || !strings.Contains(body, "stroke-dasharray") {
		t.Error("preview has no selection outline")
	}

	do(t, h, http.MethodPatch, "/api/canvas", map[string]any{"showGrid": false})
	rec = do(t, h, http.MethodGet, "/preview.svg", nil)
	if strings.Contains(rec.Body.String(), "#E2E8F0") {
		t.Error("grid drawn with showGrid off")
	}
}

func TestExportJob(t *testing.T) {
	_, h := newTestServer(t, rect("a", 0, 0))

	rec := do(t, h, http.MethodPost, "/api/export/jobs?format=jpg&quality=low", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	id := decodeInto[map[string]string](t, rec)["id"]

	deadline := time.Now().Add(10 * time.Second)
	for {
		rec = do(t, h, http.MethodGet, "/api/export/jobs/"+id, nil)
		st := decodeInto[map[string]any](t, rec)
		if st["status"] == "done" {
			break
		}
		if st["status"] == "failed" || time.Now().After(deadline) {
			t.Fatalf("job status = %v", st)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = do(t, h, http.MethodGet, "/api/export/jobs/"+id+"/download", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("download status = %d type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec := do(t, h, http.MethodGet, "/api/export/jobs/"+id+"/download", nil); rec.Code != http.StatusNotFound {
		t.Errorf("second download status = %d, want 404", rec.Code)
	}
}

func TestExportRejectsOversize(t *testing.T) {
	s, h := newTestServer(t, rect("a", 0, 0))
	for _, q := range []string{"width=1e9&height=1e9", "scale=1000", "scale=NaN", "width=Inf"} {
		for _, req := range []struct{ method, path string }{
			{http.MethodGet, "/api/export?"},
			{http.MethodPost, "/api/export/jobs?format=png&"},
		} {
			if rec := do(t, h, req.method, req.path+q, nil); rec.Code != http.StatusBadRequest {
				t.Errorf("%s %s%s status = %d, want 400", req.method, req.path, q, rec.Code)
			}
		}
	}
	if len(s.jobs) != 0 {
		t.Errorf("rejected exports left %d jobs", len(s.jobs))
	}
}

func TestExportJobLimit(t *testing.T) {
	ed := ggedit.New(ggedit.WithElements([]ggedit.Element{rect("a", 0, 0)}))
	s := New(ed, WithJobLimit(2))
	h := s.Handler()

	start := func() *httptest.ResponseRecorder {
		return do(t, h, http.MethodPost, "/api/export/jobs?format=svg", nil)
	}
	var ids []string
	for i := 0; i < 2; i++ {
		rec := start()
		if rec.Code != http.StatusAccepted {
			t.Fatalf("start %d status = %d", i, rec.Code)
		}
		ids = append(ids, decodeInto[map[string]string](t, rec)["id"])
	}
	for _, id := range ids {
		<-s.jobs[id].Done()
	}

	if rec := start(); rec.Code != http.StatusAccepted {
		t.Fatalf("start past limit status = %d", rec.Code)
	}
	if len(s.jobs) != 2 {
		t.Errorf("kept %d jobs, want 2", len(s.jobs))
	}
	if _, ok := s.jobs[ids[0]]; ok {
		t.Error("oldest finished job was not evicted")
	}
	if _, ok := s.jobs[ids[1]]; !ok {
		t.Error("newer finished job was evicted")
	}

	// Jobs that never finish cannot be evicted.
	s.jobs, s.jobOrder = map[string]*export.Job{"x": {}, "y": {}}, []string{"x", "y"}
	if rec := start(); rec.Code != http.StatusTooManyRequests {
		t.Errorf("start with all jobs running status = %d, want 429", rec.Code)
	}
}

func TestRequestsAreSerialized(t *testing.T) {
	s, h := newTestServer(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, h, http.MethodPost, "/api/drop", map[string]any{"template": "rect", "x": 0, "y": 0})
		}()
	}
	wg.Wait()
	if n := s.editor.Store().Len(); n != 20 {
		t.Errorf("elements = %d, want 20", n)
	}
}
