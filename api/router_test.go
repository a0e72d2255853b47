package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"outfitmem/formats"
	"outfitmem/layout"
	"outfitmem/outfit"
	"outfitmem/process"
	"outfitmem/process_blob"
	"outfitmem/session"
	"outfitmem/wardrobe"

	"github.com/google/go-cmp/cmp"
)

const (
	gameBase   = process.ProcessMemoryAddress(0x140000000)
	outfitRoot = gameBase + 0x8000
)

func gameImage(t *testing.T) *process_blob.ProcessBlob {
	t.Helper()
	blob := process_blob.NewNamedProcessBlob("GTA5.exe", gameBase, make([]byte, 0x20000))

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	rel := func(insn, target process.ProcessMemoryAddress) {
		must(process.Write(blob, insn+3, int32(int64(target)-int64(insn+7))))
	}

	must(blob.WriteMemory(gameBase+0x100, []byte{0x48, 0x8B, 0x05, 0, 0, 0, 0, 0x45, 0x0F, 0xC6, 0xC0}))
	rel(gameBase+0x100, gameBase+0x1000)
	must(process.Write(blob, gameBase+0x1000, uint64(gameBase+0x2000)))
	must(process.Write(blob, gameBase+0x2008, uint64(gameBase+0x3000)))
	must(process.Write(blob, gameBase+0x3020, outfit.ModelFreemodeFemale))

	must(blob.WriteMemory(gameBase+0x200, []byte{0x48, 0x8D, 0x3D, 0, 0, 0, 0, 0x80, 0x3E, 0x00, 0x0F, 0x84, 9, 9, 9, 9}))
	rel(gameBase+0x200, outfitRoot)

	must(process.Write(blob, outfitRoot, uint64(gameBase+0x10000)))
	must(process.Write(blob, gameBase+0x10008, uint64(gameBase+0x11000)))
	must(process.Write(blob, gameBase+0x11000+0x10A8, uint64(gameBase+0x13000)))
	must(process.WriteNTS(blob, gameBase+0x130FC, "Vinewood"))
	return blob
}

type opener struct {
	proc process.Process
}

func (o opener) OpenProcessByName(name string) (process.Process, error) {
	if o.proc == nil {
		return nil, process.ErrNotFound
	}
	return o.proc, nil
}

func newServer(t *testing.T, proc process.Process) (*Server, *wardrobe.Store) {
	t.Helper()
	store, err := wardrobe.New(filepath.Join(t.TempDir(), "wardrobe.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	sess := session.New(opener{proc: proc}, layout.Default(), session.Options{Store: store, AutoBackup: true})
	return New(sess, []string{"http://localhost:*"}), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAttachFailureIsCoarse(t *testing.T) {
	s, _ := newServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/attach", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("attach status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if diff := cmp.Diff(map[string]string{"error": "attach failed"}, body); diff != "" {
		t.Errorf("attach body (-want +got):\n%s", diff)
	}

	rec = do(t, s, http.MethodGet, "/api/outfit", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("read before attach status = %d", rec.Code)
	}
}

func TestLiveOutfitFlow(t *testing.T) {
	blob := gameImage(t)
	s, store := newServer(t, blob)

	if rec := do(t, s, http.MethodPost, "/api/attach", ""); rec.Code != http.StatusOK {
		t.Fatalf("attach = %d %s", rec.Code, rec.Body.String())
	}

	var status statusResponse
	decode(t, do(t, s, http.MethodGet, "/api/status", ""), &status)
	want := statusResponse{
		State:   "attached",
		Process: "GTA5.exe",
		World:   (gameBase + 0x2000).ToString(),
		Outfit:  outfitRoot.ToString(),
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("status (-want +got):\n%s", diff)
	}

	doc := `{"outfit":{"component":[0,0,0,15,21,0,34,0,15,0,0,0],` +
		`"component variation":[0,0,0,0,3,0,0,0,0,0,0,0],"model":2627665880,` +
		`"prop":[8,-1,-1,-1,-1,-1,-1,-1,-1],"prop variation":[2,-1,-1,-1,-1,-1,-1,-1,-1]}}`
	rec := do(t, s, http.MethodPut, "/api/outfit", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("write = %d %s", rec.Code, rec.Body.String())
	}

	legs, _ := process.Read[int32](blob, outfitRoot+0x3F58)
	if legs != 21 {
		t.Errorf("legs in memory = %d", legs)
	}

	rec = do(t, s, http.MethodGet, "/api/outfit?format=stand", "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Outfit-Format") != "stand" {
		t.Fatalf("read = %d %v", rec.Code, rec.Header())
	}
	if !strings.Contains(rec.Body.String(), "Pants: 21\n") || !strings.Contains(rec.Body.String(), "Model: Online Female\n") {
		t.Errorf("stand export:\n%s", rec.Body.String())
	}

	var entries []wardrobe.Entry
	decode(t, do(t, s, http.MethodGet, "/api/wardrobe?kind=backup", ""), &entries)
	if len(entries) != 1 {
		t.Fatalf("backups after write = %d", len(entries))
	}

	if rec := do(t, s, http.MethodPost, "/api/restore", ""); rec.Code != http.StatusOK {
		t.Fatalf("restore = %d %s", rec.Code, rec.Body.String())
	}
	legs, _ = process.Read[int32](blob, outfitRoot+0x3F58)
	if legs != 0 {
		t.Errorf("legs after restore = %d", legs)
	}

	rec = do(t, s, http.MethodGet, "/api/wardrobe/"+entries[0].ID+"?format=lexis", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get entry = %d", rec.Code)
	}
	if formats.DetectFormat(rec.Body.Bytes()) != formats.Lexis {
		t.Errorf("entry export is not lexis:\n%s", rec.Body.String())
	}

	if rec := do(t, s, http.MethodDelete, "/api/wardrobe/"+entries[0].ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/wardrobe/"+entries[0].ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", rec.Code)
	}
	if n, _ := store.List(""); len(n) != 0 {
		t.Errorf("store still holds %d entries", len(n))
	}

	if rec := do(t, s, http.MethodPost, "/api/detach", ""); rec.Code != http.StatusOK {
		t.Errorf("detach = %d", rec.Code)
	}
}

func TestOutfitName(t *testing.T) {
	s, _ := newServer(t, gameImage(t))
	do(t, s, http.MethodPost, "/api/attach", "")

	var got nameRequest
	decode(t, do(t, s, http.MethodGet, "/api/outfit/name", ""), &got)
	if got.Name != "Vinewood" {
		t.Errorf("name = %q", got.Name)
	}

	if rec := do(t, s, http.MethodPut, "/api/outfit/name", `{"name":"Del Perro"}`); rec.Code != http.StatusOK {
		t.Fatalf("set name = %d", rec.Code)
	}
	decode(t, do(t, s, http.MethodGet, "/api/outfit/name", ""), &got)
	if got.Name != "Del Perro" {
		t.Errorf("name after set = %q", got.Name)
	}

	long := `{"name":"` + strings.Repeat("n", 300) + `"}`
	if rec := do(t, s, http.MethodPut, "/api/outfit/name", long); rec.Code != http.StatusBadRequest {
		t.Errorf("long name = %d", rec.Code)
	}
}

func TestDetectConvert(t *testing.T) {
	s, _ := newServer(t, nil)
	yim := `{"blend_data":{"is_parent":false},"components":{"4":{"drawable_id":21,"texture_id":3}},"props":{},"model":1885233650}`

	var detected map[string]string
	decode(t, do(t, s, http.MethodPost, "/api/detect", yim), &detected)
	if detected["format"] != "yimmenu" {
		t.Errorf("detect = %v", detected)
	}

	rec := do(t, s, http.MethodPost, "/api/convert?to=lexis", yim)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert = %d %s", rec.Code, rec.Body.String())
	}
	l, err := formats.DecodeLexis(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if l.Component[4] != 21 || l.ComponentVariation[4] != 3 {
		t.Errorf("converted legs = %d/%d", l.Component[4], l.ComponentVariation[4])
	}

	if rec := do(t, s, http.MethodPost, "/api/convert?to=nope", yim); rec.Code != http.StatusBadRequest {
		t.Errorf("convert to unknown = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/convert?to=stand", "garbage"); rec.Code != http.StatusBadRequest {
		t.Errorf("convert garbage = %d", rec.Code)
	}
}
