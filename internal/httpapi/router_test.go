package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chessplay/internal/session"
	"github.com/hailam/chessplay/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewRouter(session.NewManager(store))
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createGame(t *testing.T, r http.Handler) session.Snapshot {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/v1/games", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[session.Snapshot](t, rec)
}

func TestNewRouter_Healthz(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("status field = %v, want ok", body["status"])
	}
}

func TestGameLifecycle(t *testing.T) {
	r := newTestRouter(t)
	snap := createGame(t, r)
	path := "/v1/games/" + snap.ID

	rec := doJSON(t, r, http.MethodGet, path+"/moves?from=e2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("legal moves status = %d", rec.Code)
	}
	moves := decode[legalMovesResponse](t, rec)
	if len(moves.To) != 2 {
		t.Errorf("legal moves from e2 = %v", moves.To)
	}

	for _, mv := range []string{
		`{"from":"f2","to":"f3"}`,
		`{"from":"e7","to":"e5"}`,
		`{"from":"g2","to":"g4"}`,
		`{"from":"d8","to":"h4"}`,
	} {
		rec = doJSON(t, r, http.MethodPost, path+"/moves", mv)
		if rec.Code != http.StatusOK {
			t.Fatalf("move %s status = %d, body = %s", mv, rec.Code, rec.Body.String())
		}
	}
	final := decode[session.Snapshot](t, rec)
	if final.Status != "checkmate" || final.Color != "White" {
		t.Errorf("final snapshot = %+v", final)
	}

	rec = doJSON(t, r, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/v1/stats", "")
	stats := decode[storage.GameStats](t, rec)
	if stats.BlackWins != 1 {
		t.Errorf("stats = %+v", stats)
	}

	rec = doJSON(t, r, http.MethodGet, "/v1/games", "")
	list := decode[[]gameSummary](t, rec)
	if len(list) != 1 || list[0].Plies != 4 || list[0].Result != "0-1" {
		t.Errorf("list = %+v", list)
	}

	rec = doJSON(t, r, http.MethodDelete, path, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, path, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	snap := createGame(t, r)
	path := "/v1/games/" + snap.ID

	mated := createGame(t, r)
	for _, mv := range []string{`{"from":"f2","to":"f3"}`, `{"from":"e7","to":"e5"}`, `{"from":"g2","to":"g4"}`, `{"from":"d8","to":"h4"}`} {
		doJSON(t, r, http.MethodPost, "/v1/games/"+mated.ID+"/moves", mv)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"illegal move", http.MethodPost, path + "/moves", `{"from":"e2","to":"e5"}`, http.StatusUnprocessableEntity},
		{"invalid square", http.MethodPost, path + "/moves", `{"from":"e2","to":"e9"}`, http.StatusBadRequest},
		{"missing field", http.MethodPost, path + "/moves", `{"from":"e2"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, path + "/moves", `{`, http.StatusBadRequest},
		{"game over", http.MethodPost, "/v1/games/" + mated.ID + "/moves", `{"from":"a2","to":"a3"}`, http.StatusConflict},
		{"resign after mate", http.MethodPost, "/v1/games/" + mated.ID + "/resign", `{"color":"white"}`, http.StatusConflict},
		{"unknown game", http.MethodGet, "/v1/games/nope", "", http.StatusNotFound},
		{"malformed fen", http.MethodPost, "/v1/games", `{"fen":"8/8/8 w - - 0 1"}`, http.StatusBadRequest},
		{"missing from", http.MethodGet, path + "/moves", "", http.StatusBadRequest},
		{"bad from", http.MethodGet, path + "/moves?from=k9", "", http.StatusBadRequest},
		{"bad color", http.MethodPost, path + "/resign", `{"color":"green"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, tc.method, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.want, rec.Body.String())
			}
			body := decode[map[string]any](t, rec)
			if body["error"] == nil || body["details"] == nil {
				t.Errorf("error body = %v", body)
			}
		})
	}
}

func TestResignAndCreateFromFEN(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/games", `{"fen":"4k3/1P5p/8/8/8/8/8/4K3 w - - 0 1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	snap := decode[session.Snapshot](t, rec)

	rec = doJSON(t, r, http.MethodPost, "/v1/games/"+snap.ID+"/moves", `{"from":"b7","to":"b8","promotion":"n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("promotion status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode[session.Snapshot](t, rec); got.LastMove != "b7b8n" {
		t.Errorf("LastMove = %q, want b7b8n", got.LastMove)
	}

	rec = doJSON(t, r, http.MethodPost, "/v1/games/"+snap.ID+"/resign", `{"color":"black"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("resign status = %d", rec.Code)
	}
	if got := decode[session.Snapshot](t, rec); got.Status != "terminated" || got.Result != "1-0" {
		t.Errorf("after resign = %+v", got)
	}
}

// brokenService fails Stats with an unclassified error.
type brokenService struct{ GameService }

func (brokenService) Stats() (*storage.GameStats, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(brokenService{})

	rec := doJSON(t, r, http.MethodGet, "/v1/stats", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
