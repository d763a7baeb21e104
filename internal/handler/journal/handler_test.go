package journal_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	journalHandler "github.com/mindhaven/backend/internal/handler/journal"
	"github.com/mindhaven/backend/internal/middleware"
	"github.com/mindhaven/backend/internal/model/journal"
	"github.com/mindhaven/backend/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	r := chi.NewRouter()
	r.Use(middleware.Identity)
	journalHandler.New(st).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, userID string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestJournalLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/journals", "u1",
		journal.Draft{Title: "Rough day", Body: "long day", Mood: "😐"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	resp.Body.Close()
	entryID := created["id"]
	if entryID == "" {
		t.Fatal("entry id missing")
	}

	resp = do(t, http.MethodPatch, srv.URL+"/journals/"+entryID, "u1",
		map[string]string{"mood": "😄"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/journals", "u1", nil)
	var entries []journal.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(entries) != 1 || entries[0].Mood != "😄" || entries[0].Title != "Rough day" {
		t.Fatalf("entries = %+v", entries)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/journals/"+entryID, "u1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/journals/"+entryID, "u1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestJournalRequiresUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/journals", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestJournalCreateValidatesTitle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/journals", "u1", journal.Draft{Body: "no title"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestJournalUpdateScopedToUser(t *testing.T) {
	srv, st := newTestServer(t)

	id, err := st.CreateEntry(t.Context(), "u1", journal.Draft{Title: "Mine", Body: "b", Mood: "🙂"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	resp := do(t, http.MethodPatch, srv.URL+"/journals/"+id, "u2", map[string]string{"title": "Stolen"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-user patch status = %d, want 404", resp.StatusCode)
	}
}
