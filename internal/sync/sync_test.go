package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/tasa-sync/tasa/internal/arva"
	"github.com/tasa-sync/tasa/internal/report"
	"github.com/tasa-sync/tasa/internal/store"
)

// recordSink captures every reported line for assertions.
type recordSink struct {
	infos  []string
	errors []string
}

func (s *recordSink) Report(kind report.Kind, message string) {
	if kind == report.Error {
		s.errors = append(s.errors, message)
		return
	}
	s.infos = append(s.infos, message)
}

func (s *recordSink) hasInfo(t *testing.T, want string) {
	t.Helper()
	for _, line := range s.infos {
		if line == want {
			return
		}
	}
	t.Errorf("info line %q not reported; got %q", want, s.infos)
}

func (s *recordSink) hasError(t *testing.T, wantSubstring string) {
	t.Helper()
	for _, line := range s.errors {
		if strings.Contains(line, wantSubstring) {
			return
		}
	}
	t.Errorf("no error line contains %q; got %q", wantSubstring, s.errors)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := store.ProjectPath(t.TempDir(), "proj")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateSchema(context.Background(), "proj"); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return s
}

// execSQL runs one statement against the store file over a second connection.
// Tests use it to shape row state the public API does not expose.
func execSQL(t *testing.T, s *store.Store, query string, args ...any) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+s.Path())
	if err != nil {
		t.Fatalf("failed to open store file: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("statement failed: %v", err)
	}
}

func querySQL[T any](t *testing.T, s *store.Store, query string, args ...any) T {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+s.Path())
	if err != nil {
		t.Fatalf("failed to open store file: %v", err)
	}
	defer db.Close()
	var value T
	if err := db.QueryRow(query, args...).Scan(&value); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return value
}

// remoteCall is one document the fake endpoint received.
type remoteCall struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeRemote is a canned GraphQL endpoint dispatching on the request document.
type fakeRemote struct {
	server *httptest.Server
	calls  []remoteCall

	// pageGraph maps article ids to canned read responses (raw data objects).
	pageGraph map[int64]string
	// pageErrors maps article ids to canned errors arrays for the read query.
	pageErrors map[int64]string
	// failCreatePath makes create mutations for that path answer with an
	// errors array.
	failCreatePath string
	// nextPageID is assigned by the next create or update mutation.
	nextPageID int64
	// relatedNull makes the follow-up mutation answer with null data.
	relatedNull bool
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()
	f := &fakeRemote{
		pageGraph:  make(map[int64]string),
		pageErrors: make(map[int64]string),
		nextPageID: 99,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) handle(w http.ResponseWriter, r *http.Request) {
	var call remoteCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.calls = append(f.calls, call)

	switch {
	case strings.Contains(call.Query, "history("):
		id := int64(call.Variables["id"].(float64))
		if errs, ok := f.pageErrors[id]; ok {
			fmt.Fprintf(w, `{"data": null, "errors": %s}`, errs)
			return
		}
		if data, ok := f.pageGraph[id]; ok {
			fmt.Fprintf(w, `{"data": %s}`, data)
			return
		}
		http.Error(w, "unknown article", http.StatusInternalServerError)

	case strings.Contains(call.Query, "saveArvaServicesForPage"):
		if f.relatedNull {
			fmt.Fprint(w, `{"data": null}`)
			return
		}
		fmt.Fprint(w, `{"data": {"arvaInstitution": {"saveArvaInstitutionsForPage": {"succeeded": true}}}}`)

	case strings.Contains(call.Query, "update("):
		fmt.Fprintf(w, `{"data": {"pages": {"update": {
			"responseResult": {"succeeded": true, "message": "Page has been updated."},
			"page": {"id": %d}}}}}`, int64(call.Variables["id"].(float64)))

	case strings.Contains(call.Query, "create("):
		if f.failCreatePath != "" && call.Variables["path"] == f.failCreatePath {
			fmt.Fprint(w, `{"data": null, "errors": [{"message": "Duplicate path"}]}`)
			return
		}
		fmt.Fprintf(w, `{"data": {"pages": {"create": {
			"responseResult": {"succeeded": true, "message": "Page created successfully."},
			"page": {"id": %d}}}}}`, f.nextPageID)

	default:
		http.Error(w, "unexpected document", http.StatusBadRequest)
	}
}

func newTestClient(f *fakeRemote) *arva.Client {
	return arva.New(f.server.URL, "token", arva.Options{})
}

// callsMatching returns the received documents containing marker.
func (f *fakeRemote) callsMatching(marker string) []remoteCall {
	var out []remoteCall
	for _, call := range f.calls {
		if strings.Contains(call.Query, marker) {
			out = append(out, call)
		}
	}
	return out
}
