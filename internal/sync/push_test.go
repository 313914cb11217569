package sync

import (
	"context"
	"testing"
	"time"

	"github.com/tasa-sync/tasa/internal/store"
)

// seedPage writes one never-pushed local row with a related graph. SavePage
// leaves modified_timestamp NULL, so the row is always a push candidate.
func seedPage(t *testing.T, s *store.Store, id int64, path string) {
	t.Helper()
	page := store.Page{
		ArticleID: id,
		Locale:    "en",
		Title:     "Sample",
		Tags:      "one;two",
		Path:      path,
		Content:   "body",
	}
	related := store.RelatedSet{
		Institutions: []store.Institution{
			{ID: 1, Name: "Board A", URL: "https://a", IsResponsible: true},
		},
		LegalActs: []store.LegalAct{
			{ID: 7, Title: "Act", URL: "https://act", LegalActType: "regulation",
				GlobalID: 12.5, GroupID: 3, VersionStartDate: "2024-01-01"},
		},
		Contacts: []store.PageContact{
			{ID: 11, ContactID: 88, Role: "editor", FirstName: "Mari", LastName: "Maasikas"},
		},
	}
	if err := s.SavePage(context.Background(), "proj", store.EnvDev, page, related); err != nil {
		t.Fatalf("seed SavePage() failed: %v", err)
	}
}

func TestPush_CreatesNewRecord(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	sink := &recordSink{}
	seedPage(t, s, 42, "/sample")

	pusher := NewPusher(s, newTestClient(remote), sink)
	pusher.Push(context.Background(), "proj", store.EnvDev)

	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors: %q", sink.errors)
	}
	sink.hasInfo(t, "Record 99: Page created successfully.")
	sink.hasInfo(t, "Successfully processed related records for pageId: 99")
	sink.hasInfo(t, "All records processed.")

	exp := querySQL[int64](t, s, `SELECT exp_article_id FROM proj_dev WHERE article_id = 42`)
	if exp != 99 {
		t.Errorf("exp_article_id = %d, want 99", exp)
	}
	status := querySQL[string](t, s, `SELECT status FROM proj_dev WHERE article_id = 42`)
	if status != "succeeded" {
		t.Errorf("status = %q, want %q", status, "succeeded")
	}

	creates := remote.callsMatching("create(")
	if len(creates) != 1 {
		t.Fatalf("create mutations = %d, want 1", len(creates))
	}
	if got := creates[0].Variables["editor"]; got != "code" {
		t.Errorf("editor variable = %v, want %q", got, "code")
	}

	// The follow-up call carries the remote id and the shaped related lists.
	followUps := remote.callsMatching("saveArvaServicesForPage")
	if len(followUps) != 1 {
		t.Fatalf("follow-up mutations = %d, want 1", len(followUps))
	}
	vars := followUps[0].Variables
	if got := vars["pageId"]; got != float64(99) {
		t.Errorf("pageId variable = %v, want 99", got)
	}
	acts, ok := vars["legalActInput"].([]any)
	if !ok || len(acts) != 1 {
		t.Fatalf("legalActInput = %v, want one entry", vars["legalActInput"])
	}
	if _, hasID := acts[0].(map[string]any)["id"]; hasID {
		t.Error("legal act input carries an id, want none")
	}
	contacts, ok := vars["pageContactInput"].([]any)
	if !ok || len(contacts) != 1 {
		t.Fatalf("pageContactInput = %v, want one entry", vars["pageContactInput"])
	}
	if got := contacts[0].(map[string]any)["id"]; got != float64(88) {
		t.Errorf("contact input id = %v, want contact registry id 88", got)
	}
}

// TestPush_SuccessfulBatchTerminates guards the batch against waiting on its
// own transaction: the store pool holds one connection, so any read bypassing
// the open transaction blocks the batch forever.
func TestPush_SuccessfulBatchTerminates(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	sink := &recordSink{}
	seedPage(t, s, 42, "/sample")

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewPusher(s, newTestClient(remote), sink).Push(context.Background(), "proj", store.EnvDev)
	}()

	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("push batch with a successful row did not terminate")
	}
	sink.hasInfo(t, "All records processed.")
}

func TestPush_UpdatesKnownRecord(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	sink := &recordSink{}
	seedPage(t, s, 42, "/sample")
	// The update trigger stamps modified_timestamp, so backdate the run log to
	// keep the row a candidate.
	execSQL(t, s, `UPDATE proj_dev SET exp_article_id = 55 WHERE article_id = 42`)
	execSQL(t, s, `UPDATE last_run SET last_sync_timestamp = '2000-01-01 00:00:00'`)

	pusher := NewPusher(s, newTestClient(remote), sink)
	pusher.Push(context.Background(), "proj", store.EnvDev)

	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors: %q", sink.errors)
	}
	sink.hasInfo(t, "Record 55: Page has been updated.")

	updates := remote.callsMatching("update(")
	if len(updates) != 1 {
		t.Fatalf("update mutations = %d, want 1", len(updates))
	}
	if got := updates[0].Variables["id"]; got != float64(55) {
		t.Errorf("id variable = %v, want 55", got)
	}
	if creates := remote.callsMatching("create("); len(creates) != 0 {
		t.Errorf("create mutations = %d, want 0", len(creates))
	}
}

func TestPush_NoCandidates(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	sink := &recordSink{}

	pusher := NewPusher(s, newTestClient(remote), sink)
	pusher.Push(context.Background(), "proj", store.EnvDev)

	sink.hasInfo(t, "No records to process.")
	if len(remote.calls) != 0 {
		t.Errorf("remote calls = %d, want 0", len(remote.calls))
	}
}

// TestPush_FailureIsolation verifies one rejected row does not stop the scan
// or the final status commit for the rows that went through.
func TestPush_FailureIsolation(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	remote.failCreatePath = "/bad"
	sink := &recordSink{}
	seedPage(t, s, 1, "/bad")
	seedPage(t, s, 2, "/good")

	pusher := NewPusher(s, newTestClient(remote), sink)
	pusher.Push(context.Background(), "proj", store.EnvDev)

	sink.hasError(t, "Failed to process record article_id 1: Duplicate path")
	sink.hasInfo(t, "All records processed.")

	status := querySQL[string](t, s, `SELECT COALESCE(status, '') FROM proj_dev WHERE article_id = 1`)
	if status != "" {
		t.Errorf("failed row status = %q, want unset", status)
	}
	exp := querySQL[int64](t, s, `SELECT exp_article_id FROM proj_dev WHERE article_id = 2`)
	if exp != 99 {
		t.Errorf("succeeding row exp_article_id = %d, want 99", exp)
	}
}

func TestPush_RelatedNotAcknowledged(t *testing.T) {
	s := newTestStore(t)
	remote := newFakeRemote(t)
	remote.relatedNull = true
	sink := &recordSink{}
	seedPage(t, s, 42, "/sample")

	pusher := NewPusher(s, newTestClient(remote), sink)
	pusher.Push(context.Background(), "proj", store.EnvDev)

	sink.hasError(t, "Failed to process related records for pageId: 99")
	// The page itself still counts as synced.
	status := querySQL[string](t, s, `SELECT status FROM proj_dev WHERE article_id = 42`)
	if status != "succeeded" {
		t.Errorf("status = %q, want %q", status, "succeeded")
	}
}
