package store

import (
	"context"
	"testing"
	"time"
)

func samplePage() (Page, RelatedSet) {
	page := Page{
		ArticleID: 42,
		Locale:    "en",
		Title:     "Sample article",
		Tags:      "one;two",
		Path:      "/sample",
		Content:   "body",
	}
	related := RelatedSet{
		Institutions: []Institution{
			{ID: 1, Name: "Board A", URL: "https://a", IsResponsible: true},
			{ID: 2, Name: "Board B", URL: "https://b", IsResponsible: false},
		},
		LegalActs: []LegalAct{
			{ID: 7, Title: "Act", URL: "https://act", LegalActType: "regulation",
				GlobalID: 12.5, GroupID: 3, VersionStartDate: "2024-01-01"},
		},
		Contacts: []PageContact{
			{ID: 11, ContactID: 99, Role: "editor", FirstName: "Mari", LastName: "Maasikas",
				Company: "Dept", Email: "mari@example.com", CountryCode: "+372", NationalNumber: "5551234"},
		},
		RelatedPages: []RelatedPage{{ID: 21, Title: "Other", Locale: "en"}},
	}
	return page, related
}

func TestSavePage_InsertAndReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	page, related := samplePage()

	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("SavePage() failed: %v", err)
	}

	// Saving the same graph again must not duplicate anything.
	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("second SavePage() failed: %v", err)
	}

	var count int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM proj_dev WHERE article_id = 42`).Scan(&count); err != nil {
		t.Fatalf("count pages failed: %v", err)
	}
	if count != 1 {
		t.Errorf("page rows = %d, want 1", count)
	}

	instCount, err := s.RelatedCount(ctx, "proj", EnvDev, KindInstitution, 42)
	if err != nil {
		t.Fatalf("RelatedCount() failed: %v", err)
	}
	if instCount != 2 {
		t.Errorf("institution rows = %d, want 2", instCount)
	}
	svcCount, err := s.RelatedCount(ctx, "proj", EnvDev, KindService, 42)
	if err != nil {
		t.Fatalf("RelatedCount() failed: %v", err)
	}
	if svcCount != 0 {
		t.Errorf("service rows = %d, want 0", svcCount)
	}
}

// TestSavePage_PreservesSyncState verifies the upsert only overwrites
// synchronizable columns, leaving push bookkeeping intact.
func TestSavePage_PreservesSyncState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	page, related := samplePage()

	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("SavePage() failed: %v", err)
	}
	if _, err := s.conn.Exec(
		`UPDATE proj_dev SET exp_article_id = 99, status = 'succeeded' WHERE article_id = 42`); err != nil {
		t.Fatalf("mark synced failed: %v", err)
	}

	page.Title = "Renamed"
	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("re-pull SavePage() failed: %v", err)
	}

	var title, status string
	var exp int64
	if err := s.conn.QueryRow(
		`SELECT title, status, exp_article_id FROM proj_dev WHERE article_id = 42`).
		Scan(&title, &status, &exp); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if title != "Renamed" {
		t.Errorf("title = %q, want %q", title, "Renamed")
	}
	if exp != 99 || status != "succeeded" {
		t.Errorf("sync state overwritten: exp=%d status=%q", exp, status)
	}
}

func TestPushCandidates_CutoffSelection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []struct {
		id       int64
		modified any
	}{
		{1, nil},                   // never synchronized
		{2, "2024-06-01 11:00:00"}, // older than cutoff
		{3, "2024-06-01 12:00:00"}, // equal to cutoff
		{4, "2024-06-01 13:00:00"}, // newer than cutoff
	}
	for _, row := range rows {
		if _, err := s.conn.ExecContext(ctx, `
			INSERT INTO proj_dev (article_id, locale, title, tags, path, content, modified_timestamp)
			VALUES (?, 'en', 'T', '', '/p', 'c', ?)`, row.id, row.modified); err != nil {
			t.Fatalf("insert row %d failed: %v", row.id, err)
		}
	}

	cutoff := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	candidates, err := s.PushCandidates(ctx, "proj", EnvDev, &cutoff)
	if err != nil {
		t.Fatalf("PushCandidates() failed: %v", err)
	}

	got := map[int64]bool{}
	for _, c := range candidates {
		got[c.ArticleID] = true
	}
	if !got[1] {
		t.Error("row with NULL modified_timestamp not selected")
	}
	if got[2] {
		t.Error("row older than cutoff selected")
	}
	if got[3] {
		t.Error("row equal to cutoff selected")
	}
	if !got[4] {
		t.Error("row newer than cutoff not selected")
	}
}

// TestPushCandidates_NoCutoff verifies that with no prior run every row is a
// candidate, including rows with a set modified_timestamp.
func TestPushCandidates_NoCutoff(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO proj_dev (article_id, locale, title, tags, path, content, modified_timestamp)
		VALUES (1, 'en', 'T', '', '/p', 'c', '2024-06-01 11:00:00'),
		       (2, 'en', 'T', '', '/q', 'c', NULL)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	candidates, err := s.PushCandidates(ctx, "proj", EnvDev, nil)
	if err != nil {
		t.Fatalf("PushCandidates() failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(candidates))
	}
}

func TestMarkSynced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO proj_dev (article_id, locale, title, tags, path, content)
		VALUES (1, 'en', 'T', '', '/a', 'c')`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if err := s.MarkSynced(ctx, tx, "proj", EnvDev, 99, "/a", "en"); err != nil {
		t.Fatalf("MarkSynced() failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	var exp int64
	var status string
	if err := s.conn.QueryRow(
		`SELECT exp_article_id, status FROM proj_dev WHERE article_id = 1`).Scan(&exp, &status); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if exp != 99 {
		t.Errorf("exp_article_id = %d, want 99", exp)
	}
	if status != "succeeded" {
		t.Errorf("status = %q, want %q", status, "succeeded")
	}
}

func TestMarkSynced_MissingAddress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	defer tx.Rollback()

	if err := s.MarkSynced(ctx, tx, "proj", EnvDev, 99, "", "en"); err == nil {
		t.Error("MarkSynced() accepted empty path")
	}
	if err := s.MarkSynced(ctx, tx, "proj", EnvDev, 99, "/a", ""); err == nil {
		t.Error("MarkSynced() accepted empty locale")
	}
}

func TestRelatedForPage_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	page, related := samplePage()

	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("SavePage() failed: %v", err)
	}

	got, err := s.RelatedForPage(ctx, nil, "proj", EnvDev, 42)
	if err != nil {
		t.Fatalf("RelatedForPage() failed: %v", err)
	}

	if len(got.Institutions) != 2 {
		t.Fatalf("institutions = %d, want 2", len(got.Institutions))
	}
	if got.Institutions[0].Name != "Board A" || !got.Institutions[0].IsResponsible {
		t.Errorf("institution mismatch: %+v", got.Institutions[0])
	}
	if len(got.LegalActs) != 1 || got.LegalActs[0].GlobalID != 12.5 {
		t.Errorf("legal acts mismatch: %+v", got.LegalActs)
	}
	if len(got.Contacts) != 1 || got.Contacts[0].ContactID != 99 {
		t.Errorf("contacts mismatch: %+v", got.Contacts)
	}
	if len(got.RelatedPages) != 1 || got.RelatedPages[0].Title != "Other" {
		t.Errorf("related pages mismatch: %+v", got.RelatedPages)
	}
	if len(got.Services) != 0 {
		t.Errorf("services = %d, want 0", len(got.Services))
	}
}

// TestRelatedForPage_InsideTransaction reads through an open transaction.
// The pool holds one connection, so a read routed past the transaction would
// wait on it forever.
func TestRelatedForPage_InsideTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	page, related := samplePage()

	if err := s.SavePage(ctx, "proj", EnvDev, page, related); err != nil {
		t.Fatalf("SavePage() failed: %v", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	defer tx.Rollback()

	got, err := s.RelatedForPage(ctx, tx, "proj", EnvDev, 42)
	if err != nil {
		t.Fatalf("RelatedForPage() inside transaction failed: %v", err)
	}
	if len(got.Institutions) != 2 {
		t.Errorf("institutions = %d, want 2", len(got.Institutions))
	}
}

func TestTags(t *testing.T) {
	if got := JoinTags([]string{"a", "b"}); got != "a;b" {
		t.Errorf("JoinTags() = %q, want %q", got, "a;b")
	}
	if got := SplitTags("a;b"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitTags() = %v", got)
	}
	if got := SplitTags(""); len(got) != 0 {
		t.Errorf("SplitTags(\"\") = %v, want empty", got)
	}
}
