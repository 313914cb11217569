package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Page holds the synchronizable columns of an environment main-table row.
// ArticleID doubles as the remote identifier for records that originate from
// a pull.
type Page struct {
	ArticleID int64
	Locale    string
	Title     string
	Tags      string
	Path      string
	Content   string
}

// Candidate is a main-table row selected for pushing. ExpArticleID carries
// the remote id assigned by an earlier create push; it is invalid for rows
// that have never been pushed.
type Candidate struct {
	ArticleID    int64
	ExpArticleID sql.NullInt64
	Locale       string
	Title        string
	Tags         string
	Path         string
	Content      string
}

// Institution is a related-entity row of kind arva_institution.
type Institution struct {
	ID            int64
	Name          string
	URL           string
	IsResponsible bool
}

// LegalAct is a related-entity row of kind arva_legal_act.
type LegalAct struct {
	ID               int64
	Title            string
	URL              string
	LegalActType     string
	GlobalID         float64
	GroupID          int64
	VersionStartDate string
}

// PageContact is a related-entity row of kind arva_page_contact.
type PageContact struct {
	ID             int64
	ContactID      int64
	Role           string
	FirstName      string
	LastName       string
	Company        string
	Email          string
	CountryCode    string
	NationalNumber string
}

// RelatedPage is a related-entity row of kind arva_related_pages.
type RelatedPage struct {
	ID     int64
	Title  string
	Locale string
}

// Service is a related-entity row of kind arva_service.
type Service struct {
	ID   int64
	Name string
	URL  string
}

// RelatedSet groups all five related-entity collections for one page.
type RelatedSet struct {
	Institutions []Institution
	LegalActs    []LegalAct
	Contacts     []PageContact
	RelatedPages []RelatedPage
	Services     []Service
}

// JoinTags flattens a remote tag list into the store's semicolon-joined
// representation.
func JoinTags(tags []string) string {
	return strings.Join(tags, ";")
}

// SplitTags expands a stored tag string back into a list. An empty string
// yields an empty list, not a single empty tag.
func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return strings.Split(tags, ";")
}

// SavePage upserts one page row and replaces its related rows wholesale, all
// in a single transaction committed once.
//
// The upsert is keyed on article_id; on conflict only the synchronizable
// columns are overwritten, leaving exp_article_id and status intact. All five
// related tables are cleared for the page before the fresh rows go in,
// preserving the remote-assigned ids, so re-saving unchanged data is
// idempotent.
func (s *Store) SavePage(ctx context.Context, project string, env Env, page Page, related RelatedSet) error {
	main, err := MainTable(project, env)
	if err != nil {
		return err
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (article_id, locale, title, tags, path, content)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			locale = excluded.locale,
			title = excluded.title,
			tags = excluded.tags,
			path = excluded.path,
			content = excluded.content`, main),
		page.ArticleID, page.Locale, page.Title, page.Tags, page.Path, page.Content,
	); err != nil {
		return fmt.Errorf("failed to upsert page %d: %w", page.ArticleID, err)
	}

	for _, kind := range RelatedKinds {
		table, err := RelatedTable(project, env, kind)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE pageId = ?", table), page.ArticleID); err != nil {
			return fmt.Errorf("failed to clear %s for page %d: %w", table, page.ArticleID, err)
		}
	}

	if err := insertRelated(ctx, tx, project, env, page.ArticleID, related); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page %d: %w", page.ArticleID, err)
	}
	return nil
}

// insertRelated writes all five related-entity collections for one page.
func insertRelated(ctx context.Context, tx querier, project string, env Env, pageID int64, related RelatedSet) error {
	tables := make(map[RelatedKind]string, len(RelatedKinds))
	for _, kind := range RelatedKinds {
		table, err := RelatedTable(project, env, kind)
		if err != nil {
			return err
		}
		tables[kind] = table
	}

	for _, inst := range related.Institutions {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, pageId, name, url, isResponsible)
			VALUES (?, ?, ?, ?, ?)`, tables[KindInstitution]),
			inst.ID, pageID, inst.Name, inst.URL, inst.IsResponsible); err != nil {
			return fmt.Errorf("failed to insert institution %d for page %d: %w", inst.ID, pageID, err)
		}
	}

	for _, act := range related.LegalActs {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, pageId, title, url, legalActType, globalId, groupId, versionStartDate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, tables[KindLegalAct]),
			act.ID, pageID, act.Title, act.URL, act.LegalActType,
			act.GlobalID, act.GroupID, act.VersionStartDate); err != nil {
			return fmt.Errorf("failed to insert legal act %d for page %d: %w", act.ID, pageID, err)
		}
	}

	for _, contact := range related.Contacts {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, pageId, contactId, role, firstName, lastName, company, email, countryCode, nationalNumber)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, tables[KindPageContact]),
			contact.ID, pageID, contact.ContactID, contact.Role, contact.FirstName,
			contact.LastName, contact.Company, contact.Email, contact.CountryCode,
			contact.NationalNumber); err != nil {
			return fmt.Errorf("failed to insert contact %d for page %d: %w", contact.ID, pageID, err)
		}
	}

	for _, rel := range related.RelatedPages {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, pageId, title, locale)
			VALUES (?, ?, ?, ?)`, tables[KindRelatedPages]),
			rel.ID, pageID, rel.Title, rel.Locale); err != nil {
			return fmt.Errorf("failed to insert related page %d for page %d: %w", rel.ID, pageID, err)
		}
	}

	for _, svc := range related.Services {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, pageId, name, url)
			VALUES (?, ?, ?, ?)`, tables[KindService]),
			svc.ID, pageID, svc.Name, svc.URL); err != nil {
			return fmt.Errorf("failed to insert service %d for page %d: %w", svc.ID, pageID, err)
		}
	}

	return nil
}

// PushCandidates selects the rows needing synchronization: never-synchronized
// rows (NULL modified_timestamp) and rows changed since the cutoff. A nil
// cutoff means no prior run exists and every row qualifies.
func (s *Store) PushCandidates(ctx context.Context, project string, env Env, cutoff *time.Time) ([]Candidate, error) {
	main, err := MainTable(project, env)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT article_id, exp_article_id,
		       COALESCE(locale, ''), COALESCE(title, ''), COALESCE(tags, ''),
		       COALESCE(path, ''), COALESCE(content, '')
		FROM %s`, main)
	var args []any
	if cutoff != nil {
		query += " WHERE modified_timestamp IS NULL OR modified_timestamp > ?"
		args = append(args, cutoff.UTC().Format(timeFormat))
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for push candidates: %w", main, err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ArticleID, &c.ExpArticleID, &c.Locale, &c.Title,
			&c.Tags, &c.Path, &c.Content); err != nil {
			return nil, fmt.Errorf("failed to scan push candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating push candidates: %w", err)
	}
	return candidates, nil
}

// MarkSynced records a successful remote write on the local row, setting
// exp_article_id to the remote id and status to 'succeeded'.
//
// The row is addressed by (path, locale) rather than article_id: after a
// create push the remote id the row will carry going forward may differ from
// the local key. Runs inside the push batch's transaction.
func (s *Store) MarkSynced(ctx context.Context, tx *sql.Tx, project string, env Env, remoteID int64, path, locale string) error {
	if path == "" || locale == "" {
		return fmt.Errorf("cannot record sync status for remote id %d: missing path or locale", remoteID)
	}

	main, err := MainTable(project, env)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s
		SET exp_article_id = ?, status = 'succeeded'
		WHERE path = ? AND locale = ?`, main),
		remoteID, path, locale); err != nil {
		return fmt.Errorf("failed to record sync status for remote id %d: %w", remoteID, err)
	}
	return nil
}

// RelatedForPage loads all five related-entity collections for one page from
// the local store, as pushed by the follow-up mutation.
//
// With a non-nil tx the reads run inside that transaction. The store's pool
// holds a single connection, so reading through s.conn while a transaction is
// open would wait on the connection the transaction occupies.
func (s *Store) RelatedForPage(ctx context.Context, tx *sql.Tx, project string, env Env, pageID int64) (RelatedSet, error) {
	var q querier = s.conn
	if tx != nil {
		q = tx
	}
	var set RelatedSet

	table, err := RelatedTable(project, env, KindInstitution)
	if err != nil {
		return set, err
	}
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, COALESCE(name, ''), COALESCE(url, ''), COALESCE(isResponsible, 0)
		FROM %s WHERE pageId = ?`, table), pageID)
	if err != nil {
		return set, fmt.Errorf("failed to load institutions for page %d: %w", pageID, err)
	}
	for rows.Next() {
		var inst Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.URL, &inst.IsResponsible); err != nil {
			rows.Close()
			return set, fmt.Errorf("failed to scan institution for page %d: %w", pageID, err)
		}
		set.Institutions = append(set.Institutions, inst)
	}
	if err := closeRows(rows); err != nil {
		return set, err
	}

	table, err = RelatedTable(project, env, KindLegalAct)
	if err != nil {
		return set, err
	}
	rows, err = q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, COALESCE(title, ''), COALESCE(url, ''), COALESCE(legalActType, ''),
		       COALESCE(globalId, 0), COALESCE(groupId, 0), COALESCE(versionStartDate, '')
		FROM %s WHERE pageId = ?`, table), pageID)
	if err != nil {
		return set, fmt.Errorf("failed to load legal acts for page %d: %w", pageID, err)
	}
	for rows.Next() {
		var act LegalAct
		if err := rows.Scan(&act.ID, &act.Title, &act.URL, &act.LegalActType,
			&act.GlobalID, &act.GroupID, &act.VersionStartDate); err != nil {
			rows.Close()
			return set, fmt.Errorf("failed to scan legal act for page %d: %w", pageID, err)
		}
		set.LegalActs = append(set.LegalActs, act)
	}
	if err := closeRows(rows); err != nil {
		return set, err
	}

	table, err = RelatedTable(project, env, KindPageContact)
	if err != nil {
		return set, err
	}
	rows, err = q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, COALESCE(contactId, 0), COALESCE(role, ''), COALESCE(firstName, ''),
		       COALESCE(lastName, ''), COALESCE(company, ''), COALESCE(email, ''),
		       COALESCE(countryCode, ''), COALESCE(nationalNumber, '')
		FROM %s WHERE pageId = ?`, table), pageID)
	if err != nil {
		return set, fmt.Errorf("failed to load contacts for page %d: %w", pageID, err)
	}
	for rows.Next() {
		var contact PageContact
		if err := rows.Scan(&contact.ID, &contact.ContactID, &contact.Role,
			&contact.FirstName, &contact.LastName, &contact.Company, &contact.Email,
			&contact.CountryCode, &contact.NationalNumber); err != nil {
			rows.Close()
			return set, fmt.Errorf("failed to scan contact for page %d: %w", pageID, err)
		}
		set.Contacts = append(set.Contacts, contact)
	}
	if err := closeRows(rows); err != nil {
		return set, err
	}

	table, err = RelatedTable(project, env, KindRelatedPages)
	if err != nil {
		return set, err
	}
	rows, err = q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, COALESCE(title, ''), COALESCE(locale, '')
		FROM %s WHERE pageId = ?`, table), pageID)
	if err != nil {
		return set, fmt.Errorf("failed to load related pages for page %d: %w", pageID, err)
	}
	for rows.Next() {
		var rel RelatedPage
		if err := rows.Scan(&rel.ID, &rel.Title, &rel.Locale); err != nil {
			rows.Close()
			return set, fmt.Errorf("failed to scan related page for page %d: %w", pageID, err)
		}
		set.RelatedPages = append(set.RelatedPages, rel)
	}
	if err := closeRows(rows); err != nil {
		return set, err
	}

	table, err = RelatedTable(project, env, KindService)
	if err != nil {
		return set, err
	}
	rows, err = q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, COALESCE(name, ''), COALESCE(url, '')
		FROM %s WHERE pageId = ?`, table), pageID)
	if err != nil {
		return set, fmt.Errorf("failed to load services for page %d: %w", pageID, err)
	}
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.URL); err != nil {
			rows.Close()
			return set, fmt.Errorf("failed to scan service for page %d: %w", pageID, err)
		}
		set.Services = append(set.Services, svc)
	}
	if err := closeRows(rows); err != nil {
		return set, err
	}

	return set, nil
}

// RelatedCount returns the number of rows of one related-entity kind owned by
// a page.
func (s *Store) RelatedCount(ctx context.Context, project string, env Env, kind RelatedKind, pageID int64) (int, error) {
	table, err := RelatedTable(project, env, kind)
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE pageId = ?", table), pageID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s rows for page %d: %w", kind, pageID, err)
	}
	return count, nil
}

func closeRows(rows *sql.Rows) error {
	defer rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}
