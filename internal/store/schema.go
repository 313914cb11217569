package store

import (
	"context"
	"fmt"
)

// relatedColumns holds the entity-specific column definitions for each
// related-entity table. The id/pageId pair and the cascading foreign key are
// shared by all five and added by CreateSchema.
var relatedColumns = map[RelatedKind]string{
	KindInstitution: `
		name TEXT,
		url TEXT,
		isResponsible BOOLEAN`,
	KindLegalAct: `
		title TEXT,
		url TEXT,
		legalActType TEXT,
		globalId REAL,
		groupId INTEGER,
		versionStartDate TEXT`,
	KindPageContact: `
		contactId INTEGER,
		role TEXT,
		firstName TEXT,
		lastName TEXT,
		company TEXT,
		email TEXT,
		countryCode TEXT,
		nationalNumber TEXT`,
	KindRelatedPages: `
		title TEXT,
		locale TEXT`,
	KindService: `
		name TEXT,
		url TEXT`,
}

// CreateSchema creates the full project layout: the last_run log, the
// {project}_initial staging table and, per environment, a main table, its
// modified-timestamp trigger and the five related-entity tables. One initial
// run-log row is inserted so the push engine always has a cutoff origin.
//
// Every statement uses create-if-absent semantics, so calling CreateSchema
// against an existing project is safe. All statements run inside a single
// transaction; on any failure nothing is applied.
func (s *Store) CreateSchema(ctx context.Context, project string) error {
	if err := ValidateProject(project); err != nil {
		return err
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS last_run (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_sync_timestamp TEXT,
			status TEXT
		)`); err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO last_run (last_sync_timestamp, status)
		VALUES (datetime('now'), 'initial')`); err != nil {
		return fmt.Errorf("failed to insert initial run-log row: %w", err)
	}

	staging, err := StagingTable(project)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			locale TEXT,
			title TEXT,
			tags TEXT,
			path TEXT,
			content TEXT
		)`, staging)); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}

	for _, env := range Envs {
		if err := createEnvTables(ctx, tx, project, env); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// createEnvTables creates one environment's main table, update trigger and
// related-entity tables.
func createEnvTables(ctx context.Context, tx querier, project string, env Env) error {
	main, err := MainTable(project, env)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			exp_article_id INTEGER,
			article_id INTEGER PRIMARY KEY,
			locale TEXT,
			title TEXT,
			tags TEXT,
			path TEXT,
			content TEXT,
			status TEXT,
			modified_timestamp TEXT
		)`, main)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", main, err)
	}

	// modified_timestamp is only ever written by this trigger. That is what
	// makes it usable as the incremental-sync signal.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TRIGGER IF NOT EXISTS %s
		AFTER UPDATE ON %s
		BEGIN
			UPDATE %s
			SET modified_timestamp = datetime('now')
			WHERE article_id = NEW.article_id;
		END`, triggerName(main), main, main)); err != nil {
		return fmt.Errorf("failed to create trigger on %s: %w", main, err)
	}

	for _, kind := range RelatedKinds {
		related, err := RelatedTable(project, env, kind)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER,
				pageId INTEGER,%s,
				FOREIGN KEY(pageId) REFERENCES %s(article_id) ON DELETE CASCADE
			)`, related, relatedColumns[kind], main)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", related, err)
		}
	}

	return nil
}
