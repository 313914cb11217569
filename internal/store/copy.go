package store

import (
	"context"
	"fmt"
	"strings"
)

// CopyEnvironment bulk-copies one environment's rows to another within the
// same project store.
//
// Only the synchronizable columns of the main table travel: article_id,
// locale, title, tags, path and content. exp_article_id, status and
// modified_timestamp stay behind, so every copied record arrives in the
// target environment as a fresh, never-pushed row. Related rows are copied
// per table preserving id and pageId, with the remaining columns discovered
// from the target table's schema rather than hardcoded.
//
// Rows are appended, not upserted; copying into a non-empty target duplicates
// data. The first failing statement aborts the remaining steps.
func (s *Store) CopyEnvironment(ctx context.Context, project string, source, target Env) error {
	sourceMain, err := MainTable(project, source)
	if err != nil {
		return err
	}
	targetMain, err := MainTable(project, target)
	if err != nil {
		return err
	}

	if _, err := s.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (article_id, locale, title, tags, path, content)
		SELECT article_id, locale, title, tags, path, content
		FROM %s`, targetMain, sourceMain)); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", sourceMain, targetMain, err)
	}

	for _, kind := range RelatedKinds {
		if err := s.copyRelatedTable(ctx, project, source, target, kind); err != nil {
			return err
		}
	}
	return nil
}

// copyRelatedTable copies one related-entity table between environments.
func (s *Store) copyRelatedTable(ctx context.Context, project string, source, target Env, kind RelatedKind) error {
	sourceTable, err := RelatedTable(project, source, kind)
	if err != nil {
		return err
	}
	targetTable, err := RelatedTable(project, target, kind)
	if err != nil {
		return err
	}

	columns, err := s.tableColumns(ctx, targetTable)
	if err != nil {
		return err
	}

	var extra []string
	for _, col := range columns {
		if col == "id" || col == "pageId" {
			continue
		}
		extra = append(extra, col)
	}
	names := strings.Join(append([]string{"id", "pageId"}, extra...), ", ")

	if _, err := s.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s)
		SELECT %s
		FROM %s`, targetTable, names, names, sourceTable)); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", sourceTable, targetTable, err)
	}
	return nil
}

// tableColumns returns a table's column names in schema order.
func (s *Store) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info for %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table info for %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return columns, nil
}
