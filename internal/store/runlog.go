package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunStatusInitial is the status of the run-log row written at schema
// creation time. The log is append-only; rows are never updated or deleted.
const RunStatusInitial = "initial"

// LastRun returns the most recent run-log entry's timestamp, which is the
// incremental cutoff for push candidate selection.
//
// The second return value is false when the run log holds no rows. Callers
// must treat that case explicitly: no prior run means nothing has ever been
// synchronized, so no cutoff applies.
func (s *Store) LastRun(ctx context.Context) (time.Time, bool, error) {
	var stamp string
	err := s.conn.QueryRowContext(ctx, `
		SELECT last_sync_timestamp
		FROM last_run
		ORDER BY last_sync_timestamp DESC
		LIMIT 1`).Scan(&stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read run log: %w", err)
	}

	t, err := time.Parse(timeFormat, stamp)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse run-log timestamp %q: %w", stamp, err)
	}
	return t, true, nil
}
