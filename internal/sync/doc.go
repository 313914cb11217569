// Package sync implements the two replication pipelines between a project
// store and the ARVA content API.
//
// Pull mirrors remote pages into one environment's tables, replacing a page's
// related rows wholesale on every pass. Push scans an environment for new or
// changed rows, creates or updates each remote page and sends its related
// rows as a follow-up call. The pipelines are independent, synchronous and
// single-threaded; per-record failures are reported to the operation's sink
// and never abort the rest of the batch.
package sync
