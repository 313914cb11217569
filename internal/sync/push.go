package sync

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/tasa-sync/tasa/internal/arva"
	"github.com/tasa-sync/tasa/internal/report"
	"github.com/tasa-sync/tasa/internal/store"
)

// Pusher replicates pending local rows of one environment to the remote API.
type Pusher struct {
	store  *store.Store
	client *arva.Client
	sink   report.Sink
}

// NewPusher returns a push engine writing status lines to sink. A nil sink
// discards them.
func NewPusher(st *store.Store, client *arva.Client, sink report.Sink) *Pusher {
	if sink == nil {
		sink = report.Discard
	}
	return &Pusher{store: st, client: client, sink: sink}
}

// Push scans the environment for rows needing synchronization and replicates
// each to the remote API.
//
// A row is a candidate when its modified_timestamp is NULL (never
// synchronized) or newer than the most recent run-log entry. When the run log
// is empty no cutoff applies and every row is a candidate.
//
// Per row: an unset exp_article_id means a create mutation, a set one an
// update mutation addressed by it. On success the row is re-addressed by
// (path, locale), its exp_article_id and status are recorded, and its
// related rows are sent in one follow-up call. Any failure on one row is
// reported and the scan continues; the local status updates for the whole
// batch commit once at the very end.
func (p *Pusher) Push(ctx context.Context, project string, env store.Env) {
	var cutoff *time.Time
	last, ok, err := p.store.LastRun(ctx)
	if err != nil {
		report.Errorf(p.sink, "Error reading last run information: %v", err)
		return
	}
	if ok {
		cutoff = &last
	}

	candidates, err := p.store.PushCandidates(ctx, project, env, cutoff)
	if err != nil {
		report.Errorf(p.sink, "Error fetching records: %v", err)
		return
	}
	if len(candidates) == 0 {
		report.Infof(p.sink, "No records to process.")
		return
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		report.Errorf(p.sink, "Error processing records: %v", err)
		return
	}
	defer tx.Rollback()

	for _, candidate := range candidates {
		p.pushOne(ctx, tx, project, env, candidate)
	}

	if err := tx.Commit(); err != nil {
		report.Errorf(p.sink, "Error saving record statuses: %v", err)
		return
	}
	report.Infof(p.sink, "All records processed.")
}

// pushOne replicates a single candidate row. Failures are reported with
// enough context to identify the row and never propagate.
func (p *Pusher) pushOne(ctx context.Context, tx *sql.Tx, project string, env store.Env, candidate store.Candidate) {
	input := arva.PageInput{
		Content:     candidate.Content,
		Description: "",
		Editor:      "code",
		IsPrivate:   false,
		IsPublished: true,
		Locale:      candidate.Locale,
		Path:        candidate.Path,
		Tags:        store.SplitTags(candidate.Tags),
		Title:       candidate.Title,
	}

	var (
		result    *arva.MutationResult
		appErrors []arva.ResponseError
		err       error
	)
	if candidate.ExpArticleID.Valid {
		result, appErrors, err = p.client.UpdatePage(ctx, candidate.ExpArticleID.Int64, input)
	} else {
		result, appErrors, err = p.client.CreatePage(ctx, input)
	}
	if err != nil {
		report.Errorf(p.sink, "Error while processing record %s: %v", describeRow(candidate), err)
		return
	}
	if len(appErrors) > 0 {
		report.Errorf(p.sink, "Failed to process record %s: %s", describeRow(candidate), appErrors[0].Message)
		return
	}

	report.Infof(p.sink, "Record %d: %s", result.PageID, result.Message)

	if err := p.store.MarkSynced(ctx, tx, project, env, result.PageID, candidate.Path, candidate.Locale); err != nil {
		report.Errorf(p.sink, "Error while processing record %s: %v", describeRow(candidate), err)
		return
	}

	related, err := p.store.RelatedForPage(ctx, tx, project, env, candidate.ArticleID)
	if err != nil {
		report.Errorf(p.sink, "Error while processing record %s: %v", describeRow(candidate), err)
		return
	}

	acknowledged, err := p.client.SaveRelated(ctx, result.PageID, toRelatedInput(related))
	if err != nil {
		report.Errorf(p.sink, "Error during follow-up mutation for pageId %d: %v", result.PageID, err)
		return
	}
	if !acknowledged {
		report.Errorf(p.sink, "Failed to process related records for pageId: %d", result.PageID)
		return
	}
	report.Infof(p.sink, "Successfully processed related records for pageId: %d", result.PageID)
}

// describeRow names a candidate by the id that addresses it remotely.
func describeRow(candidate store.Candidate) string {
	if candidate.ExpArticleID.Valid {
		return "exp_article_id " + formatID(candidate.ExpArticleID.Int64)
	}
	return "article_id " + formatID(candidate.ArticleID)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// toRelatedInput shapes locally stored related rows into the follow-up
// mutation's input lists. Contacts travel under their contact registry id;
// legal acts travel without an id.
func toRelatedInput(related store.RelatedSet) arva.RelatedInput {
	input := arva.RelatedInput{
		Institutions: make([]arva.InstitutionInput, 0, len(related.Institutions)),
		LegalActs:    make([]arva.LegalActInput, 0, len(related.LegalActs)),
		Contacts:     make([]arva.PageContactInput, 0, len(related.Contacts)),
		RelatedPages: make([]arva.RelatedPageInput, 0, len(related.RelatedPages)),
		Services:     make([]arva.ServiceInput, 0, len(related.Services)),
	}

	for _, inst := range related.Institutions {
		input.Institutions = append(input.Institutions, arva.InstitutionInput{
			ID:            inst.ID,
			Name:          inst.Name,
			URL:           inst.URL,
			IsResponsible: inst.IsResponsible,
		})
	}
	for _, act := range related.LegalActs {
		input.LegalActs = append(input.LegalActs, arva.LegalActInput{
			Title:            act.Title,
			URL:              act.URL,
			LegalActType:     act.LegalActType,
			GlobalID:         act.GlobalID,
			GroupID:          act.GroupID,
			VersionStartDate: act.VersionStartDate,
		})
	}
	for _, contact := range related.Contacts {
		input.Contacts = append(input.Contacts, arva.PageContactInput{
			ID:             contact.ContactID,
			Role:           contact.Role,
			FirstName:      contact.FirstName,
			LastName:       contact.LastName,
			Company:        contact.Company,
			Email:          contact.Email,
			CountryCode:    contact.CountryCode,
			NationalNumber: contact.NationalNumber,
		})
	}
	for _, rel := range related.RelatedPages {
		input.RelatedPages = append(input.RelatedPages, arva.RelatedPageInput{
			ID:     rel.ID,
			Title:  rel.Title,
			Locale: rel.Locale,
		})
	}
	for _, svc := range related.Services {
		input.Services = append(input.Services, arva.ServiceInput{
			ID:   svc.ID,
			Name: svc.Name,
			URL:  svc.URL,
		})
	}

	return input
}
