package sync

import (
	"context"

	"github.com/tasa-sync/tasa/internal/arva"
	"github.com/tasa-sync/tasa/internal/report"
	"github.com/tasa-sync/tasa/internal/store"
)

// Puller mirrors remote pages into one environment of a project store.
type Puller struct {
	store  *store.Store
	client *arva.Client
	sink   report.Sink
}

// NewPuller returns a pull engine writing status lines to sink. A nil sink
// discards them.
func NewPuller(st *store.Store, client *arva.Client, sink report.Sink) *Puller {
	if sink == nil {
		sink = report.Discard
	}
	return &Puller{store: st, client: client, sink: sink}
}

// Pull fetches each identifier's record graph and upserts it into the
// environment's tables, one committed transaction per identifier.
//
// Identifiers are independent: a transport failure or an application error
// for one id is reported and the loop continues with the next. When the
// response carries application errors, each distinct message is reported once
// and nothing is written for that id. Local edits to a re-pulled record are
// overwritten; this is a one-way mirror.
func (p *Puller) Pull(ctx context.Context, project string, env store.Env, ids []int64) {
	for _, id := range ids {
		graph, appErrors, err := p.client.PageGraph(ctx, id)
		if err != nil {
			report.Errorf(p.sink, "Error fetching data for article ID %d: %v", id, err)
			continue
		}
		if len(appErrors) > 0 {
			for _, msg := range arva.DistinctMessages(appErrors) {
				report.Errorf(p.sink, "Error fetching data for article ID %d: %s", id, msg)
			}
			continue
		}

		page, related := toLocal(graph)
		if err := p.store.SavePage(ctx, project, env, page, related); err != nil {
			report.Errorf(p.sink, "Database error for article ID %d: %v", id, err)
			continue
		}

		report.Infof(p.sink, "Records for article ID %d have been saved in environment: %s", page.ArticleID, env)
	}
}

// toLocal converts a fetched record graph into store rows. Tags collapse into
// the store's semicolon-joined string; remote-assigned ids are preserved.
func toLocal(graph *arva.PageGraph) (store.Page, store.RelatedSet) {
	page := store.Page{
		ArticleID: graph.Page.ID,
		Locale:    graph.Page.Locale,
		Title:     graph.Page.Title,
		Tags:      store.JoinTags(graph.Page.TagTitles()),
		Path:      graph.Page.Path,
		Content:   graph.Page.Content,
	}

	var related store.RelatedSet
	for _, inst := range graph.Institutions {
		related.Institutions = append(related.Institutions, store.Institution{
			ID:            inst.ID,
			Name:          inst.Name,
			URL:           inst.URL,
			IsResponsible: inst.IsResponsible,
		})
	}
	for _, act := range graph.LegalActs {
		related.LegalActs = append(related.LegalActs, store.LegalAct{
			ID:               act.ID,
			Title:            act.Title,
			URL:              act.URL,
			LegalActType:     act.LegalActType,
			GlobalID:         act.GlobalID,
			GroupID:          act.GroupID,
			VersionStartDate: act.VersionStartDate,
		})
	}
	for _, contact := range graph.Contacts {
		related.Contacts = append(related.Contacts, store.PageContact{
			ID:             contact.ID,
			ContactID:      contact.ContactID,
			Role:           contact.Role,
			FirstName:      contact.FirstName,
			LastName:       contact.LastName,
			Company:        contact.Company,
			Email:          contact.Email,
			CountryCode:    contact.CountryCode,
			NationalNumber: contact.NationalNumber,
		})
	}
	for _, rel := range graph.RelatedPages {
		related.RelatedPages = append(related.RelatedPages, store.RelatedPage{
			ID:     rel.ID,
			Title:  rel.Title,
			Locale: rel.Locale,
		})
	}
	for _, svc := range graph.Services {
		related.Services = append(related.Services, store.Service{
			ID:   svc.ID,
			Name: svc.Name,
			URL:  svc.URL,
		})
	}

	return page, related
}
