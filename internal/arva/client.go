// Package arva is the client surface for the ARVA content API: one GraphQL
// endpoint per environment, bearer-token authenticated, with a fixed
// per-request timeout.
package arva

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each individual request round-trip. It does not bound
// a surrounding pull or push batch.
const DefaultTimeout = 10 * time.Second

// ResponseError is one entry of a GraphQL errors array returned alongside an
// HTTP 200.
type ResponseError struct {
	Message string `json:"message"`
}

// DistinctMessages returns the distinct error messages in first-seen order.
// The same identifier frequently triggers the same message several times in
// one response; callers report each text once.
func DistinctMessages(errs []ResponseError) []string {
	seen := make(map[string]struct{}, len(errs))
	var out []string
	for _, e := range errs {
		msg := e.Message
		if msg == "" {
			msg = "Unknown error"
		}
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		out = append(out, msg)
	}
	return out
}

// envelope is the standard GraphQL response wrapper.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// Options configures a Client beyond endpoint and credential.
type Options struct {
	// Timeout bounds each request round-trip. Zero means DefaultTimeout.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification. Off unless
	// explicitly requested through configuration.
	InsecureSkipVerify bool
}

// Client issues GraphQL requests against one environment's ARVA endpoint.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
}

// New returns a client for endpoint authenticating with the given bearer
// token.
func New(endpoint, token string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}

	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// execute posts one GraphQL document and decodes the response envelope.
func (c *Client) execute(ctx context.Context, document string, variables map[string]any) (*envelope, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     document,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}

// PageGraph fetches one page's full record graph by remote id.
//
// Application-level errors (an errors array on HTTP 200) come back in the
// second return value with a nil graph; transport and decode failures come
// back as the error.
func (c *Client) PageGraph(ctx context.Context, id int64) (*PageGraph, []ResponseError, error) {
	env, err := c.execute(ctx, pageGraphQuery, map[string]any{"id": id})
	if err != nil {
		return nil, nil, err
	}
	if len(env.Errors) > 0 {
		return nil, env.Errors, nil
	}

	var data pageGraphData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to decode page %d: %w", id, err)
	}

	return &PageGraph{
		Page:         data.Pages.Single,
		Institutions: data.ArvaInstitution.Items,
		LegalActs:    data.ArvaLegalAct.Items,
		Contacts:     data.ArvaPageContact.Items,
		RelatedPages: data.ArvaRelatedPages.Items,
		Services:     data.ArvaService.Items,
	}, nil, nil
}

// CreatePage issues the create mutation for a page that has never been
// pushed. On success the result carries the remote id the page was assigned.
func (c *Client) CreatePage(ctx context.Context, input PageInput) (*MutationResult, []ResponseError, error) {
	return c.mutatePage(ctx, createPageMutation, input.variables())
}

// UpdatePage issues the update mutation addressed at an already-created
// remote page.
func (c *Client) UpdatePage(ctx context.Context, remoteID int64, input PageInput) (*MutationResult, []ResponseError, error) {
	variables := input.variables()
	variables["id"] = remoteID
	return c.mutatePage(ctx, updatePageMutation, variables)
}

func (c *Client) mutatePage(ctx context.Context, document string, variables map[string]any) (*MutationResult, []ResponseError, error) {
	env, err := c.execute(ctx, document, variables)
	if err != nil {
		return nil, nil, err
	}
	if len(env.Errors) > 0 {
		return nil, env.Errors, nil
	}

	var data pageMutationData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to decode mutation response: %w", err)
	}

	outcome := data.Pages.Create
	if outcome == nil {
		outcome = data.Pages.Update
	}
	if outcome == nil {
		return nil, nil, fmt.Errorf("mutation response carries neither create nor update result")
	}

	return &MutationResult{
		PageID:  outcome.Page.ID,
		Message: outcome.ResponseResult.Message,
	}, nil, nil
}

// SaveRelated issues the follow-up mutation carrying a page's five
// related-entity lists, tagged with the remote page id.
//
// Returns true when the remote acknowledged the call with a data object.
func (c *Client) SaveRelated(ctx context.Context, pageID int64, input RelatedInput) (bool, error) {
	variables := map[string]any{
		"pageId":            pageID,
		"institutionInput":  input.Institutions,
		"legalActInput":     input.LegalActs,
		"pageContactInput":  input.Contacts,
		"relatedPagesInput": input.RelatedPages,
		"serviceInput":      input.Services,
	}

	env, err := c.execute(ctx, saveRelatedMutation, variables)
	if err != nil {
		return false, err
	}
	return len(env.Data) > 0 && string(env.Data) != "null", nil
}
