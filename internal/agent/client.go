package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// DefaultAPIURL is the server the agent talks to when none is configured.
const DefaultAPIURL = "http://localhost:3000"

// Snapshot is a preference pull from the server.
type Snapshot struct {
	LastSyncAt time.Time `json:"lastSyncAt"`
	UserID     string    `json:"userId"`
	model.FocusPreferences
}

// APIClient calls the LockIn server.
type APIClient struct {
	http    *http.Client
	baseURL string
}

// NewAPIClient creates a client for baseURL. A nil httpClient uses a client
// with a 30 second timeout.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchPreferences pulls the preference snapshot bound to syncToken.
func (c *APIClient) FetchPreferences(ctx context.Context, syncToken string) (*Snapshot, error) {
	endpoint := c.baseURL + "/api/sync?token=" + url.QueryEscape(syncToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var snapshot Snapshot
	if err := c.do(c.http, req, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to sync preferences: %w", err)
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// ClassifyContent asks the server to classify item on behalf of syncToken.
func (c *APIClient) ClassifyContent(ctx context.Context, item model.ContentItem, syncToken string) (*model.ClassifyOutcome, error) {
	body := struct {
		SyncToken string `json:"syncToken"`
		model.ContentItem
	}{SyncToken: syncToken, ContentItem: item}

	req, err := c.newJSONRequest(ctx, "/api/classify-public", body)
	if err != nil {
		return nil, err
	}

	var outcome model.ClassifyOutcome
	if err := c.do(c.http, req, &outcome); err != nil {
		return nil, fmt.Errorf("failed to classify content: %w", err)
	}
	return &outcome, nil
}

// LogActivity appends an activity row using the dashboard session token.
func (c *APIClient) LogActivity(ctx context.Context, sessionToken string, in analytics.ActivityInput) error {
	req, err := c.newJSONRequest(ctx, "/api/analytics", in)
	if err != nil {
		return err
	}

	// The oauth2 transport adds the bearer header on top of our own client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: sessionToken,
		TokenType:   "Bearer",
	}))

	if err := c.do(client, req, nil); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

func (c *APIClient) newJSONRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and decodes a 200 response into out. Error bodies of the form
// {"error": "..."} are surfaced; 401 wraps common.ErrUnauthenticated.
func (c *APIClient) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", common.ErrUnauthenticated, message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
