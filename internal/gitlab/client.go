// Package gitlab posts analysis reports as merge request notes, updating
// the previous note in place on repeated runs.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// noteMarkerFormat is the hidden HTML comment used to find a previously
// posted note so reruns update it instead of stacking duplicates.
const noteMarkerFormat = "<!-- terraform-plan-analyzer-%d -->"

// Client talks to the GitLab REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a GitLab client, reading the token from the
// GITLAB_TOKEN environment variable. baseURL defaults to gitlab.com when
// empty; self-hosted instances pass their own.
func NewClient(baseURL string) (*Client, error) {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITLAB_TOKEN environment variable is not set")
	}
	if baseURL == "" {
		baseURL = "https://gitlab.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type note struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

// UpsertMRNote posts body as a note on the merge request, or updates the
// existing note carrying this tool's hidden marker if one is found.
func (c *Client) UpsertMRNote(ctx context.Context, projectID string, mrIID int, body string) error {
	marker := fmt.Sprintf(noteMarkerFormat, mrIID)
	full := marker + "\n\n" + body

	existing, err := c.findMarkedNote(ctx, projectID, mrIID, marker)
	if err != nil {
		return err
	}

	notesURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/notes",
		c.baseURL, url.PathEscape(projectID), mrIID)
	if existing != nil {
		return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/%d", notesURL, existing.ID), full)
	}
	return c.send(ctx, http.MethodPost, notesURL, full)
}

func (c *Client) findMarkedNote(ctx context.Context, projectID string, mrIID int, marker string) (*note, error) {
	listURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/notes?per_page=100",
		c.baseURL, url.PathEscape(projectID), mrIID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list merge request notes: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitLab API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var notes []note
	if err := json.Unmarshal(respBody, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes response: %v", err)
	}
	for i := range notes {
		if strings.Contains(notes[i].Body, marker) {
			return &notes[i], nil
		}
	}
	return nil, nil
}

func (c *Client) send(ctx context.Context, method, target, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("failed to marshal note body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post merge request note: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitLab API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
