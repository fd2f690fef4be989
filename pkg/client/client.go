// Package client provides a Go client for the org-stats-aggregator API.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skohara/org-stats-aggregator/internal/domain"
)

// Client is the API client for org-stats-aggregator
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetAggregate retrieves the combined statistics for the given
// organizations. Either identifier may be empty.
func (c *Client) GetAggregate(githubOrg, bitbucketOrg string) (*domain.CombinedStats, error) {
	params := url.Values{}
	if githubOrg != "" {
		params.Set("github", githubOrg)
	}
	if bitbucketOrg != "" {
		params.Set("bitbucket", bitbucketOrg)
	}

	var result domain.CombinedStats
	if err := c.get("/aggregate", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health-check", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
