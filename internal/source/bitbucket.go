package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skohara/org-stats-aggregator/internal/config"
	"github.com/skohara/org-stats-aggregator/internal/domain"
	apperrors "github.com/skohara/org-stats-aggregator/internal/errors"
)

const (
	bitbucketPageLen  = 100
	bitbucketMinDelay = 100 * time.Millisecond
)

// BitbucketClient collects workspace statistics from the Bitbucket 2.0 REST
// API. There is no maintained Go SDK for Bitbucket Cloud, so the client
// speaks HTTP directly.
type BitbucketClient struct {
	baseURL     string
	username    string
	appPassword string
	httpClient  *http.Client
	maxPages    int
	pacer       *pacer
	logger      *slog.Logger
}

// bitbucketRepo is the subset of the repository payload the normalizer
// needs. Parent is set only on forks.
type bitbucketRepo struct {
	Slug     string `json:"slug"`
	Language string `json:"language"`
	Parent   *struct {
		FullName string `json:"full_name"`
	} `json:"parent"`
}

// repoPage is one page of /repositories/{workspace}.
type repoPage struct {
	Values []bitbucketRepo `json:"values"`
	Next   string          `json:"next"`
}

// countPage is one page of any listing where only the number of values
// matters.
type countPage struct {
	Values []json.RawMessage `json:"values"`
	Next   string            `json:"next"`
}

// NewBitbucketClient creates a Bitbucket source client. Empty credentials
// mean unauthenticated access.
func NewBitbucketClient(cfg *config.Config, logger *slog.Logger) *BitbucketClient {
	return &BitbucketClient{
		baseURL:     strings.TrimSuffix(cfg.BitbucketBaseURL, "/"),
		username:    cfg.BitbucketUsername,
		appPassword: cfg.BitbucketAppPassword,
		httpClient:  &http.Client{},
		maxPages:    cfg.MaxPages,
		pacer:       newPacer(bitbucketMinDelay),
		logger:      logger,
	}
}

// Name returns the platform identifier of this client
func (c *BitbucketClient) Name() string {
	return Bitbucket
}

// FetchOrgStats retrieves repository and membership statistics for a
// Bitbucket workspace and normalizes them into the common schema. Topics
// stay empty: Bitbucket has no equivalent concept.
func (c *BitbucketClient) FetchOrgStats(ctx context.Context, org string) (*domain.SourceStats, error) {
	stats := domain.DefaultStats()
	languages := make(map[string]struct{})

	repos, err := c.listRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	for _, repo := range repos {
		stats.RepositoryCount++
		if repo.Parent != nil {
			stats.ForkedRepoCount++
		} else {
			stats.OriginalRepoCount++
		}
		if repo.Language != "" {
			languages[strings.ToLower(repo.Language)] = struct{}{}
		}
	}

	for _, repo := range repos {
		watchers, err := c.countValues(ctx, org, fmt.Sprintf("%s/repositories/%s/%s/watchers?pagelen=%d",
			c.baseURL, url.PathEscape(org), url.PathEscape(repo.Slug), bitbucketPageLen))
		if err != nil {
			return nil, err
		}
		stats.WatcherCount += watchers
	}

	members, err := c.countValues(ctx, org, fmt.Sprintf("%s/workspaces/%s/members?pagelen=%d",
		c.baseURL, url.PathEscape(org), bitbucketPageLen))
	if err != nil {
		return nil, err
	}
	stats.UserCount = members

	stats.Languages = sortedKeys(languages)
	return &stats, nil
}

// listRepositories walks the repository listing of a workspace via the
// next links, up to the page cap.
func (c *BitbucketClient) listRepositories(ctx context.Context, org string) ([]bitbucketRepo, error) {
	var repos []bitbucketRepo
	link := fmt.Sprintf("%s/repositories/%s?pagelen=%d", c.baseURL, url.PathEscape(org), bitbucketPageLen)
	pages := 0
	for link != "" {
		var page repoPage
		if err := c.getJSON(ctx, link, &page); err != nil {
			return nil, err
		}
		repos = append(repos, page.Values...)

		pages++
		if page.Next != "" && pages >= c.maxPages {
			c.logger.Warn("repository listing truncated at page cap",
				slog.String("source", Bitbucket),
				slog.String("org", org),
				slog.Int("pages", pages),
			)
			break
		}
		link = page.Next
	}
	return repos, nil
}

// countValues counts the values of a paginated listing, up to the page cap.
func (c *BitbucketClient) countValues(ctx context.Context, org, link string) (int, error) {
	count := 0
	pages := 0
	for link != "" {
		var page countPage
		if err := c.getJSON(ctx, link, &page); err != nil {
			return 0, err
		}
		count += len(page.Values)

		pages++
		if page.Next != "" && pages >= c.maxPages {
			c.logger.Warn("listing truncated at page cap",
				slog.String("source", Bitbucket),
				slog.String("org", org),
				slog.Int("pages", pages),
			)
			break
		}
		link = page.Next
	}
	return count, nil
}

// getJSON performs one paced GET request and decodes the body, mapping
// every failure mode onto the upstream failure taxonomy.
func (c *BitbucketClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return apperrors.NewUpstreamUnavailableError(Bitbucket, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperrors.NewUpstreamUnavailableError(Bitbucket, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamUnavailableError(Bitbucket, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitedError(Bitbucket, fmt.Errorf("GET %s: %s", rawURL, resp.Status))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewUpstreamUnavailableError(Bitbucket, fmt.Errorf("GET %s: %s: %s", rawURL, resp.Status, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewMalformedResponseError(Bitbucket, err)
	}
	return nil
}
