package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/skohara/org-stats-aggregator/internal/config"
	"github.com/skohara/org-stats-aggregator/internal/domain"
	apperrors "github.com/skohara/org-stats-aggregator/internal/errors"
)

const githubPerPage = 100

// GitHubClient collects organization statistics from the GitHub REST API.
type GitHubClient struct {
	client   *github.Client
	maxPages int
	logger   *slog.Logger
}

// NewGitHubClient creates a GitHub source client. An empty token means
// unauthenticated access, subject to GitHub's anonymous rate limits.
func NewGitHubClient(cfg *config.Config, logger *slog.Logger) (*GitHubClient, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if cfg.GitHubToken != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken}),
		}
	}

	client := github.NewClient(&http.Client{Transport: transport})
	if cfg.GitHubBaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.GitHubBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		client.BaseURL = baseURL
	}

	return &GitHubClient{
		client:   client,
		maxPages: cfg.MaxPages,
		logger:   logger,
	}, nil
}

// Name returns the platform identifier of this client
func (c *GitHubClient) Name() string {
	return GitHub
}

// FetchOrgStats retrieves repository and membership statistics for a GitHub
// organization and normalizes them into the common schema.
func (c *GitHubClient) FetchOrgStats(ctx context.Context, org string) (*domain.SourceStats, error) {
	stats := domain.DefaultStats()
	languages := make(map[string]struct{})
	topics := make(map[string]struct{})

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	pages := 0
	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, c.classifyError(err)
		}

		for _, repo := range repos {
			stats.RepositoryCount++
			if repo.GetFork() {
				stats.ForkedRepoCount++
			} else {
				stats.OriginalRepoCount++
			}
			stats.WatcherCount += repo.GetWatchersCount()
			if lang := repo.GetLanguage(); lang != "" {
				languages[strings.ToLower(lang)] = struct{}{}
			}
			for _, topic := range repo.Topics {
				topics[topic] = struct{}{}
			}
		}

		pages++
		if resp.NextPage == 0 {
			break
		}
		if pages >= c.maxPages {
			c.logger.Warn("repository listing truncated at page cap",
				slog.String("source", GitHub),
				slog.String("org", org),
				slog.Int("pages", pages),
			)
			break
		}
		opts.Page = resp.NextPage
	}

	members, err := c.countMembers(ctx, org)
	if err != nil {
		return nil, err
	}
	stats.UserCount = members

	stats.Languages = sortedKeys(languages)
	stats.Topics = sortedKeys(topics)
	return &stats, nil
}

// countMembers counts the public members of an organization across pages.
func (c *GitHubClient) countMembers(ctx context.Context, org string) (int, error) {
	count := 0
	opts := &github.ListMembersOptions{
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	pages := 0
	for {
		members, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return 0, c.classifyError(err)
		}
		count += len(members)

		pages++
		if resp.NextPage == 0 {
			break
		}
		if pages >= c.maxPages {
			c.logger.Warn("member listing truncated at page cap",
				slog.String("source", GitHub),
				slog.String("org", org),
				slog.Int("pages", pages),
			)
			break
		}
		opts.Page = resp.NextPage
	}
	return count, nil
}

// classifyError maps go-github errors onto the upstream failure taxonomy.
func (c *GitHubClient) classifyError(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		return apperrors.NewRateLimitedError(GitHub, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.NewMalformedResponseError(GitHub, err)
	}

	return apperrors.NewUpstreamUnavailableError(GitHub, err)
}
