package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v55/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/skohara/org-stats-aggregator/internal/errors"
)

// newTestGitHubClient creates a GitHubClient that talks to a mock HTTP
// server instead of api.github.com.
func newTestGitHubClient(t *testing.T, handler http.Handler) *GitHubClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	return &GitHubClient{
		client:   restClient,
		maxPages: 3,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestGitHubClient_FetchOrgStats(t *testing.T) {
	t.Run("happy path - normalizes repos and members", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[
				{"name": "alpha", "fork": false, "watchers_count": 5, "language": "Go", "topics": ["cli", "stats"]},
				{"name": "beta", "fork": true, "watchers_count": 2, "language": "Python", "topics": ["cli"]},
				{"name": "gamma", "fork": false, "watchers_count": 0, "language": null, "topics": []}
			]`)
		})
		mux.HandleFunc("/orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"login": "alice"}, {"login": "bob"}]`)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		require.NoError(t, err)
		assert.Equal(t, 3, stats.RepositoryCount)
		assert.Equal(t, 1, stats.ForkedRepoCount)
		assert.Equal(t, 2, stats.OriginalRepoCount)
		assert.Equal(t, 7, stats.WatcherCount)
		assert.Equal(t, 2, stats.UserCount)
		assert.Equal(t, []string{"go", "python"}, stats.Languages)
		assert.Equal(t, []string{"cli", "stats"}, stats.Topics)
	})

	t.Run("pagination - sums counts across pages", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[{"name": "gamma", "fork": false, "watchers_count": 1}]`)
				return
			}
			w.Header().Set("Link", `</orgs/acme/repos?page=2>; rel="next", </orgs/acme/repos?page=2>; rel="last"`)
			fmt.Fprint(w, `[
				{"name": "alpha", "fork": false, "watchers_count": 3},
				{"name": "beta", "fork": true, "watchers_count": 0}
			]`)
		})
		mux.HandleFunc("/orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		require.NoError(t, err)
		assert.Equal(t, 3, stats.RepositoryCount)
		assert.Equal(t, 1, stats.ForkedRepoCount)
		assert.Equal(t, 4, stats.WatcherCount)
	})

	t.Run("page cap - traversal stops at maxPages", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			if page == "" {
				page = "1"
			}
			// Every page advertises another one; the cap must stop the walk.
			w.Header().Set("Link", fmt.Sprintf(`</orgs/acme/repos?page=%s0>; rel="next"`, page))
			fmt.Fprint(w, `[{"name": "r", "fork": false, "watchers_count": 0}]`)
		})
		mux.HandleFunc("/orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		require.NoError(t, err)
		assert.Equal(t, 3, stats.RepositoryCount) // maxPages pages of one repo each
	})

	t.Run("upstream 503 - classified as unavailable", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"message": "Service Unavailable"}`)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		assert.Nil(t, stats)
		assert.True(t, apperrors.IsUpstreamUnavailable(err), "got %v", err)
	})

	t.Run("undecodable body - classified as malformed", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{not json`)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		assert.Nil(t, stats)
		assert.True(t, apperrors.IsMalformedResponse(err), "got %v", err)
	})

	t.Run("member listing failure surfaces", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})
		mux.HandleFunc("/orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		client := newTestGitHubClient(t, mux)
		stats, err := client.FetchOrgStats(context.Background(), "acme")

		assert.Nil(t, stats)
		assert.True(t, apperrors.IsUpstreamUnavailable(err), "got %v", err)
	})
}
