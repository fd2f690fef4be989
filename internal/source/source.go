// Package source contains the upstream clients that translate an
// organization identifier into one normalized statistics record per
// hosting platform.
package source

import (
	"context"
	"sort"

	"github.com/skohara/org-stats-aggregator/internal/domain"
)

// Source names used in logs and error metadata.
const (
	GitHub    = "github"
	Bitbucket = "bitbucket"
)

// Client fetches normalized statistics for one hosting platform.
type Client interface {
	// Name returns the platform identifier of this client
	Name() string

	// FetchOrgStats retrieves and normalizes the statistics for an
	// organization. org must be non-empty; callers short-circuit absent
	// identifiers before reaching the client.
	FetchOrgStats(ctx context.Context, org string) (*domain.SourceStats, error)
}

// sortedKeys flattens a string set into a sorted slice for deterministic
// serialization.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
