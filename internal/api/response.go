package api

import "github.com/skohara/org-stats-aggregator/internal/domain"

// sourcePayload is the published wire shape of one normalized record.
// Field names and order are fixed by the response schema.
type sourcePayload struct {
	RepositoryCount   int      `json:"repositoryCount"`
	UserCount         int      `json:"userCount"`
	ForkedRepoCount   int      `json:"forkedRepoCount"`
	OriginalRepoCount int      `json:"originalRepoCount"`
	WatcherCount      int      `json:"watcherCount"`
	Languages         []string `json:"languages"`
	Topics            []string `json:"topics"`
}

// aggregatePayload is the published wire shape of GET /aggregate.
type aggregatePayload struct {
	GitHub    sourcePayload `json:"github"`
	Bitbucket sourcePayload `json:"bitbucket"`
}

// toAggregatePayload shapes a combined result for the wire. The same input
// always serializes identically.
func toAggregatePayload(result *domain.CombinedStats) aggregatePayload {
	return aggregatePayload{
		GitHub:    toSourcePayload(result.GitHub),
		Bitbucket: toSourcePayload(result.Bitbucket),
	}
}

// toSourcePayload shapes one record, replacing nil slices so no field ever
// serializes as null.
func toSourcePayload(stats domain.SourceStats) sourcePayload {
	stats.Sanitize()
	return sourcePayload{
		RepositoryCount:   stats.RepositoryCount,
		UserCount:         stats.UserCount,
		ForkedRepoCount:   stats.ForkedRepoCount,
		OriginalRepoCount: stats.OriginalRepoCount,
		WatcherCount:      stats.WatcherCount,
		Languages:         stats.Languages,
		Topics:            stats.Topics,
	}
}
