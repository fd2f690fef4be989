package domain

// SourceStats holds the normalized statistics for a single hosting platform.
// All counters are non-negative and the slices are never nil, so a record
// always serializes with every field present.
type SourceStats struct {
	RepositoryCount   int      `json:"repositoryCount"`
	UserCount         int      `json:"userCount"`
	ForkedRepoCount   int      `json:"forkedRepoCount"`
	OriginalRepoCount int      `json:"originalRepoCount"`
	WatcherCount      int      `json:"watcherCount"`
	Languages         []string `json:"languages"`
	Topics            []string `json:"topics"`
}

// CombinedStats is the aggregate of both platforms. Every field is always
// populated; an unreachable or unqueried source carries the default record.
type CombinedStats struct {
	GitHub    SourceStats `json:"github"`
	Bitbucket SourceStats `json:"bitbucket"`
}

// OrgQuery identifies the organizations to aggregate. An empty field means
// the corresponding source is not queried at all.
type OrgQuery struct {
	GitHubOrg    string
	BitbucketOrg string
}

// DefaultStats returns the canonical zero-value record used whenever a
// source supplies no data.
func DefaultStats() SourceStats {
	return SourceStats{
		Languages: []string{},
		Topics:    []string{},
	}
}

// Sanitize replaces nil slices with empty ones so the record never
// serializes a null field.
func (s *SourceStats) Sanitize() {
	if s.Languages == nil {
		s.Languages = []string{}
	}
	if s.Topics == nil {
		s.Topics = []string{}
	}
}
