// Package aggregator orchestrates the per-source lookups and merges their
// normalized records into one combined result.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skohara/org-stats-aggregator/internal/domain"
	apperrors "github.com/skohara/org-stats-aggregator/internal/errors"
	"github.com/skohara/org-stats-aggregator/internal/source"
)

// Aggregator combines statistics from both hosting platforms.
type Aggregator interface {
	// Aggregate resolves both sources of the query and merges them. It
	// never fails: every per-source failure mode degrades to the default
	// record for that source only.
	Aggregate(ctx context.Context, query domain.OrgQuery) *domain.CombinedStats
}

// aggregator implements the Aggregator interface
type aggregator struct {
	github    source.Client
	bitbucket source.Client
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new aggregator. timeout bounds each upstream fetch
// individually.
func New(githubClient, bitbucketClient source.Client, timeout time.Duration, logger *slog.Logger) Aggregator {
	return &aggregator{
		github:    githubClient,
		bitbucket: bitbucketClient,
		timeout:   timeout,
		logger:    logger,
	}
}

// Aggregate resolves both sources concurrently. The two lookups are fully
// independent: each goroutine absorbs its own failure and always returns
// nil to the group, so one source can never cancel or distort the other.
func (a *aggregator) Aggregate(ctx context.Context, query domain.OrgQuery) *domain.CombinedStats {
	result := &domain.CombinedStats{
		GitHub:    domain.DefaultStats(),
		Bitbucket: domain.DefaultStats(),
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		result.GitHub = a.resolve(egCtx, a.github, query.GitHubOrg)
		return nil
	})

	eg.Go(func() error {
		result.Bitbucket = a.resolve(egCtx, a.bitbucket, query.BitbucketOrg)
		return nil
	})

	_ = eg.Wait()
	return result
}

// resolve fetches one source's record, applying the fallback policy: an
// absent identifier or any fetch failure yields the default record. The
// failure itself is only visible in the log.
func (a *aggregator) resolve(ctx context.Context, client source.Client, org string) domain.SourceStats {
	if org == "" {
		return domain.DefaultStats()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	stats, err := client.FetchOrgStats(fetchCtx, org)
	if err != nil {
		a.logger.Warn("source degraded to default record",
			slog.String("source", client.Name()),
			slog.String("org", org),
			slog.String("code", string(apperrors.CodeOf(err))),
			slog.Any("err", err),
		)
		return domain.DefaultStats()
	}

	stats.Sanitize()
	return *stats
}
