package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/skohara/org-stats-aggregator/internal/config"
	"github.com/skohara/org-stats-aggregator/pkg/client"
)

var (
	githubOrg    string
	bitbucketOrg string
	outputJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "org-stats",
	Short: "Combined source-control organization statistics",
	Long: `A CLI for the org-stats-aggregator API.

Fetches repository and membership statistics for an organization from
GitHub and Bitbucket and prints one combined summary.`,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate statistics for one or both platforms",
	Long:  `Query the aggregation service and display the combined statistics. Platforms without an identifier are reported as zeroed records.`,
	RunE:  runAggregate,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the aggregation service is reachable",
	RunE:  runHealth,
}

func init() {
	aggregateCmd.Flags().StringVar(&githubOrg, "github", "", "GitHub organization name")
	aggregateCmd.Flags().StringVar(&bitbucketOrg, "bitbucket", "", "Bitbucket workspace name")
	aggregateCmd.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c := client.NewClient(cfg.APIEndpoint)
	result, err := c.GetAggregate(githubOrg, bitbucketOrg)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}

	if outputJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "GitHub", "Bitbucket"})
	appendRow(table, "Repositories", result.GitHub.RepositoryCount, result.Bitbucket.RepositoryCount)
	appendRow(table, "Original Repos", result.GitHub.OriginalRepoCount, result.Bitbucket.OriginalRepoCount)
	appendRow(table, "Forked Repos", result.GitHub.ForkedRepoCount, result.Bitbucket.ForkedRepoCount)
	appendRow(table, "Watchers", result.GitHub.WatcherCount, result.Bitbucket.WatcherCount)
	appendRow(table, "Members", result.GitHub.UserCount, result.Bitbucket.UserCount)
	table.Append([]string{"Languages", joinOrDash(result.GitHub.Languages), joinOrDash(result.Bitbucket.Languages)})
	table.Append([]string{"Topics", joinOrDash(result.GitHub.Topics), joinOrDash(result.Bitbucket.Topics)})
	table.Render()

	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c := client.NewClient(cfg.APIEndpoint)
	if err := c.HealthCheck(); err != nil {
		return fmt.Errorf("service unhealthy: %w", err)
	}

	fmt.Println("All Good!")
	return nil
}

func appendRow(table *tablewriter.Table, metric string, github, bitbucket int) {
	table.Append([]string{metric, strconv.Itoa(github), strconv.Itoa(bitbucket)})
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
