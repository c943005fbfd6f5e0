// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/post-engine/internal/store"
	"github.com/pdiddy/post-engine/pkg/types"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Compare prompt versions and levels by engagement",
	Long: `Analytics reads the post store and aggregates interaction counters.
Use subcommands to compare prompt versions, compare difficulty levels, list
recent posts, or export the store.`,
}

var analyticsPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Compare prompt versions by average engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComparison(cmd, "Prompt version", (*store.Store).ComparePromptVersions)
	},
}

var analyticsLevelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Compare difficulty levels by average engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComparison(cmd, "Level", (*store.Store).CompareLevels)
	},
}

var analyticsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent posts with interaction counters",
	RunE:  runRecent,
}

var analyticsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored posts to YAML or JSON",
	RunE:  runExport,
}

func init() {
	analyticsCmd.PersistentFlags().String("db-path", "", "SQLite database path (default posts_data.db)")
	analyticsCmd.PersistentFlags().Bool("json", false, "output as JSON")

	analyticsRecentCmd.Flags().Int("limit", 0, "maximum posts to list (0 = store default)")

	analyticsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	analyticsExportCmd.Flags().String("out", "", "output file path (default posts_export.yaml/.json)")
	analyticsExportCmd.Flags().Int("limit", 0, "maximum posts to export (0 = store default)")

	analyticsCmd.AddCommand(analyticsPromptsCmd)
	analyticsCmd.AddCommand(analyticsLevelsCmd)
	analyticsCmd.AddCommand(analyticsRecentCmd)
	analyticsCmd.AddCommand(analyticsExportCmd)

	rootCmd.AddCommand(analyticsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db-path")
	return store.New(types.StoreConfig{
		Enabled:    true,
		DBPath:     stringOr(dbPath, viper.GetString("store.db_path")),
		MaxResults: viper.GetInt("store.max_results"),
	})
}

func runComparison(cmd *cobra.Command, label string, query func(*store.Store, context.Context) ([]types.GroupStats, error)) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := query(s, context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	if len(stats) == 0 {
		fmt.Println("No posts recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %-10s  %-12s  %s\n",
		label, "Posts", "Avg likes", "Avg favs", "Avg comments")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 64))
	for _, g := range stats {
		fmt.Fprintf(os.Stdout, "%-20s  %-6d  %-10.2f  %-12.2f  %.2f\n",
			g.Key, g.TotalPosts, g.AvgLikes, g.AvgFavorites, g.AvgComments)
	}
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	posts, err := s.RecentPosts(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}

	if len(posts) == 0 {
		fmt.Println("No posts recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-16s  %-8s  %-18s  %-19s  %-5s  %-5s  %s\n",
		"ID", "Word", "Level", "Prompt", "Created", "Likes", "Favs", "Comments")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))
	for _, p := range posts {
		fmt.Fprintf(os.Stdout, "%-5d  %-16s  %-8s  %-18s  %-19s  %-5d  %-5d  %d\n",
			p.ID, p.Word, p.Level, p.PromptVersion,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.Likes, p.Favorites, p.Comments)
	}
	fmt.Fprintf(os.Stdout, "\n%d posts\n", len(posts))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	limit, _ := cmd.Flags().GetInt("limit")

	switch format {
	case "yaml", "":
		if out == "" {
			out = "posts_export.yaml"
		}
		if err := s.ExportYAML(context.Background(), out, limit); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "posts_export.json"
		}
		if err := s.ExportJSON(context.Background(), out, limit); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Println("Exported to", out)
	return nil
}
