// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/post-engine/internal/store"
)

var interactionsCmd = &cobra.Command{
	Use:   "interactions <post-id>",
	Short: "Record engagement numbers for a stored post",
	Long: `Interactions updates the likes, favorites, comments, and views counters
for one stored post. Counters are read manually from the platform; only the
flags you pass are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runInteractions,
}

func init() {
	interactionsCmd.Flags().Int("likes", -1, "like count")
	interactionsCmd.Flags().Int("favorites", -1, "favorite count")
	interactionsCmd.Flags().Int("comments", -1, "comment count")
	interactionsCmd.Flags().Int("views", -1, "view count")
	interactionsCmd.Flags().String("db-path", "", "SQLite database path (default posts_data.db)")

	rootCmd.AddCommand(interactionsCmd)
}

func runInteractions(cmd *cobra.Command, args []string) error {
	postID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", args[0], err)
	}

	update := store.InteractionUpdate{}
	if v, _ := cmd.Flags().GetInt("likes"); v >= 0 {
		update.Likes = &v
	}
	if v, _ := cmd.Flags().GetInt("favorites"); v >= 0 {
		update.Favorites = &v
	}
	if v, _ := cmd.Flags().GetInt("comments"); v >= 0 {
		update.Comments = &v
	}
	if v, _ := cmd.Flags().GetInt("views"); v >= 0 {
		update.Views = &v
	}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --likes, --favorites, --comments, or --views")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := s.UpdateInteractions(context.Background(), postID, update)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("post %d not found", postID)
	}
	fmt.Printf("Updated interactions for post %d\n", postID)
	return nil
}
