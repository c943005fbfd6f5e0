// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/post-engine/internal/words"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List word-list levels and pool sizes",
	RunE:  runWords,
}

func init() {
	wordsCmd.Flags().String("word-list-dir", "data", "directory with level word-list files")

	rootCmd.AddCommand(wordsCmd)
}

func runWords(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("word-list-dir")

	for _, level := range words.Levels() {
		pool, err := words.Pool(dir, level)
		if err != nil {
			fmt.Fprintf(os.Stdout, "%-8s  (unavailable: %v)\n", level, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-8s  %d words\n", level, len(pool))
	}
	return nil
}
