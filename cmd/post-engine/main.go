// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the post-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/post-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the stored
// secret for key.
func secretDefault(key, fallback string) string {
	return secrets.Fallback(fallback, loadedSecrets, key)
}

// rootCmd is the base command for the post-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "post-engine",
	Short: "Generate and publish word-learning posts",
	Long: `post-engine generates Chinese social-media posts that teach one English
word each: an LLM produces structured copy, the engine parses and renders it,
draws a cover card, publishes (or saves locally), and records the post for
dedup and engagement analytics.

Each operation is a subcommand: post runs the full pipeline once, serve runs
the scheduler and webhook daemon, analytics compares prompt versions and
levels, and interactions records engagement numbers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./post-engine.yaml or ~/.config/post-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("post-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "post-engine"))
		}
	}

	viper.SetEnvPrefix("POST_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
