// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/post-engine/internal/pipeline"
	"github.com/pdiddy/post-engine/internal/trigger"
	"github.com/pdiddy/post-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and webhook daemon",
	Long: `Serve runs the trigger daemon: an interval scheduler that posts one
word per period, and a webhook server with POST /trigger (optional word,
level, theme JSON body) and GET /health. Runs until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("schedule", false, "enable the interval scheduler")
	serveCmd.Flags().Duration("interval", 0, "delay between scheduled runs (default 24h)")
	serveCmd.Flags().Int("port", 0, "webhook server port (default 8080)")
	serveCmd.Flags().Bool("debug", false, "enable debug logging")

	addPipelineFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	schedule, _ := cmd.Flags().GetBool("schedule")
	interval, _ := cmd.Flags().GetDuration("interval")
	port, _ := cmd.Flags().GetInt("port")
	debug, _ := cmd.Flags().GetBool("debug")

	logConfig := zap.NewProductionConfig()
	if debug {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	if interval == 0 {
		interval = viper.GetDuration("trigger.interval")
	}
	if interval == 0 {
		interval = 24 * time.Hour
	}
	if port == 0 {
		port = viper.GetInt("trigger.port")
	}
	cfg.Trigger = types.TriggerConfig{
		Enabled:  schedule || viper.GetBool("trigger.enabled"),
		Interval: interval,
		Port:     port,
	}

	pipe, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	defer pipe.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	daemon := trigger.New(cfg.Trigger, pipe, logger)
	return daemon.Serve(ctx)
}
