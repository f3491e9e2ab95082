package main

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"github.com/nunomen/falgen/pkg/config"
	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/logger"
)

// newClient loads the configuration once and constructs the API client from
// it. A missing credential fails here, before any network activity.
func newClient() (*fal.Client, config.Config, error) {
	cfg, err := config.FromViper()
	if err != nil {
		return nil, cfg, err
	}

	opts := []fal.Option{
		fal.WithRetry(fal.RetrySettings{
			Attempts:     cfg.Retry.Attempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			BackoffType:  cfg.Retry.BackoffType,
		}),
		fal.WithPolling(
			time.Duration(cfg.Poll.IntervalSeconds)*time.Second,
			time.Duration(cfg.Poll.MaxWaitSeconds)*time.Second,
		),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, fal.WithBaseURL(cfg.BaseURL))
	}

	client, err := fal.New(cfg.APIKey, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

// openArtifact hands a saved file to the platform's default opener. Failures
// are logged, not fatal; the artifact is already on disk.
func openArtifact(ctx context.Context, path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Run(); err != nil {
		logger.G(ctx).WithError(err).WithField("path", path).Warn("failed to open artifact")
	}
}
