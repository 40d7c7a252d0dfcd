package commands

import (
	"fmt"
	"log/slog"

	"boxd/lib/letterboxd/core"
	"boxd/lib/restyutil"

	"github.com/spf13/cobra"
)

// session connects to the site and logs in when credentials are
// configured. With requireLogin the credentials must be present.
func session(cmd *cobra.Command, requireLogin bool) (*core.Client, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	opts := core.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CloudflareBypass:  cfg.CloudflareBypass,
	}
	if httpDump != "" {
		output, err := restyutil.NewFilesystemOutput(httpDump)
		if err != nil {
			return nil, fmt.Errorf("http dump: %w", err)
		}
		slog.Info("dumping http messages", "dir", output.Dir())
		opts.HttpOutput = output
	}

	client, err := core.NewClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.BaseUrl, err)
	}

	if cfg.Username == "" || cfg.Password == "" {
		if requireLogin {
			return nil, fmt.Errorf("%w: set username and password in %s", core.ErrNotLoggedIn, configPath)
		}
		return client, nil
	}

	err = client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, err
	}
	slog.Debug("logged in", "username", cfg.Username)
	return client, nil
}
