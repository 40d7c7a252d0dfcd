package film

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	devenv "boxd/dev/env"
	"boxd/lib/configutil"
	"boxd/lib/letterboxd/core"
	"boxd/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type liveConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// liveClient connects to the real site with the credentials written by
// `go run ./dev`. It skips the test when they are missing.
func liveClient(t *testing.T) Client {
	t.Helper()
	if os.Getenv("BOXD_LIVE") == "" {
		t.Skip("set BOXD_LIVE=1 to run against letterboxd.com")
	}
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		t.Skip("not inside the workspace:", err)
	}
	config, err := configutil.ReadConfig[liveConfig](filepath.Join(root, "boxd.json5"))
	if err != nil || config.Username == "" {
		t.Skip("no credentials found, run `go run ./dev`")
	}

	ctx := context.Background()
	c, err := core.NewClient(ctx, core.ClientOptions{})
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, config.Username, config.Password))
	return NewClient(c)
}

func TestLiveSummary(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:letterboxd/film")
	defer cleanup()

	ctx, span := tracer.Start(context.Background(), "TestLiveSummary")
	defer span.End()

	client := liveClient(t)
	summary, err := client.Summary(ctx, "black-swan")
	require.NoError(t, err)
	require.Equal(t, "black-swan", summary.Info.Slug)
	require.True(t, summary.Rated)
	require.False(t, summary.Obscure)
	require.NotNil(t, summary.TrueAverage)
}
