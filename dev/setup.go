package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "boxd/dev/env"
	"boxd/lib/configutil"
	"boxd/lib/telemetry"

	"github.com/tcnksm/go-input"
)

const configFile = "boxd.json5"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetupCredentials asks for letterboxd credentials and writes them to the
// local config layer, which is not checked in.
func SetupCredentials(root string, recreate bool) error {
	path := filepath.Join(root, configutil.LocalPath(configFile))
	_, err := os.Stat(path)
	if err == nil && !recreate {
		slog.Info("letterboxd credentials have already been provided", "path", path)
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	ui := input.DefaultUI()
	username, err := ui.Ask("letterboxd username:", &input.Options{
		Required: true,
		Loop:     true,
	})
	if err != nil {
		return err
	}
	password, err := ui.Ask("letterboxd password:", &input.Options{
		Required: true,
		Loop:     true,
		Mask:     true,
	})
	if err != nil {
		return err
	}

	contents, err := json.MarshalIndent(credentials{
		Username: username,
		Password: password,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0600)
}

// SetupTelemetry writes a telemetry config pointing at a local collector,
// leaving an existing one alone.
func SetupTelemetry(root string) error {
	path := filepath.Join(root, telemetry.ConfigFile)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	config := telemetry.Config{
		Otlp: telemetry.OtlpConfig{
			Traces:  telemetry.OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/traces"},
			Metrics: telemetry.OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/metrics"},
		},
	}
	contents, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

func PrintConfigLocations(root string) {
	statedir, err := filepath.Abs(filepath.Join(root, "dev", ".state"))
	if err != nil {
		statedir = "dev/.state"
	}
	fmt.Println("config locations:")
	fmt.Printf("\tcredentials: %s\n", filepath.Join(root, configutil.LocalPath(configFile)))
	fmt.Printf("\ttelemetry:   %s\n", filepath.Join(root, telemetry.ConfigFile))
	fmt.Printf("\thttp dumps:  boxd-cli --http-dump %s/<dir> (%s)\n", devenv.StatePrefix, statedir)
}
