package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "boxd/dev/env"
)

func create(recreate bool) error {
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("the dev environment must be created inside the repository (a directory containing the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll(filepath.Join(root, "dev", ".state"))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	_, err = devenv.ResolvePath(devenv.StatePrefix)
	if err != nil {
		return err
	}

	err = SetupCredentials(root, recreate)
	if err != nil {
		return err
	}
	err = SetupTelemetry(root)
	if err != nil {
		return err
	}
	PrintConfigLocations(root)

	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
