package restyutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "boxd/dev/env"
)

const dumpExt = ".http"

// ErrDumpDirInUse is returned for a directory holding anything other than
// earlier dumps.
var ErrDumpDirInUse = errors.New("dump directory holds files that are not http dumps")

// FilesystemOutput writes each dumped message to its own file under a
// directory. Dumps of earlier runs are removed on creation.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput accepts paths prefixed with "<dev_state>". The
// directory must be missing, empty or hold only .http files.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return FilesystemOutput{}, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != dumpExt {
			return FilesystemOutput{}, fmt.Errorf("%w: %s", ErrDumpDirInUse, filepath.Join(dir, e.Name()))
		}
	}
	for _, e := range entries {
		err = os.Remove(filepath.Join(dir, e.Name()))
		if err != nil {
			return FilesystemOutput{}, err
		}
	}

	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Dir() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+dumpExt), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
