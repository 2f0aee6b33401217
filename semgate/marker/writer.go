package marker

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/semver"
)

// Writer records the next logical version of a module as a marker file in the module build
// directory, where release tooling picks it up after the build.
type Writer struct {
	fs afero.Fs
}

func NewWriter(fs afero.Fs) *Writer {
	return &Writer{
		fs: fs,
	}
}

// WriteModuleOutput writes the version into dir/name (newline terminated), creating the
// directory as needed. An existing marker is left untouched unless overwrite is set.
func (w *Writer) WriteModuleOutput(dir, name string, v *semver.Version, overwrite bool) error {
	markerPath := path.Join(dir, name)

	if !overwrite && file.Exists(w.fs, markerPath) {
		log.Debugf("marker file already exists, not overwriting (%s)", markerPath)
		return nil
	}

	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create marker directory (%s): %w", dir, err)
	}

	if err := afero.WriteFile(w.fs, markerPath, []byte(v.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("unable to write marker file (%s): %w", markerPath, err)
	}

	log.Infof("wrote next version %s to %s", v, markerPath)
	return nil
}

// MergeWithParent folds the module's next version into the parent marker file, keeping
// whichever version is higher so that sibling modules aggregate into a single release
// version. The returned flag indicates an existing parent marker could not be read (the
// merge proceeds with the child version alone). A parent dir of "" disables merging.
//
// The read-modify-write is intentionally lock free: concurrently merging siblings may lose
// an update, and the last writer wins.
func (w *Writer) MergeWithParent(next *semver.Version, parentDir, name string, overwrite bool) (bool, error) {
	if parentDir == "" {
		return false, nil
	}

	merged := next
	degraded := false

	parentPath := path.Join(parentDir, name)
	if file.Exists(w.fs, parentPath) {
		parentVersion, err := w.readMarker(parentPath)
		if err != nil {
			log.Errorf("unable to read parent marker file (%s): %+v", parentPath, err)
			degraded = true
		} else if merged.LessThan(parentVersion) {
			merged = parentVersion
		}
	}

	return degraded, w.WriteModuleOutput(parentDir, name, merged, overwrite)
}

func (w *Writer) readMarker(markerPath string) (*semver.Version, error) {
	contents, err := afero.ReadFile(w.fs, markerPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read marker file (%s): %w", markerPath, err)
	}

	return semver.NewVersion(strings.TrimSpace(string(contents)))
}
