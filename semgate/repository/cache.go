package repository

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/spf13/afero"
	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/event"
)

// Cache keeps previously fetched artifacts on disk so repeated gate runs against the same
// baseline do not re-download. Each entry lives in its own directory (keyed off the
// coordinate) holding the artifact file plus a metadata.json describing it.
type Cache struct {
	fs   afero.Fs
	repo Repository
	dir  string
}

type Status struct {
	Location string `json:"location"`
	Entries  int    `json:"entries"`
	Size     int64  `json:"size"`
	Err      error  `json:"error,omitempty"`
}

func NewCache(repo Repository, dir string) *Cache {
	return &Cache{
		fs:   afero.NewOsFs(),
		repo: repo,
		dir:  dir,
	}
}

// Get returns a path to the artifact file for the given coordinate, downloading and
// caching it first when there is no intact cached copy.
func (c *Cache) Get(coordinate artifact.Coordinate) (string, error) {
	entryDir, err := c.entryDir(coordinate)
	if err != nil {
		return "", err
	}
	artifactPath := path.Join(entryDir, coordinate.FileName())

	if err := c.validateEntry(entryDir, coordinate); err == nil {
		log.Debugf("using cached artifact (%s)", artifactPath)
		return artifactPath, nil
	} else if file.Exists(c.fs, metadataPath(entryDir)) {
		log.Warnf("cached artifact is invalid, re-fetching: %+v", err)
	}

	// let consumers know of a monitorable event (download + validate + activate stages)
	downloadProgress := &progress.Manual{
		Total: 1,
	}
	stage := &progress.Stage{
		Current: "downloading",
	}

	bus.Publish(partybus.Event{
		Type: event.FetchBaselineArtifact,
		Value: progress.StagedProgressable(&struct {
			progress.Stager
			progress.Progressable
		}{
			Stager:       progress.Stager(stage),
			Progressable: progress.Progressable(downloadProgress),
		}),
	})
	defer downloadProgress.SetCompleted()

	// note: the temp directory is persisted upon download/activation failure to allow for investigation
	tempDir, err := afero.TempDir(c.fs, "", "semgate-scratch")
	if err != nil {
		return "", fmt.Errorf("unable to create artifact temp dir: %w", err)
	}

	tempPath := path.Join(tempDir, coordinate.FileName())
	if err := c.repo.FetchArtifact(coordinate, tempPath, downloadProgress); err != nil {
		return "", err
	}

	stage.Current = "validating"
	digest, err := file.HashFile(c.fs, tempPath, sha256.New())
	if err != nil {
		return "", err
	}

	info, err := c.fs.Stat(tempPath)
	if err != nil {
		return "", err
	}

	stage.Current = "activating"
	metadata := Metadata{
		Coordinate: coordinate,
		Fetched:    time.Now().UTC(),
		Checksum:   "sha256:" + digest,
		Size:       info.Size(),
	}
	if err := c.activate(tempPath, entryDir, metadata); err != nil {
		return "", err
	}

	return artifactPath, c.fs.RemoveAll(tempDir)
}

// Status reports the location and contents of the cache.
func (c *Cache) Status() Status {
	status := Status{
		Location: c.dir,
	}

	entries, err := afero.ReadDir(c.fs, c.dir)
	if os.IsNotExist(err) {
		return status
	} else if err != nil {
		status.Err = fmt.Errorf("unable to read cache location: %w", err)
		return status
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadata, err := NewMetadataFromDir(c.fs, path.Join(c.dir, entry.Name()))
		if err != nil {
			status.Err = err
			continue
		}
		if metadata == nil {
			continue
		}
		status.Entries++
		status.Size += metadata.Size
	}

	return status
}

// Entries describes each artifact currently held in the cache, ordered by coordinate.
// Entries with damaged metadata are skipped.
func (c *Cache) Entries() ([]Metadata, error) {
	dirs, err := afero.ReadDir(c.fs, c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to read cache location: %w", err)
	}

	var entries []Metadata
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		metadata, err := NewMetadataFromDir(c.fs, path.Join(c.dir, dir.Name()))
		if err != nil {
			log.Debugf("skipping cache entry %q: %+v", dir.Name(), err)
			continue
		}
		if metadata == nil {
			continue
		}
		entries = append(entries, *metadata)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Coordinate.String() < entries[j].Coordinate.String()
	})

	return entries, nil
}

// Purge removes the cache directory and everything in it.
func (c *Cache) Purge() error {
	return c.fs.RemoveAll(c.dir)
}

func (c *Cache) entryDir(coordinate artifact.Coordinate) (string, error) {
	key, err := hashstructure.Hash(&coordinate, hashstructure.FormatV2, &hashstructure.HashOptions{
		ZeroNil: true,
	})
	if err != nil {
		return "", fmt.Errorf("unable to derive cache key for %s: %w", coordinate, err)
	}

	return path.Join(c.dir, fmt.Sprintf("%x", key)), nil
}

// validateEntry returns nil only when the entry directory holds an intact artifact that
// still matches its recorded checksum.
func (c *Cache) validateEntry(entryDir string, coordinate artifact.Coordinate) error {
	metadata, err := NewMetadataFromDir(c.fs, entryDir)
	if err != nil {
		return err
	}
	if metadata == nil {
		return fmt.Errorf("cache metadata not found at %q", entryDir)
	}

	artifactPath := path.Join(entryDir, coordinate.FileName())
	valid, actualHash, err := file.ValidateByHash(c.fs, artifactPath, metadata.Checksum)
	if err != nil {
		return err
	}
	if !valid {
		return fmt.Errorf("bad artifact checksum (%s): %q vs %q", artifactPath, metadata.Checksum, actualHash)
	}

	return nil
}

// activate swaps the downloaded artifact into the cache entry directory.
func (c *Cache) activate(fromPath, entryDir string, metadata Metadata) error {
	if _, err := c.fs.Stat(entryDir); !os.IsNotExist(err) {
		// remove any previous entry content
		if err := c.fs.RemoveAll(entryDir); err != nil {
			return fmt.Errorf("failed to purge existing cache entry: %w", err)
		}
	}

	if err := c.fs.MkdirAll(entryDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache entry directory: %w", err)
	}

	dst := path.Join(entryDir, metadata.Coordinate.FileName())
	if err := file.CopyFile(c.fs, fromPath, dst); err != nil {
		return fmt.Errorf("failed to copy artifact into cache: %w", err)
	}

	return metadata.Write(c.fs, entryDir)
}
