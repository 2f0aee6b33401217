package repository

import (
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/spf13/afero"

	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/semgate/artifact"
)

const metadataFileName = "metadata.json"

// Metadata describes a single cache entry: which artifact it holds and how to verify it.
type Metadata struct {
	Coordinate artifact.Coordinate
	Fetched    time.Time
	Checksum   string
	Size       int64
}

// MetadataJSON is the persisted view of Metadata.
type MetadataJSON struct {
	Coordinate artifact.Coordinate `json:"coordinate"`
	Fetched    string              `json:"fetched"` // RFC 3339
	Checksum   string              `json:"checksum"`
	Size       int64               `json:"size"`
}

func (m MetadataJSON) ToMetadata() (Metadata, error) {
	fetched, err := time.Parse(time.RFC3339, m.Fetched)
	if err != nil {
		return Metadata{}, fmt.Errorf("cannot convert fetched time (%s): %+v", m.Fetched, err)
	}

	return Metadata{
		Coordinate: m.Coordinate,
		Fetched:    fetched.UTC(),
		Checksum:   m.Checksum,
		Size:       m.Size,
	}, nil
}

func metadataPath(dir string) string {
	return path.Join(dir, metadataFileName)
}

// NewMetadataFromDir reads the cache entry metadata in the given directory, returning nil
// (without error) when no metadata file exists.
func NewMetadataFromDir(fs afero.Fs, dir string) (*Metadata, error) {
	metadataFilePath := metadataPath(dir)
	if !file.Exists(fs, metadataFilePath) {
		return nil, nil
	}
	f, err := fs.Open(metadataFilePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open cache metadata path (%s): %w", metadataFilePath, err)
	}
	defer f.Close()

	var m Metadata
	err = json.NewDecoder(f).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("unable to parse cache metadata (%s): %w", metadataFilePath, err)
	}
	return &m, nil
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var mj MetadataJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	me, err := mj.ToMetadata()
	if err != nil {
		return err
	}
	*m = me
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(MetadataJSON{
		Coordinate: m.Coordinate,
		Fetched:    m.Fetched.UTC().Format(time.RFC3339),
		Checksum:   m.Checksum,
		Size:       m.Size,
	})
}

func (m Metadata) Write(fs afero.Fs, dir string) error {
	contents, err := json.MarshalIndent(&m, "", " ")
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	err = afero.WriteFile(fs, metadataPath(dir), contents, 0600)
	if err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	return nil
}

func (m Metadata) String() string {
	return fmt.Sprintf("Metadata(coordinate=%s fetched=%s checksum=%s)", m.Coordinate, m.Fetched, m.Checksum)
}
