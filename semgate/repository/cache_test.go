package repository

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-progress"

	"github.com/semgate/semgate/semgate/artifact"
)

func testCoordinate(version string) artifact.Coordinate {
	return artifact.Coordinate{
		Group:     "com.acme",
		Name:      "widget",
		Version:   version,
		Packaging: "jar",
	}
}

// stubRepository serves canned responses and counts artifact fetches.
type stubRepository struct {
	fs       afero.Fs
	versions []string
	content  []byte
	err      error
	fetches  int
}

func (s *stubRepository) ListVersions(_ artifact.Coordinate) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.versions, nil
}

func (s *stubRepository) FetchArtifact(_ artifact.Coordinate, dst string, _ ...*progress.Manual) error {
	s.fetches++
	if s.err != nil {
		return s.err
	}
	return afero.WriteFile(s.fs, dst, s.content, 0644)
}

func newTestCache(stub *stubRepository) *Cache {
	fs := afero.NewMemMapFs()
	stub.fs = fs
	return &Cache{
		fs:   fs,
		repo: stub,
		dir:  "/cache",
	}
}

func TestCacheGet_FetchesAndActivates(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	artifactPath, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)
	assert.Equal(t, 1, stub.fetches)

	actual, err := afero.ReadFile(cache.fs, artifactPath)
	require.NoError(t, err)
	assert.Equal(t, "jar-payload", string(actual))

	entries, err := afero.ReadDir(cache.fs, cache.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	metadata, err := NewMetadataFromDir(cache.fs, "/cache/"+entries[0].Name())
	require.NoError(t, err)
	require.NotNil(t, metadata)
	assert.Equal(t, testCoordinate("1.2.0"), metadata.Coordinate)
	assert.Contains(t, metadata.Checksum, "sha256:")
	assert.Equal(t, int64(len("jar-payload")), metadata.Size)
}

func TestCacheGet_ReusesIntactEntry(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	first, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	second, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.fetches, "expected the second get to be served from the cache")
}

func TestCacheGet_SeparateEntriesPerVersion(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	first, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	second, err := cache.Get(testCoordinate("1.3.0"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, stub.fetches)
}

func TestCacheGet_RefetchesCorruptEntry(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	artifactPath, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	// tamper with the cached artifact so the recorded checksum no longer matches
	require.NoError(t, afero.WriteFile(cache.fs, artifactPath, []byte("tampered"), 0644))

	refetched, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)
	assert.Equal(t, 2, stub.fetches)

	actual, err := afero.ReadFile(cache.fs, refetched)
	require.NoError(t, err)
	assert.Equal(t, "jar-payload", string(actual))
}

func TestCacheGet_DownloadFailure(t *testing.T) {
	stub := &stubRepository{err: fmt.Errorf("repository unreachable")}
	cache := newTestCache(stub)

	_, err := cache.Get(testCoordinate("1.2.0"))
	assert.Error(t, err)
}

func TestCacheStatus(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	status := cache.Status()
	assert.Equal(t, "/cache", status.Location)
	assert.Zero(t, status.Entries)
	require.NoError(t, status.Err)

	_, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)
	_, err = cache.Get(testCoordinate("1.3.0"))
	require.NoError(t, err)

	status = cache.Status()
	require.NoError(t, status.Err)
	assert.Equal(t, 2, status.Entries)
	assert.Equal(t, int64(2*len("jar-payload")), status.Size)
}

func TestCacheEntries(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	entries, err := cache.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = cache.Get(testCoordinate("1.3.0"))
	require.NoError(t, err)
	_, err = cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	// entries with damaged or missing metadata are skipped, not fatal
	require.NoError(t, cache.fs.MkdirAll("/cache/aaa-damaged", 0755))
	require.NoError(t, afero.WriteFile(cache.fs, "/cache/aaa-damaged/metadata.json", []byte("{not json"), 0600))
	require.NoError(t, cache.fs.MkdirAll("/cache/bbb-empty", 0755))

	entries, err = cache.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, testCoordinate("1.2.0"), entries[0].Coordinate)
	assert.Equal(t, testCoordinate("1.3.0"), entries[1].Coordinate)
}

func TestCachePurge(t *testing.T) {
	stub := &stubRepository{content: []byte("jar-payload")}
	cache := newTestCache(stub)

	_, err := cache.Get(testCoordinate("1.2.0"))
	require.NoError(t, err)

	require.NoError(t, cache.Purge())

	exists, err := afero.DirExists(cache.fs, cache.dir)
	require.NoError(t, err)
	assert.False(t, exists)
}
