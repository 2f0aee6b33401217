package gate

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/semgate/analysis"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/marker"
	"github.com/semgate/semgate/semgate/semgateerr"
	"github.com/semgate/semgate/semgate/semver"
)

const candidateJarPath = "/project/target/widget-1.3.0.jar"

type stubResolver struct {
	baseline   *semver.Version
	candidates semver.Collection
	err        error
}

func (s *stubResolver) SelectBaseline(_ artifact.Coordinate) (*semver.Version, semver.Collection, error) {
	return s.baseline, s.candidates, s.err
}

type stubProvider struct {
	path string
	err  error
}

func (s *stubProvider) Get(_ artifact.Coordinate) (string, error) {
	return s.path, s.err
}

type stubAnalyzer struct {
	change semver.Change
	err    error
	calls  int
}

func (s *stubAnalyzer) Classify(_ context.Context, _, _ string, _ analysis.Options) (semver.Change, error) {
	s.calls++
	return s.change, s.err
}

func mustVersion(t *testing.T, raw string) *semver.Version {
	t.Helper()
	v, err := semver.NewVersion(raw)
	require.NoError(t, err)
	return v
}

func testCandidates(t *testing.T, raws ...string) semver.Collection {
	t.Helper()
	var collection semver.Collection
	for _, raw := range raws {
		collection = append(collection, mustVersion(t, raw))
	}
	return collection
}

func jarBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	_, err = f.Write([]byte("Manifest-Version: 1.0\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func testConfig() Config {
	return Config{
		FailOnIncorrectVersion: true,
		AllowHigherVersions:    true,
		MarkerName:             "nextVersion.txt",
		MarkerDir:              "/project/target",
		OverwriteMarker:        true,
	}
}

func testCoordinate(version string) artifact.Coordinate {
	return artifact.Coordinate{
		Group:     "com.acme",
		Name:      "widget",
		Version:   version,
		Packaging: "jar",
	}
}

func newTestGate(t *testing.T, resolver *stubResolver, provider *stubProvider, analyzer *stubAnalyzer, cfg Config) *Gate {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, candidateJarPath, jarBytes(t), 0644))

	return &Gate{
		fs:       fs,
		resolver: resolver,
		provider: provider,
		analyzer: analyzer,
		writer:   marker.NewWriter(fs),
		cfg:      cfg,
	}
}

func markerContents(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	contents, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(contents)
}

func TestGateCheck_DeclaredMatchesRequired(t *testing.T) {
	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.0.0", "1.1.0", "1.2.0"),
	}
	analyzer := &stubAnalyzer{change: semver.MinorChange}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, analyzer, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, OKVerdict, outcome.Verdict)
	assert.Equal(t, semver.MinorChange, outcome.RequiredChange)
	assert.Equal(t, semver.MinorChange, outcome.DeclaredChange)
	assert.Equal(t, "1.2.0", outcome.Baseline.String())
	assert.Equal(t, "1.3.0", outcome.Version.String())
	assert.Equal(t, "1.3.0", outcome.NextVersion.String())
	assert.Len(t, outcome.Candidates, 3)
	assert.Equal(t, 1, analyzer.calls)

	assert.Equal(t, "1.3.0\n", markerContents(t, g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_PolicyViolation(t *testing.T) {
	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	analyzer := &stubAnalyzer{change: semver.MajorChange}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, analyzer, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, semgateerr.ErrIncorrectVersion)

	require.NotNil(t, outcome)
	assert.Equal(t, FailedVerdict, outcome.Verdict)
	assert.Equal(t, semver.MajorChange, outcome.RequiredChange)
	assert.Equal(t, "2.0.0", outcome.NextVersion.String())

	// a violation must not leave a marker behind
	assert.False(t, file.Exists(g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_ViolationToleratedWhenNotEnforcing(t *testing.T) {
	cfg := testConfig()
	cfg.FailOnIncorrectVersion = false

	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{change: semver.MajorChange}, cfg)

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, OKVerdict, outcome.Verdict)
	assert.Equal(t, "2.0.0", outcome.NextVersion.String())
	assert.Equal(t, "2.0.0\n", markerContents(t, g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_HigherThanRequired(t *testing.T) {
	tests := []struct {
		name        string
		allowHigher bool
		wantErr     bool
	}{
		{
			name:        "overshoot tolerated",
			allowHigher: true,
		},
		{
			name:        "overshoot rejected",
			allowHigher: false,
			wantErr:     true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.AllowHigherVersions = test.allowHigher

			resolver := &stubResolver{
				baseline:   mustVersion(t, "1.2.0"),
				candidates: testCandidates(t, "1.2.0"),
			}
			g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{change: semver.NoChange}, cfg)

			outcome, err := g.Check(context.Background(), testCoordinate("2.0.0"), candidateJarPath)
			if test.wantErr {
				assert.ErrorIs(t, err, semgateerr.ErrIncorrectVersion)
				require.NotNil(t, outcome)
				assert.Equal(t, FailedVerdict, outcome.Verdict)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, OKVerdict, outcome.Verdict)
		})
	}
}

func TestGateCheck_NewArtifact(t *testing.T) {
	analyzer := &stubAnalyzer{change: semver.MajorChange}
	g := newTestGate(t, &stubResolver{}, &stubProvider{}, analyzer, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Nil(t, outcome.Baseline)
	assert.Equal(t, semver.NoChange, outcome.RequiredChange)
	assert.Equal(t, semver.NoChange, outcome.DeclaredChange)
	assert.Equal(t, "1.3.0", outcome.NextVersion.String())
	assert.Equal(t, OKVerdict, outcome.Verdict)
	assert.Zero(t, analyzer.calls, "a new artifact must not be analyzed")

	assert.Equal(t, "1.3.0\n", markerContents(t, g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_MissingBaselineFile(t *testing.T) {
	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	provider := &stubProvider{err: fmt.Errorf("no artifact attached")}
	analyzer := &stubAnalyzer{change: semver.MajorChange}
	g := newTestGate(t, resolver, provider, analyzer, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, WarnedVerdict, outcome.Verdict)
	assert.Equal(t, semver.NoChange, outcome.RequiredChange)
	assert.Zero(t, analyzer.calls)

	// the gate still records the next version from what it could determine
	assert.Equal(t, "1.2.0\n", markerContents(t, g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_AnalyzerFailure(t *testing.T) {
	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{err: fmt.Errorf("analyzer exploded")}, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.Error(t, err)
	assert.Nil(t, outcome)

	var expected *semgateerr.PreconditionError
	assert.False(t, errors.As(err, &expected), "analysis failures are not precondition failures")
}

func TestGateCheck_ResolutionFailure(t *testing.T) {
	resolver := &stubResolver{err: fmt.Errorf("repository unreachable")}
	g := newTestGate(t, resolver, &stubProvider{}, &stubAnalyzer{}, testConfig())

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.Error(t, err)
	assert.Nil(t, outcome)
}

func TestGateCheck_PomPackagingSkips(t *testing.T) {
	g := newTestGate(t, &stubResolver{}, &stubProvider{}, &stubAnalyzer{}, testConfig())

	coordinate := testCoordinate("1.3.0")
	coordinate.Packaging = "pom"

	outcome, err := g.Check(context.Background(), coordinate, candidateJarPath)
	require.NoError(t, err)
	assert.Nil(t, outcome)

	assert.False(t, file.Exists(g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_Preconditions(t *testing.T) {
	tests := []struct {
		name         string
		version      string
		artifactPath string
		stage        func(t *testing.T, fs afero.Fs)
	}{
		{
			name:         "no artifact path",
			version:      "1.3.0",
			artifactPath: "",
		},
		{
			name:         "artifact file does not exist",
			version:      "1.3.0",
			artifactPath: "/project/target/nope.jar",
		},
		{
			name:         "artifact is not an archive",
			version:      "1.3.0",
			artifactPath: "/project/target/widget-1.3.0.txt",
			stage: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/project/target/widget-1.3.0.txt", []byte("just some text"), 0644))
			},
		},
		{
			name:         "declared version is garbage",
			version:      "latest-and-greatest",
			artifactPath: candidateJarPath,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := newTestGate(t, &stubResolver{}, &stubProvider{}, &stubAnalyzer{}, testConfig())
			if test.stage != nil {
				test.stage(t, g.fs)
			}

			outcome, err := g.Check(context.Background(), testCoordinate(test.version), test.artifactPath)
			require.Error(t, err)
			assert.Nil(t, outcome)

			var precondition *semgateerr.PreconditionError
			assert.True(t, errors.As(err, &precondition), "expected a precondition failure, got: %+v", err)
		})
	}
}

func TestGateCheck_MarkerDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MarkerName = ""

	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{change: semver.MinorChange}, cfg)

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.False(t, file.Exists(g.fs, "/project/target/nextVersion.txt"))
}

func TestGateCheck_ParentMerge(t *testing.T) {
	cfg := testConfig()
	cfg.ParentMarkerDir = "/parent/target"

	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{change: semver.MinorChange}, cfg)

	require.NoError(t, afero.WriteFile(g.fs, "/parent/target/nextVersion.txt", []byte("2.0.0\n"), 0644))

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, "1.3.0\n", markerContents(t, g.fs, "/project/target/nextVersion.txt"))
	assert.Equal(t, "2.0.0\n", markerContents(t, g.fs, "/parent/target/nextVersion.txt"))
}

func TestGateCheck_UnreadableParentMarkerWarns(t *testing.T) {
	cfg := testConfig()
	cfg.ParentMarkerDir = "/parent/target"

	resolver := &stubResolver{
		baseline:   mustVersion(t, "1.2.0"),
		candidates: testCandidates(t, "1.2.0"),
	}
	g := newTestGate(t, resolver, &stubProvider{path: "/cache/widget-1.2.0.jar"}, &stubAnalyzer{change: semver.MinorChange}, cfg)

	require.NoError(t, afero.WriteFile(g.fs, "/parent/target/nextVersion.txt", []byte("garbage\n"), 0644))

	outcome, err := g.Check(context.Background(), testCoordinate("1.3.0"), candidateJarPath)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, WarnedVerdict, outcome.Verdict)
	assert.Equal(t, "1.3.0\n", markerContents(t, g.fs, "/parent/target/nextVersion.txt"))
}
