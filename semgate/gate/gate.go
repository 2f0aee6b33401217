package gate

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/file"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/analysis"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/event"
	"github.com/semgate/semgate/semgate/event/monitor"
	"github.com/semgate/semgate/semgate/marker"
	"github.com/semgate/semgate/semgate/semgateerr"
	"github.com/semgate/semgate/semgate/semver"
)

// pom modules produce no gateable artifact of their own
const pomPackaging = "pom"

type Config struct {
	FailOnIncorrectVersion bool
	AllowHigherVersions    bool
	ExcludePackages        []string
	ExcludeFiles           []string
	Classpath              []string
	MarkerName             string // "" disables all marker output
	MarkerDir              string
	ParentMarkerDir        string // "" disables parent merging
	OverwriteMarker        bool
}

// baselineResolver selects the version a candidate build is compared against.
type baselineResolver interface {
	SelectBaseline(artifact.Coordinate) (*semver.Version, semver.Collection, error)
}

// artifactProvider delivers a local path for a (fully versioned) coordinate's artifact.
type artifactProvider interface {
	Get(artifact.Coordinate) (string, error)
}

// Gate ties baseline resolution, compatibility analysis, and the version policy together
// for a single module build.
type Gate struct {
	fs       afero.Fs
	resolver baselineResolver
	provider artifactProvider
	analyzer analysis.Analyzer
	writer   *marker.Writer
	cfg      Config
}

func New(resolver baselineResolver, provider artifactProvider, analyzer analysis.Analyzer, cfg Config) *Gate {
	fs := afero.NewOsFs()
	return &Gate{
		fs:       fs,
		resolver: resolver,
		provider: provider,
		analyzer: analyzer,
		writer:   marker.NewWriter(fs),
		cfg:      cfg,
	}
}

// Check gates a single module build: resolve the baseline, determine the required and
// declared version changes, apply the version policy, and record the next logical version.
// A nil outcome with a nil error means the module was deliberately skipped.
func (g *Gate) Check(ctx context.Context, coordinate artifact.Coordinate, artifactPath string) (*Outcome, error) {
	if skip, err := g.checkPreconditions(coordinate, artifactPath); skip || err != nil {
		return nil, err
	}

	declaredVersion, err := semver.NewVersion(coordinate.Version)
	if err != nil {
		return nil, semgateerr.NewPreconditionError("unable to parse declared version %q: %+v", coordinate.Version, err)
	}

	candidatesDiscovered, stage := trackCheck()
	defer candidatesDiscovered.SetCompleted()

	resolvedBaseline, candidates, err := g.resolver.SelectBaseline(coordinate)
	if err != nil {
		return nil, err
	}
	candidatesDiscovered.N = int64(len(candidates))

	requiredChange := semver.NoChange
	verdict := OKVerdict

	baseline := resolvedBaseline
	if baseline == nil {
		log.Infof("no prior release of %s:%s found, gating as a new artifact", coordinate.Group, coordinate.Name)
		baseline = declaredVersion
	} else {
		log.Debugf("baseline version: %s", baseline)

		stage.Current = "fetching baseline"
		baselinePath, err := g.provider.Get(coordinate.WithVersion(baseline.String()))
		if err != nil {
			log.Warnf("baseline %s has no attached file? skipping compatibility analysis: %+v", baseline, err)
			verdict = WarnedVerdict
		} else {
			stage.Current = "analyzing"
			requiredChange, err = g.analyzer.Classify(ctx, baselinePath, artifactPath, analysis.Options{
				ExcludePackages: g.cfg.ExcludePackages,
				ExcludeFiles:    g.cfg.ExcludeFiles,
				Classpath:       g.cfg.Classpath,
			})
			if err != nil {
				return nil, fmt.Errorf("compatibility analysis failed: %w", err)
			}
		}
	}

	declaredChange := semver.ClassifyChange(baseline, declaredVersion)

	outcome := &Outcome{
		Coordinate:     coordinate,
		Candidates:     candidates,
		Baseline:       resolvedBaseline,
		Version:        declaredVersion,
		RequiredChange: requiredChange,
		DeclaredChange: declaredChange,
		NextVersion:    requiredChange.Next(baseline),
		Verdict:        verdict,
	}

	if !declarationCoversRequirement(requiredChange, declaredChange, g.cfg.AllowHigherVersions) {
		if g.cfg.FailOnIncorrectVersion {
			outcome.Verdict = FailedVerdict
			return outcome, fmt.Errorf("required change is %s but the declared version (%s) reflects %s: %w",
				requiredChange, declaredVersion, declaredChange, semgateerr.ErrIncorrectVersion)
		}
		log.Infof("declared change (%s) does not satisfy the required change (%s), continuing anyway", declaredChange, requiredChange)
	}

	stage.Current = "writing outputs"
	if err := g.writeOutputs(outcome); err != nil {
		return outcome, err
	}

	return outcome, nil
}

func (g *Gate) checkPreconditions(coordinate artifact.Coordinate, artifactPath string) (bool, error) {
	if coordinate.Packaging == pomPackaging {
		log.Infof("packaging is %s, skipping gate for %s", pomPackaging, coordinate)
		return true, nil
	}

	if artifactPath == "" {
		return false, semgateerr.NewPreconditionError("no candidate artifact file for %s (did the build produce one?)", coordinate)
	}

	if !file.Exists(g.fs, artifactPath) {
		return false, semgateerr.NewPreconditionError("candidate artifact file does not exist: %s", artifactPath)
	}

	if err := g.validateArchive(artifactPath); err != nil {
		return false, semgateerr.NewPreconditionError("candidate artifact is not usable: %+v", err)
	}

	return false, nil
}

func (g *Gate) validateArchive(artifactPath string) error {
	f, err := g.fs.Open(artifactPath)
	if err != nil {
		return err
	}
	defer f.Close()

	mType, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}

	// jars (and wars, ears) are zip containers, so any zip descendant is acceptable
	if !isAncestorOfMimetype(mType, "application/zip") {
		return fmt.Errorf("not a zip-based archive (detected %s)", mType)
	}

	return nil
}

func (g *Gate) writeOutputs(outcome *Outcome) error {
	if g.cfg.MarkerName == "" {
		log.Debugf("marker output disabled")
		return nil
	}

	if err := g.writer.WriteModuleOutput(g.cfg.MarkerDir, g.cfg.MarkerName, outcome.NextVersion, g.cfg.OverwriteMarker); err != nil {
		return fmt.Errorf("unable to write module marker: %w", err)
	}

	degraded, err := g.writer.MergeWithParent(outcome.NextVersion, g.cfg.ParentMarkerDir, g.cfg.MarkerName, g.cfg.OverwriteMarker)
	if err != nil {
		return fmt.Errorf("unable to update parent marker: %w", err)
	}
	if degraded && outcome.Verdict == OKVerdict {
		outcome.Verdict = WarnedVerdict
	}

	return nil
}

// declarationCoversRequirement applies the version policy: the declared change must be at
// least the required change, and exceeding it is tolerated only when allowHigher is set.
func declarationCoversRequirement(required, declared semver.Change, allowHigher bool) bool {
	if declared < required {
		return false
	}
	if declared > required && !allowHigher {
		return false
	}
	return true
}

func trackCheck() (*progress.Manual, *progress.Stage) {
	candidatesDiscovered := progress.Manual{}
	stage := progress.Stage{
		Current: "resolving baseline",
	}

	bus.Publish(partybus.Event{
		Type: event.CompatibilityCheckStarted,
		Value: monitor.Check{
			CandidatesDiscovered: progress.Monitorable(&candidatesDiscovered),
			Stage:                progress.Stager(&stage),
		},
	})

	return &candidatesDiscovered, &stage
}

func isAncestorOfMimetype(mType *mimetype.MIME, expected string) bool {
	for cur := mType; cur != nil; cur = cur.Parent() {
		if cur.Is(expected) {
			return true
		}
	}
	return false
}
