package semgate

import (
	"context"

	"github.com/wagoodman/go-partybus"

	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/analysis"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/gate"
	"github.com/semgate/semgate/semgate/logger"
	"github.com/semgate/semgate/semgate/repository"
)

// CheckConfig bundles everything needed to run the compatibility gate end to end against a
// Maven-layout repository.
type CheckConfig struct {
	Repository      repository.MavenConfig
	CacheDir        string
	IgnoreSnapshots bool
	Analyzer        analysis.ExecConfig
	Gate            gate.Config
}

// Check resolves the baseline release for the given coordinate and runs the compatibility
// gate against the candidate artifact file.
func Check(ctx context.Context, cfg CheckConfig, coordinate artifact.Coordinate, artifactPath string) (*gate.Outcome, error) {
	repo, err := repository.NewMaven(cfg.Repository)
	if err != nil {
		return nil, err
	}

	analyzer, err := analysis.NewExecAnalyzer(cfg.Analyzer)
	if err != nil {
		return nil, err
	}

	resolver := repository.NewResolver(repo, cfg.IgnoreSnapshots)
	cache := repository.NewCache(repo, cfg.CacheDir)

	return gate.New(resolver, cache, analyzer, cfg.Gate).Check(ctx, coordinate, artifactPath)
}

func SetLogger(logger logger.Logger) {
	log.Log = logger
}

func SetBus(b *partybus.Bus) {
	bus.SetPublisher(b)
}
