package repository

import (
	"fmt"
	"sort"

	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/semver"
)

// Resolver selects the baseline version a candidate build should be compared against.
type Resolver struct {
	repo            Repository
	ignoreSnapshots bool
}

func NewResolver(repo Repository, ignoreSnapshots bool) *Resolver {
	return &Resolver{
		repo:            repo,
		ignoreSnapshots: ignoreSnapshots,
	}
}

// SelectBaseline returns the highest published version for the artifact along with all
// considered candidates (ascending). A nil baseline with no error means the repository has
// no usable prior release, in which case a gate check treats the artifact as brand new.
func (r *Resolver) SelectBaseline(coordinate artifact.Coordinate) (*semver.Version, semver.Collection, error) {
	rawVersions, err := r.repo.ListVersions(coordinate)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to list versions for %s: %w", coordinate, err)
	}

	var candidates semver.Collection
	for _, raw := range rawVersions {
		parsed, err := semver.NewVersion(raw)
		if err != nil {
			log.Debugf("skipping unparsable version %q for %s: %+v", raw, coordinate, err)
			continue
		}
		if r.ignoreSnapshots && parsed.IsSnapshot() {
			log.Debugf("skipping snapshot version %q for %s", raw, coordinate)
			continue
		}
		candidates = append(candidates, parsed)
	}

	if len(candidates) == 0 {
		log.Debugf("no usable prior versions found for %s", coordinate)
		return nil, nil, nil
	}

	sort.Sort(candidates)

	return candidates[len(candidates)-1], candidates, nil
}
