package repository

import (
	"github.com/wagoodman/go-progress"

	"github.com/semgate/semgate/semgate/artifact"
)

// Repository abstracts a Maven-layout artifact repository: a store that can enumerate the
// published versions of an artifact and deliver the artifact payloads themselves.
type Repository interface {
	// ListVersions enumerates all published version strings for the given coordinate
	// (the coordinate version is ignored), in repository order.
	ListVersions(coordinate artifact.Coordinate) ([]string, error)

	// FetchArtifact downloads the file for the given (fully versioned) coordinate into the
	// destination path.
	FetchArtifact(coordinate artifact.Coordinate, dst string, monitors ...*progress.Manual) error
}
