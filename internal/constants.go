package internal

const (
	// ApplicationName is the non-capitalized name of the application (do not change this)
	ApplicationName = "semgate"

	// DefaultMarkerFileName is the file written to each module's build directory with the next logical version
	DefaultMarkerFileName = "nextVersion.txt"
)
