package semgateerr

var (
	// ErrIncorrectVersion indicates that the declared artifact version does not carry the
	// version bump required by the compatibility analysis (or overshoots it when higher
	// versions are not allowed).
	ErrIncorrectVersion = NewExpectedErr("incorrect version declared for the detected changes")
)
