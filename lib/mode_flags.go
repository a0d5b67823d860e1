package lib

// CheckStrictness indicates how Check should behave when it encounters an
// error.
type CheckStrictness int

const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
