// Package version exposes build-time identity, injected via ldflags.
package version

//nolint:gochecknoglobals // set at build time via -ldflags
var (
	name    = "mixdoctor"
	version = "dev"
	commit  = "unknown"
)

func Name() string {
	return name
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}
