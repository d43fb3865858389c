// Package version provides information about the build of the jmnedict binaries.
package version

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service. The version, commit, and date
// variables are set at build time using -ldflags.
func Info(service string) BuildInfo {
	// -ldflags "-X 'jmnedict/internal/core/version.version=v0.1.0'
	// -X 'jmnedict/internal/core/version.commit=abcd' -X 'jmnedict/internal/core/version.date=2026-10-16'"
	if service == "" {
		service = "jmnedict"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
