package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the embedded release version, with whitespace trimmed.
func Get() string {
	return strings.TrimSpace(versionContent)
}
