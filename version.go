package regseek

import _ "embed"

// Version is the release version of RegSeek, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
