package molstar

import _ "embed"

// Version is the module version, embedded from version.txt so the CLI,
// the HTTP adapter and release tooling share one source of truth. The
// embedded value keeps its trailing newline; display paths trim it.
//
//go:embed version.txt
var Version string
