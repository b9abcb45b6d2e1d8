package schemas

import "embed"

// SchemasFS holds the JSON schemas of every event this system produces
// or consumes, versioned per event type.
//
//go:embed events
var SchemasFS embed.FS
