// Package content embeds the authored topic catalog.
package content

import "embed"

//go:embed index.yaml topics/*.yaml
var FS embed.FS
