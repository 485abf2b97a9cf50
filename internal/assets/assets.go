// Package assets embeds the static playground served under /static/.
package assets

import "embed"

//go:embed static
var Static embed.FS
