// Package locales embeds the UI string tables.
package locales

import "embed"

// FS holds one <lang>.json file per site language.
//
//go:embed *.json
var FS embed.FS
