// Package content embeds the site pages as markdown with YAML front matter.
package content

import "embed"

// FS is laid out as <lang>/<page path>.md; the home page is <lang>/index.md.
//
//go:embed el en
var FS embed.FS
