// Package public embeds the site's static assets: stylesheet, flags and hero media.
package public

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// StaticFS returns the assets rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}
