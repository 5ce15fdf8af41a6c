// Package assets embeds the pre-built single-page UI.
package assets

import _ "embed"

// Index is the composed application page, produced by cmd/minify.
//
//go:embed index.html
var Index []byte

// Favicon is the site icon.
//
//go:embed favicon.svg
var Favicon []byte
