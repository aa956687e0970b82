// Package appfs exposes the project's embedded assets and migrations.
package appfs

import (
	"embed"
	"io/fs"
)

// The all: prefix keeps the underscore-prefixed template partials
// (_layout, _field_errors, the email _base pair) in the embedded tree.
//
//go:embed all:assets migrations
var FS embed.FS

// StaticFS is the assets/static subtree, served by the web server at /static/.
var StaticFS = mustSub("assets/static")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(FS, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
