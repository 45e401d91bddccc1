// Package webui embeds the browser chat page served by babble serve.
package webui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns the embedded static files rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed path is fixed at compile time.
		panic(err)
	}
	return sub
}

// Handler serves the chat page and its assets.
func Handler() http.Handler {
	return http.FileServerFS(FS())
}
