package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// Assets returns the embedded files rooted at the static directory, as served under /static/.
func Assets() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(fmt.Sprintf("static assets: %v", err))
	}
	return sub
}
