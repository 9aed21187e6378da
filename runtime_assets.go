package formfill

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser behaviors loaded by the page layout
// (committed under pkg/runtime/assets).
//
// Typical mount:
//
//	server.New(backend, registrar, source,
//	  server.WithRuntimeAssets(formfill.RuntimeAssetsFS()),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
