package legaldocs

import (
	"io/fs"

	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/catalog"
)

// EmbeddedTemplates exposes the bundled template catalog (catalog.yaml plus
// one folder per template) so callers can seed a store or copy and extend it
// without importing the catalog package directly.
func EmbeddedTemplates() fs.FS {
	return catalog.TemplatesFS()
}

// EmbeddedAssets exposes the images stamped onto documents (logo.png and
// brasao.png).
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(legaldocs.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return assets.EmbeddedFS()
}
