package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want to
// copy or override individual templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
