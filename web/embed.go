// tasks/web/embed.go

// Package web embeds the browser front end served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.js styles.css
var embedded embed.FS

func FS() fs.FS {
	return embedded
}
