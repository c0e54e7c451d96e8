// Package dashboard provides the embedded web UI assets for HomeBoard.
//
// The page holds one element per widget field. It mirrors the server-side
// element store over SSE and posts clicks back as commands, so it keeps no
// state of its own.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html              - dashboard page with inline CSS and JavaScript
//	  static/placeholder.svg  - artwork shown when nothing is playing
//
//go:embed assets
var Assets embed.FS
