// Package server provides the HTTP server for the HomeBoard page and API.
//
// This package is internal to HomeBoard and handles all HTTP concerns:
//
//   - Page serving: the embedded dashboard at "/" and static assets under "/static/"
//   - REST API: JSON snapshot of every element at "/api/view"
//   - Server-Sent Events: element updates at "/api/sse"
//   - Commands: rate-limited playback controls under "/api/command/"
//
// The browser page holds no state of its own. It applies the snapshot and
// the updates it receives to elements with matching IDs, and posts clicks
// back as commands.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
