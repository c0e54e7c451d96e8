// Standalone mock backend for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/homeboard serve -c example/config.yaml
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/homeboard/example/mockbackend"
)

func main() {
	fmt.Println("Mock backend starting on :9999")
	fmt.Println("Playback reacts to toggle/next/prev; streams go live on even minutes")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := http.ListenAndServe(":9999", mockbackend.New(nil).Handler()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
