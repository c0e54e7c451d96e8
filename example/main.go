// Command example runs HomeBoard against an in-process mock backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/homeboard"
	"github.com/jpalmerr/homeboard/example/mockbackend"
)

func main() {
	go func() {
		if err := http.ListenAndServe(":9999", mockbackend.New(nil).Handler()); err != nil {
			slog.Error("mock backend error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	hb, err := homeboard.New(
		homeboard.WithBackendURL("http://localhost:9999"),
		homeboard.WithTitle("HomeBoard Demo"),
		homeboard.WithPort(8080),
		// the demo backend changes often; poll it a bit faster than default
		homeboard.WithInterval(homeboard.TaskWeather, time.Minute),
		homeboard.WithInterval(homeboard.TaskCalendar, time.Minute),
		homeboard.WithInterval(homeboard.TaskStreams, 20*time.Second),
	)
	if err != nil {
		slog.Error("failed to create homeboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   HomeBoard Demo                                      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║   Mock backend on http://localhost:9999               ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Click the play button to start the playlist         ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := hb.Start(ctx); err != nil {
		slog.Error("homeboard error", "error", err)
		os.Exit(1)
	}
}
