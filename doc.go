// Package homeboard provides an embeddable home dashboard that polls a
// backend for music playback, weather, calendar, system resources and live
// streams, and shows them on a single page next to a clock.
//
// Each data source is a task with its own timer. A task fetches its data,
// renders it into a server-side model of the page's elements and returns;
// the browser page mirrors that model over Server-Sent Events. Failed
// fetches are logged and leave the previous state on screen.
//
// # Quick Start
//
//	hb, _ := homeboard.New(homeboard.WithBackendURL("http://localhost:8000"))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	hb.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// HomeBoard uses the functional options pattern:
//
//	hb, err := homeboard.New(
//	    homeboard.WithBackendURL("http://localhost:8000"),
//	    homeboard.WithInterval(homeboard.TaskWeather, 10*time.Minute),
//	    homeboard.WithDisabledTasks(homeboard.TaskStreams),
//	    homeboard.WithLocalResources(),
//	    homeboard.WithPort(9090),
//	)
//
// # Tasks
//
// Six tasks are available (see [TaskNames]), each with a default interval:
//
//   - clock: every second, no backend
//   - resources: every 2s, CPU/RAM/GPU gauges
//   - playback: every 5s, now playing and the device list
//   - streams: every minute, followed live streams
//   - calendar: every 15 minutes, upcoming events
//   - weather: every 30 minutes, current conditions and forecast
//
// A task that is still running when its timer fires again is not waited
// for; both cycles run and the last to finish wins.
//
// # Architecture
//
// HomeBoard consists of several internal packages (under internal/):
//
//   - internal/poller: per-task timers, in-flight cap and pooled HTTP client
//   - internal/source: typed backend client and local resource sampling
//   - internal/view: the element-level interface widgets render through
//   - internal/widgets: one renderer per data source
//   - internal/store: element state with atomic renders and pub/sub
//   - internal/server: page, REST snapshot, SSE stream and commands
//   - internal/publish: optional MQTT mirror of element updates
//   - dashboard: embedded web UI assets
package homeboard
