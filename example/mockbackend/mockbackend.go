// Package mockbackend is a stand-in for the HomeBoard backend, for demos
// and tests. Playback state reacts to commands; the other endpoints return
// plausible data that drifts over time.
package mockbackend

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type track struct {
	title, artist, image string
}

type device struct {
	id, name string
}

// Backend holds the simulated playback state.
type Backend struct {
	mu      sync.Mutex
	tracks  []track
	current int
	playing bool
	volume  int
	devices []device
	active  string
	rng     *rand.Rand
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a backend with a short playlist and two devices. Nothing is
// playing until a play or toggle command arrives.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		tracks: []track{
			{"Blue in Green", "Miles Davis", "https://picsum.photos/seed/blue/300"},
			{"Clair de Lune", "Claude Debussy", "https://picsum.photos/seed/clair/300"},
			{"Windowlicker", "Aphex Twin", ""},
		},
		volume: 50,
		devices: []device{
			{"living-room", "Living Room Speaker"},
			{"desk", "Desk Headphones"},
		},
		active: "living-room",
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: logger,
	}
}

// Handler returns the backend routes.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/spotify/current", b.handleCurrent)
	mux.HandleFunc("GET /api/spotify/devices", b.handleDevices)
	mux.HandleFunc("GET /api/spotify/volume", b.handleVolume)
	mux.HandleFunc("GET /api/spotify/transfer/{id}", b.handleTransfer)
	mux.HandleFunc("GET /api/spotify/{action}", b.handleAction)
	mux.HandleFunc("GET /api/weather", b.handleWeather)
	mux.HandleFunc("GET /api/calendar", b.handleCalendar)
	mux.HandleFunc("GET /api/resources", b.handleResources)
	mux.HandleFunc("GET /api/twitch/followed", b.handleStreams)
	return mux
}

func (b *Backend) handleCurrent(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.playing {
		writeJSON(w, map[string]any{"is_playing": false, "message": "Nothing is playing"})
		return
	}
	t := b.tracks[b.current]
	writeJSON(w, map[string]any{
		"is_playing": true,
		"title":      t.title,
		"artist":     t.artist,
		"image_url":  t.image,
	})
}

func (b *Backend) handleDevices(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]map[string]any, 0, len(b.devices))
	for _, d := range b.devices {
		out = append(out, map[string]any{"id": d.id, "name": d.name, "is_active": d.id == b.active})
	}
	writeJSON(w, out)
}

func (b *Backend) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")

	b.mu.Lock()
	switch action {
	case "toggle":
		b.playing = !b.playing
	case "play":
		b.playing = true
	case "pause":
		b.playing = false
	case "next":
		b.current = (b.current + 1) % len(b.tracks)
	case "prev":
		b.current = (b.current + len(b.tracks) - 1) % len(b.tracks)
	default:
		b.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	playing, title := b.playing, b.tracks[b.current].title
	b.mu.Unlock()

	b.logger.Info("playback command", "action", action, "playing", playing, "track", title)
	writeJSON(w, map[string]string{"status": action})
}

func (b *Backend) handleVolume(w http.ResponseWriter, r *http.Request) {
	v, err := strconv.Atoi(r.URL.Query().Get("value"))
	if err != nil || v < 0 || v > 100 {
		writeJSON(w, map[string]string{"error": "volume must be between 0 and 100"})
		return
	}

	b.mu.Lock()
	b.volume = v
	b.mu.Unlock()

	writeJSON(w, map[string]any{"volume": v})
}

func (b *Backend) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range b.devices {
		if d.id == id {
			b.active = id
			writeJSON(w, map[string]string{"status": "transferred"})
			return
		}
	}
	writeJSON(w, map[string]string{"error": "Device not found"})
}

func (b *Backend) handleWeather(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	now := b.now()
	drift := b.rng.Float64()*2 - 1
	b.mu.Unlock()

	icons := []string{"01d", "02d", "03d", "10d", "01n"}
	base := 18.0

	forecast := make([]map[string]any, 0, 8)
	start := now.Truncate(3 * time.Hour).Add(3 * time.Hour)
	for i := 0; i < 8; i++ {
		at := start.Add(time.Duration(i) * 3 * time.Hour)
		forecast = append(forecast, map[string]any{
			"dt":      at.Unix(),
			"main":    map[string]any{"temp": base + float64(i%4) - 1.5},
			"weather": []map[string]string{{"icon": icons[i%len(icons)]}},
		})
	}

	writeJSON(w, map[string]any{
		"current": map[string]any{
			"temp":     base + drift,
			"pressure": 1013,
			"humidity": 55,
			"icon":     icons[now.Hour()%len(icons)],
		},
		"forecast": forecast,
	})
}

func (b *Backend) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	now := b.now()
	b.mu.Unlock()

	meeting := now.Add(2 * time.Hour).Truncate(30 * time.Minute)
	tomorrow := now.AddDate(0, 0, 1)

	writeJSON(w, []map[string]any{
		{"start": map[string]string{"dateTime": meeting.Format(time.RFC3339)}, "summary": "Team sync"},
		{"start": map[string]string{"date": tomorrow.Format("2006-01-02")}, "summary": "Recycling day"},
	})
}

func (b *Backend) handleResources(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	cpu := 5 + b.rng.Float64()*60
	ram := 30 + b.rng.Float64()*40
	gpu := b.rng.Float64() * 100
	temp := 55 + b.rng.Float64()*35
	b.mu.Unlock()

	writeJSON(w, map[string]any{
		"cpu":        cpu,
		"ram":        ram,
		"gpu_active": true,
		"gpu":        gpu,
		"gpu_temp":   temp,
	})
}

// handleStreams reports live streams during even minutes only, so the
// empty placeholder shows up too.
func (b *Backend) handleStreams(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	now := b.now()
	b.mu.Unlock()

	if now.Minute()%2 == 1 {
		writeJSON(w, []any{})
		return
	}
	writeJSON(w, []map[string]any{
		{
			"user_name":     "GopherPlays",
			"user_login":    "gopherplays",
			"title":         "Speedrunning the scheduler",
			"thumbnail_url": "https://picsum.photos/seed/gopher/{width}/{height}",
			"viewer_count":  1234,
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
