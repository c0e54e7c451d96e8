package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// newTestClient serves the given routes and returns a client pointed at them.
func newTestClient(t *testing.T, routes map[string]string) (*Client, *[]string) {
	t.Helper()

	var (
		mu   sync.Mutex
		hits []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.RequestURI())
		mu.Unlock()
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{BaseURL: ts.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c, &hits
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{"no scheme", "localhost:8000", "scheme"},
		{"ftp", "ftp://example.com", "scheme"},
		{"no host", "http://", "host"},
		{"bad", "http://[::1", "invalid backend URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Config{BaseURL: tt.baseURL})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewClient(%q) error = %v, want containing %q", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestClient_CurrentPlayback(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/spotify/current": `{"is_playing":true,"title":"X","artist":"Y","image_url":"/img.png"}`,
	})

	st, err := c.CurrentPlayback(context.Background())
	if err != nil {
		t.Fatalf("CurrentPlayback() error = %v", err)
	}
	if !st.IsPlaying || st.Title != "X" || st.Artist != "Y" || st.ImageURL != "/img.png" {
		t.Errorf("CurrentPlayback() = %+v", st)
	}
}

func TestClient_CurrentPlaybackBackendError(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/spotify/current": `{"error":"token expired"}`,
	})

	_, err := c.CurrentPlayback(context.Background())
	if !IsKind(err, KindBackend) {
		t.Fatalf("error = %v, want backend failure", err)
	}
	if !strings.Contains(err.Error(), "token expired") {
		t.Errorf("error = %v, want backend message", err)
	}
}

func TestClient_Devices(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/spotify/devices": `[{"id":"d1","name":"Speaker","is_active":true},{"id":"d2","name":"Phone","is_active":false}]`,
	})

	devices, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("len(Devices()) = %d, want 2", len(devices))
	}
	active, ok := ActiveDevice(devices)
	if !ok || active.Name != "Speaker" {
		t.Errorf("ActiveDevice() = %+v, %v, want Speaker", active, ok)
	}
}

func TestClient_Weather(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/weather": `{"current":{"temp":21.6,"pressure":1013,"humidity":40,"icon":"01d"},
			"forecast":[{"dt":1700000000,"main":{"temp":18.2},"weather":[{"icon":"02d"}]},{"dt":1700010800,"main":{"temp":15},"weather":[]}]}`,
	})

	w, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("Weather() error = %v", err)
	}
	if w.Current.Temp != 21.6 || w.Current.Icon != "01d" {
		t.Errorf("Current = %+v", w.Current)
	}
	if len(w.Forecast) != 2 {
		t.Fatalf("len(Forecast) = %d, want 2", len(w.Forecast))
	}
	if w.Forecast[0].Icon() != "02d" || w.Forecast[1].Icon() != "" {
		t.Errorf("Forecast icons = %q, %q", w.Forecast[0].Icon(), w.Forecast[1].Icon())
	}
	if !w.Forecast[0].Time().Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Forecast[0].Time() = %v", w.Forecast[0].Time())
	}
}

func TestClient_Calendar(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/calendar": `[{"start":{"dateTime":"2026-10-18T09:30:00+09:00"},"summary":"Standup"},{"start":{"date":"2026-10-19"},"summary":"Holiday"}]`,
	})

	events, err := c.Calendar(context.Background())
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if len(events) != 2 || events[0].Summary != "Standup" || events[1].Start.Date != "2026-10-19" {
		t.Errorf("Calendar() = %+v", events)
	}
}

func TestClient_Resources(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/api/resources": `{"cpu":12.5,"ram":48,"gpu_active":true,"gpu":30,"gpu_temp":82}`,
	})

	r, err := c.Resources(context.Background())
	if err != nil {
		t.Fatalf("Resources() error = %v", err)
	}
	if r.CPU != 12.5 || r.RAM != 48 || !r.GPUActive {
		t.Errorf("Resources() = %+v", r)
	}
	if r.GPU == nil || *r.GPU != 30 || r.GPUTemp == nil || *r.GPUTemp != 82 {
		t.Errorf("GPU fields = %v, %v", r.GPU, r.GPUTemp)
	}
}

func TestClient_FollowedStreams(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{"array", `[{"user_name":"Alice","user_login":"alice","title":"t","thumbnail_url":"u","viewer_count":5}]`, 1},
		{"empty array", `[]`, 0},
		{"object", `{"error":"unauthorized"}`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, map[string]string{"/api/twitch/followed": tt.body})

			streams, err := c.FollowedStreams(context.Background())
			if err != nil {
				t.Fatalf("FollowedStreams() error = %v", err)
			}
			if streams == nil {
				t.Fatal("FollowedStreams() = nil, want non-nil slice")
			}
			if len(streams) != tt.wantLen {
				t.Errorf("len(FollowedStreams()) = %d, want %d", len(streams), tt.wantLen)
			}
		})
	}
}

func TestClient_ParseFailure(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"/api/weather": `{"current":`})

	_, err := c.Weather(context.Background())
	if !IsKind(err, KindParse) {
		t.Errorf("Weather() error = %v, want parse failure", err)
	}
}

func TestClient_NetworkFailureOnStatus(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{})

	_, err := c.Calendar(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Fatalf("Calendar() error = %v, want network failure", err)
	}
	var se *Error
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %v, want 404", se)
	}
}

func TestClient_NetworkFailureOnTransport(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = c.Devices(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Errorf("Devices() error = %v, want network failure", err)
	}
}

func TestClient_Commands(t *testing.T) {
	c, hits := newTestClient(t, map[string]string{
		"/api/spotify/toggle":       `{"status":"paused"}`,
		"/api/spotify/next":         `{"status":"success"}`,
		"/api/spotify/volume":       `{"status":"success","volume":30}`,
		"/api/spotify/transfer/d 1": `{"status":"success"}`,
		"/api/spotify/pause":        `{"error":"Restriction violated"}`,
	})
	ctx := context.Background()

	if err := c.Command(ctx, "toggle"); err != nil {
		t.Errorf("Command(toggle) error = %v", err)
	}
	if err := c.Command(ctx, "next"); err != nil {
		t.Errorf("Command(next) error = %v", err)
	}
	if err := c.SetVolume(ctx, 30); err != nil {
		t.Errorf("SetVolume(30) error = %v", err)
	}
	if err := c.Transfer(ctx, "d 1"); err != nil {
		t.Errorf("Transfer(d 1) error = %v", err)
	}
	if err := c.Command(ctx, "pause"); !IsKind(err, KindBackend) {
		t.Errorf("Command(pause) error = %v, want backend failure", err)
	}

	want := []string{
		"/api/spotify/toggle",
		"/api/spotify/next",
		"/api/spotify/volume?value=30",
		"/api/spotify/transfer/d%201",
		"/api/spotify/pause",
	}
	if len(*hits) != len(want) {
		t.Fatalf("hits = %v, want %v", *hits, want)
	}
	for i := range want {
		if (*hits)[i] != want[i] {
			t.Errorf("hit[%d] = %q, want %q", i, (*hits)[i], want[i])
		}
	}
}

func TestClient_CommandValidation(t *testing.T) {
	c, hits := newTestClient(t, map[string]string{})
	ctx := context.Background()

	if err := c.Command(ctx, "shuffle"); err == nil {
		t.Error("Command(shuffle) error = nil, want unknown action")
	}
	if err := c.SetVolume(ctx, 101); err == nil {
		t.Error("SetVolume(101) error = nil")
	}
	if err := c.SetVolume(ctx, -1); err == nil {
		t.Error("SetVolume(-1) error = nil")
	}
	if err := c.Transfer(ctx, ""); err == nil {
		t.Error("Transfer(\"\") error = nil")
	}
	if len(*hits) != 0 {
		t.Errorf("invalid commands reached the backend: %v", *hits)
	}
}

func TestClient_CustomPathsAndHeaders(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Token")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	paths := DefaultPaths()
	if err := paths.Set(PathCalendar, "/v2/events"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	c, err := NewClient(Config{BaseURL: ts.URL, Headers: map[string]string{"X-Token": "s3cret"}, Paths: paths})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := c.Calendar(context.Background()); err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if gotPath != "/v2/events" {
		t.Errorf("path = %q, want /v2/events", gotPath)
	}
	if gotAuth != "s3cret" {
		t.Errorf("X-Token = %q, want s3cret", gotAuth)
	}
}

func TestPaths_Set(t *testing.T) {
	p := DefaultPaths()
	if err := p.Set("nope", "/x"); err == nil {
		t.Error("Set(unknown) error = nil")
	}
	if err := p.Set(PathWeather, "weather"); err == nil {
		t.Error("Set(relative) error = nil")
	}
	if err := p.Set(PathCommands, "/api/player/"); err != nil {
		t.Fatalf("Set(commands) error = %v", err)
	}
	if p.Commands != "/api/player" {
		t.Errorf("Commands = %q, want trailing slash trimmed", p.Commands)
	}
}

func TestClient_BaseURLPathPrefix(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.EscapedPath())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_playing":false}`))
	}))
	defer ts.Close()

	tests := []struct {
		name    string
		baseURL string
	}{
		{"prefix", ts.URL + "/dash"},
		{"prefix with slash", ts.URL + "/dash/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			seen = nil
			mu.Unlock()

			c, err := NewClient(Config{BaseURL: tt.baseURL, Timeout: 2 * time.Second})
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			defer c.Close()

			if _, err := c.CurrentPlayback(context.Background()); err != nil {
				t.Fatalf("CurrentPlayback() error = %v", err)
			}
			if err := c.Transfer(context.Background(), "a/b"); err != nil {
				t.Fatalf("Transfer() error = %v", err)
			}
			if err := c.SetVolume(context.Background(), 40); err != nil {
				t.Fatalf("SetVolume() error = %v", err)
			}

			want := []string{
				"/dash/api/spotify/current",
				"/dash/api/spotify/transfer/a%2Fb",
				"/dash/api/spotify/volume",
			}
			mu.Lock()
			defer mu.Unlock()
			if len(seen) != len(want) {
				t.Fatalf("requests = %v, want %v", seen, want)
			}
			for i := range want {
				if seen[i] != want[i] {
					t.Errorf("request %d path = %q, want %q", i, seen[i], want[i])
				}
			}
		})
	}
}
