package homeboard

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBackend serves canned responses for every backend endpoint.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/api/spotify/current": `{"is_playing":true,"title":"X","artist":"Y","image_url":"/img.png"}`,
		"/api/spotify/devices": `[{"id":"d1","name":"Speaker","is_active":true}]`,
		"/api/spotify/toggle":  `{"ok":true}`,
		"/api/weather":         `{"current":{"temp":20,"pressure":1010,"humidity":40,"icon":"01d"},"forecast":[]}`,
		"/api/calendar":        `[]`,
		"/api/resources":       `{"cpu":10,"ram":20,"gpu_active":false}`,
		"/api/twitch/followed": `[]`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()
	return ln.Addr().(*net.TCPAddr).Port
}
