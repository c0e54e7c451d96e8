package dashboard

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssets(t *testing.T) {
	for _, name := range []string{"assets/index.html", "assets/static/placeholder.svg"} {
		if _, err := fs.Stat(Assets, name); err != nil {
			t.Errorf("Stat(%q) error = %v", name, err)
		}
	}
}

func TestIndex_KeepsMarkupOfUnrenderedElements(t *testing.T) {
	page, err := fs.ReadFile(Assets, "assets/index.html")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	html := string(page)

	if !strings.Contains(html, `id="play-pause-btn" data-command="toggle" title="Play/Pause">&#x25B6;</button>`) {
		t.Error("play-pause-btn lost its default icon")
	}
	if !strings.Contains(html, "if (!el || !state.rendered) return;") {
		t.Error("apply() writes elements that were never rendered")
	}
}
