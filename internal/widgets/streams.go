package widgets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

// Default avatar size substituted into stream thumbnail templates.
const (
	DefaultThumbnailWidth  = 160
	DefaultThumbnailHeight = 90
)

// StreamSource reads followed live streams.
type StreamSource interface {
	FollowedStreams(ctx context.Context) ([]source.Stream, error)
}

// Streams renders the followed live streams list.
type Streams struct {
	base
	src           StreamSource
	labels        Labels
	width, height int
}

// NewStreams creates a streams widget. Non-positive sizes use the defaults.
func NewStreams(r view.Renderer, src StreamSource, labels Labels, width, height int, logger *slog.Logger) *Streams {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	if height <= 0 {
		height = DefaultThumbnailHeight
	}
	return &Streams{base: newBase(r, logger), src: src, labels: labels, width: width, height: height}
}

// Cycle fetches streams and renders them.
func (s *Streams) Cycle(ctx context.Context) error {
	streams, err := s.src.FollowedStreams(ctx)
	if err != nil {
		return err
	}
	s.render("streams", func(v view.View) error {
		return RenderStreams(v, streams, s.labels, s.width, s.height)
	})
	return nil
}

// RenderStreams replaces the streams list. An empty list renders the
// placeholder; otherwise every entry opens its channel when clicked.
func RenderStreams(v view.View, streams []source.Stream, labels Labels, width, height int) error {
	if len(streams) == 0 {
		return v.ReplaceChildren(ElementTwitchList, []view.Node{placeholder(labels.NoStreams)})
	}

	nodes := make([]view.Node, 0, len(streams))
	for _, st := range streams {
		nodes = append(nodes, view.Node{
			Tag:    "li",
			Class:  "stream",
			Action: &view.Action{Kind: view.ActionOpen, Target: st.ChannelURL()},
			Children: []view.Node{
				{Tag: "img", Class: "stream-avatar", Src: st.Thumbnail(width, height)},
				{Tag: "span", Class: "stream-name", Text: st.UserName},
				{Tag: "span", Class: "stream-title", Text: st.Title},
				{Tag: "span", Class: "stream-viewers", Text: fmt.Sprintf(labels.Viewers, st.ViewerCount)},
			},
		})
	}
	return v.ReplaceChildren(ElementTwitchList, nodes)
}
