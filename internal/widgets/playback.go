package widgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

// PlaybackSource reads now-playing state and playback devices.
type PlaybackSource interface {
	CurrentPlayback(ctx context.Context) (source.PlaybackState, error)
	Devices(ctx context.Context) ([]source.Device, error)
}

// PlaybackResult is what one playback cycle observed.
type PlaybackResult struct {
	// Known reports whether the now-playing read succeeded.
	Known bool

	// Playing is the observed play state. Only meaningful when Known.
	Playing bool
}

// Playback renders the now-playing card and the device selector.
type Playback struct {
	base
	src    PlaybackSource
	labels Labels
}

// NewPlayback creates a playback widget.
func NewPlayback(r view.Renderer, src PlaybackSource, labels Labels, logger *slog.Logger) *Playback {
	return &Playback{base: newBase(r, logger), src: src, labels: labels}
}

// Cycle refreshes the playback widget.
func (p *Playback) Cycle(ctx context.Context) error {
	_, err := p.Refresh(ctx)
	return err
}

// Refresh reads now-playing state and devices concurrently and renders
// whichever reads succeeded. A failed read leaves the fields it owns
// untouched; the returned error joins both read errors.
func (p *Playback) Refresh(ctx context.Context) (PlaybackResult, error) {
	var (
		wg         sync.WaitGroup
		state      source.PlaybackState
		devices    []source.Device
		stateErr   error
		devicesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		state, stateErr = p.src.CurrentPlayback(ctx)
	}()
	go func() {
		defer wg.Done()
		devices, devicesErr = p.src.Devices(ctx)
	}()
	wg.Wait()

	if stateErr != nil && devicesErr != nil {
		return PlaybackResult{}, errors.Join(
			fmt.Errorf("now playing: %w", stateErr),
			fmt.Errorf("devices: %w", devicesErr),
		)
	}

	p.render("playback", func(v view.View) error {
		var errs []error
		if stateErr == nil {
			errs = append(errs, RenderTrack(v, state, p.labels))
		}
		if devicesErr == nil {
			errs = append(errs, RenderDevices(v, devices, p.labels))
		}
		return errors.Join(errs...)
	})

	var result PlaybackResult
	if stateErr != nil {
		return result, fmt.Errorf("now playing: %w", stateErr)
	}
	result = PlaybackResult{Known: true, Playing: state.IsPlaying}
	if devicesErr != nil {
		return result, fmt.Errorf("devices: %w", devicesErr)
	}
	return result, nil
}

// RenderTrack writes the now-playing card.
//
// When nothing is playing the title shows the stopped label and the artwork
// shows the placeholder, whatever was rendered before.
func RenderTrack(v view.View, st source.PlaybackState, labels Labels) error {
	f := &fields{v: v}

	if !st.IsPlaying {
		f.text(ElementTrackTitle, labels.Stopped)
		f.text(ElementTrackArtist, "")
		f.image(ElementAlbumArt, PlaceholderImage)
		f.hidden(ElementAlbumArt, false)
		f.text(ElementPlayPause, labels.PlayIcon)
		return f.err()
	}

	art := st.ImageURL
	if art == "" {
		art = PlaceholderImage
	}
	f.text(ElementTrackTitle, st.Title)
	f.text(ElementTrackArtist, st.Artist)
	f.image(ElementAlbumArt, art)
	f.hidden(ElementAlbumArt, false)
	f.text(ElementPlayPause, labels.PauseIcon)
	return f.err()
}

// RenderDevices writes the active device indicator and rebuilds the device
// selector. Each entry carries a transfer action for its device ID.
func RenderDevices(v view.View, devices []source.Device, labels Labels) error {
	f := &fields{v: v}

	if active, ok := source.ActiveDevice(devices); ok {
		f.text(ElementDeviceInfo, active.Name)
	} else {
		f.text(ElementDeviceInfo, labels.NoDevice)
	}

	nodes := make([]view.Node, 0, len(devices))
	for _, d := range devices {
		class := "device"
		if d.IsActive {
			class = "device active"
		}
		nodes = append(nodes, view.Node{
			Tag:    "li",
			Class:  class,
			Text:   d.Name,
			Action: &view.Action{Kind: view.ActionTransfer, Target: d.ID},
		})
	}
	f.children(ElementDeviceList, nodes)
	return f.err()
}
