package widgets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

// DefaultGPUWarning is the GPU temperature (°C) at which the GPU bar gets
// the warning class.
const DefaultGPUWarning = 80.0

// ResourceSource reads a system resource snapshot.
type ResourceSource interface {
	Resources(ctx context.Context) (source.ResourceSnapshot, error)
}

// Resources renders the CPU, RAM and GPU gauges.
type Resources struct {
	base
	src    ResourceSource
	warnAt float64
}

// NewResources creates a resources widget. A non-positive warnAt uses
// [DefaultGPUWarning].
func NewResources(r view.Renderer, src ResourceSource, warnAt float64, logger *slog.Logger) *Resources {
	if warnAt <= 0 {
		warnAt = DefaultGPUWarning
	}
	return &Resources{base: newBase(r, logger), src: src, warnAt: warnAt}
}

// Cycle fetches a snapshot and renders it.
func (r *Resources) Cycle(ctx context.Context) error {
	snap, err := r.src.Resources(ctx)
	if err != nil {
		return err
	}
	r.render("resources", func(v view.View) error {
		return RenderResources(v, snap, r.warnAt)
	})
	return nil
}

// RenderResources updates the CPU and RAM gauges. GPU elements are written
// only when the snapshot reports GPU telemetry as active; the warning class
// on the GPU bar then tracks whether the temperature is at or above warnAt.
func RenderResources(v view.View, snap source.ResourceSnapshot, warnAt float64) error {
	f := &fields{v: v}

	gauge(f, ElementCPUBar, ElementCPUText, "CPU", snap.CPU)
	gauge(f, ElementRAMBar, ElementRAMText, "RAM", snap.RAM)

	if !snap.GPUActive {
		return f.err()
	}

	if snap.GPU != nil {
		gauge(f, ElementGPUBar, ElementGPUText, "GPU", *snap.GPU)
	}
	if snap.GPUTemp != nil {
		temp := *snap.GPUTemp
		f.text(ElementGPUTempText, fmt.Sprintf("%d°C", roundInt(temp)))
		f.class(ElementGPUBar, WarningClass, temp >= warnAt)
	}
	return f.err()
}

func gauge(f *fields, barID, textID, label string, pct float64) {
	p := roundInt(clamp(pct))
	f.style(barID, "width", fmt.Sprintf("%d%%", p))
	f.text(textID, fmt.Sprintf("%s %d%%", label, p))
}

func clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
