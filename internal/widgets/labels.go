package widgets

// Labels holds the user-visible strings rendered by widgets.
type Labels struct {
	Stopped   string
	NoDevice  string
	AllDay    string
	NoEvents  string
	NoStreams string
	PlayIcon  string
	PauseIcon string

	// Viewers is a fmt format receiving the viewer count.
	Viewers string
}

// DefaultLabels returns the built-in English labels.
func DefaultLabels() Labels {
	return Labels{
		Stopped:   "Spotify stopped",
		NoDevice:  "No active device",
		AllDay:    "All day",
		NoEvents:  "No upcoming events",
		NoStreams: "No one is live",
		PlayIcon:  "▶",
		PauseIcon: "⏸",
		Viewers:   "%d viewers",
	}
}

// Merge returns l with every empty field taken from base.
func (l Labels) Merge(base Labels) Labels {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Labels{
		Stopped:   pick(l.Stopped, base.Stopped),
		NoDevice:  pick(l.NoDevice, base.NoDevice),
		AllDay:    pick(l.AllDay, base.AllDay),
		NoEvents:  pick(l.NoEvents, base.NoEvents),
		NoStreams: pick(l.NoStreams, base.NoStreams),
		PlayIcon:  pick(l.PlayIcon, base.PlayIcon),
		PauseIcon: pick(l.PauseIcon, base.PauseIcon),
		Viewers:   pick(l.Viewers, base.Viewers),
	}
}
