package widgets

// Element IDs in the dashboard page.
const (
	ElementClock        = "clock"
	ElementAlbumArt     = "album-art"
	ElementTrackTitle   = "track-title"
	ElementTrackArtist  = "track-artist"
	ElementDeviceInfo   = "device-info"
	ElementDeviceList   = "device-list"
	ElementPlayPause    = "play-pause-btn"
	ElementTempCurrent  = "temp-curr"
	ElementPressure     = "pressure"
	ElementHumidity     = "humidity"
	ElementWeatherIcon  = "weather-icon"
	ElementForecastList = "forecast-list"
	ElementCalendar     = "calendar-events"
	ElementCPUBar       = "cpu-bar"
	ElementCPUText      = "cpu-text"
	ElementRAMBar       = "ram-bar"
	ElementRAMText      = "ram-text"
	ElementGPUBar       = "gpu-bar"
	ElementGPUText      = "gpu-text"
	ElementGPUTempText  = "gpu-temp-text"
	ElementTwitchList   = "twitch-list"
)

// Elements returns every element ID the widgets write to.
func Elements() []string {
	return []string{
		ElementClock,
		ElementAlbumArt, ElementTrackTitle, ElementTrackArtist,
		ElementDeviceInfo, ElementDeviceList, ElementPlayPause,
		ElementTempCurrent, ElementPressure, ElementHumidity,
		ElementWeatherIcon, ElementForecastList,
		ElementCalendar,
		ElementCPUBar, ElementCPUText, ElementRAMBar, ElementRAMText,
		ElementGPUBar, ElementGPUText, ElementGPUTempText,
		ElementTwitchList,
	}
}

// PlaceholderImage is the artwork shown when nothing is playing.
const PlaceholderImage = "/static/placeholder.svg"

// WarningClass marks the GPU bar while the GPU runs hot.
const WarningClass = "warning"
