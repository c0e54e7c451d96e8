package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/homeboard/internal/poller"
)

// Path names accepted by [Paths.Set].
const (
	PathCurrent   = "current"
	PathDevices   = "devices"
	PathCommands  = "commands"
	PathWeather   = "weather"
	PathCalendar  = "calendar"
	PathResources = "resources"
	PathStreams   = "streams"
)

// Paths holds the backend path of each endpoint.
type Paths struct {
	Current   string
	Devices   string
	Commands  string // prefix for /{action}, /volume and /transfer/{id}
	Weather   string
	Calendar  string
	Resources string
	Streams   string
}

// DefaultPaths returns the standard backend layout.
func DefaultPaths() Paths {
	return Paths{
		Current:   "/api/spotify/current",
		Devices:   "/api/spotify/devices",
		Commands:  "/api/spotify",
		Weather:   "/api/weather",
		Calendar:  "/api/calendar",
		Resources: "/api/resources",
		Streams:   "/api/twitch/followed",
	}
}

// Set overrides the path with the given name.
func (p *Paths) Set(name, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must start with /", path)
	}
	switch name {
	case PathCurrent:
		p.Current = path
	case PathDevices:
		p.Devices = path
	case PathCommands:
		p.Commands = strings.TrimSuffix(path, "/")
	case PathWeather:
		p.Weather = path
	case PathCalendar:
		p.Calendar = path
	case PathResources:
		p.Resources = path
	case PathStreams:
		p.Streams = path
	default:
		return fmt.Errorf("unknown path name %q", name)
	}
	return nil
}

// PlaybackActions lists the transport commands accepted by [Client.Command].
var PlaybackActions = []string{"toggle", "play", "pause", "next", "prev"}

// Config configures a [Client].
type Config struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds each request. Zero uses the poller default.
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string

	// Paths overrides the endpoint layout. Zero value uses DefaultPaths.
	Paths Paths
}

// Client reads dashboard data from the backend.
type Client struct {
	base    *url.URL
	http    *poller.Client
	timeout time.Duration
	headers map[string]string
	paths   Paths
}

// NewClient creates a backend [Client].
//
// Returns an error if the base URL is not an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("backend URL must have an http:// or https:// scheme")
	}
	if u.Host == "" {
		return nil, errors.New("backend URL must have a host")
	}

	// request paths are absolute and get appended to this prefix
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	paths := cfg.Paths
	if paths == (Paths{}) {
		paths = DefaultPaths()
	}

	return &Client{
		base:    u,
		http:    poller.NewClient(),
		timeout: cfg.Timeout,
		headers: cfg.Headers,
		paths:   paths,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

// CurrentPlayback reads the now-playing state.
func (c *Client) CurrentPlayback(ctx context.Context) (PlaybackState, error) {
	var st PlaybackState
	if err := c.getJSON(ctx, "playback", c.paths.Current, &st); err != nil {
		return PlaybackState{}, err
	}
	if st.Error != "" {
		return PlaybackState{}, &Error{Kind: KindBackend, Op: "playback", URL: c.resolve(c.paths.Current), Err: errors.New(st.Error)}
	}
	return st, nil
}

// Devices reads the list of playback devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.getJSON(ctx, "devices", c.paths.Devices, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Weather reads current conditions and the forecast.
func (c *Client) Weather(ctx context.Context) (WeatherReport, error) {
	var w WeatherReport
	if err := c.getJSON(ctx, "weather", c.paths.Weather, &w); err != nil {
		return WeatherReport{}, err
	}
	return w, nil
}

// Calendar reads upcoming events.
func (c *Client) Calendar(ctx context.Context) ([]CalendarEvent, error) {
	var events []CalendarEvent
	if err := c.getJSON(ctx, "calendar", c.paths.Calendar, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Resources reads a system resource snapshot.
func (c *Client) Resources(ctx context.Context) (ResourceSnapshot, error) {
	var r ResourceSnapshot
	if err := c.getJSON(ctx, "resources", c.paths.Resources, &r); err != nil {
		return ResourceSnapshot{}, err
	}
	return r, nil
}

// FollowedStreams reads the followed live streams.
//
// A well-formed JSON body that is not an array (the backend sends an
// object when the upstream call fails) is treated as no streams.
func (c *Client) FollowedStreams(ctx context.Context) ([]Stream, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "streams", c.paths.Streams, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Stream{}, nil
	}

	var streams []Stream
	if err := json.Unmarshal(trimmed, &streams); err != nil {
		return nil, &Error{Kind: KindParse, Op: "streams", URL: c.resolve(c.paths.Streams), Err: err}
	}
	return streams, nil
}

// Command sends a transport command (see [PlaybackActions]).
func (c *Client) Command(ctx context.Context, action string) error {
	valid := false
	for _, a := range PlaybackActions {
		if a == action {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown playback action %q", action)
	}
	return c.command(ctx, "command "+action, c.paths.Commands+"/"+action)
}

// SetVolume sets the playback volume in percent.
func (c *Client) SetVolume(ctx context.Context, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", value)
	}
	return c.command(ctx, "command volume", c.paths.Commands+"/volume?value="+strconv.Itoa(value))
}

// Transfer moves playback to the given device.
func (c *Client) Transfer(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id cannot be empty")
	}
	return c.command(ctx, "command transfer", c.paths.Commands+"/transfer/"+url.PathEscape(deviceID))
}

// command issues a fire-and-forget GET. The body is only inspected for an
// "error" field.
func (c *Client) command(ctx context.Context, op, path string) error {
	target := c.resolve(path)
	resp := c.http.Fetch(ctx, poller.Request{URL: target, Headers: c.headers, Timeout: c.timeout})
	if err := networkError(op, target, resp); err != nil {
		return err
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.Body, &body) == nil && body.Error != "" {
		return &Error{Kind: KindBackend, Op: op, URL: target, Err: errors.New(body.Error)}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	target := c.resolve(path)
	resp := c.http.Fetch(ctx, poller.Request{URL: target, Headers: c.headers, Timeout: c.timeout})
	if err := networkError(op, target, resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &Error{Kind: KindParse, Op: op, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// resolve joins path (which may carry a query) onto the base URL, keeping
// any path prefix the base URL has.
func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return strings.TrimSuffix(c.base.String(), "/") + path
	}
	u := *c.base
	u.Path = c.base.Path + ref.Path
	u.RawPath = c.base.EscapedPath() + ref.EscapedPath()
	u.RawQuery = ref.RawQuery
	return u.String()
}

func networkError(op, target string, resp poller.Response) error {
	if resp.Error != nil {
		return &Error{Kind: KindNetwork, Op: op, URL: target, Err: resp.Error}
	}
	if !resp.OK() {
		return &Error{Kind: KindNetwork, Op: op, URL: target, StatusCode: resp.StatusCode, Err: errors.New("unexpected status")}
	}
	return nil
}
