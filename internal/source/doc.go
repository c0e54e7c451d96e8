// Package source is the typed client for the dashboard backend.
//
// The backend exposes one JSON endpoint per data source (playback, devices,
// weather, calendar, resources, followed streams) plus fire-and-forget
// playback commands. This package decodes those payloads into transient view
// models and classifies failures as [KindNetwork], [KindParse] or
// [KindBackend] via [*Error].
//
// [LocalResources] is an alternative resource source that samples the host
// directly instead of asking the backend.
package source
