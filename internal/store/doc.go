// Package store provides storage and pub/sub functionality for page element
// state.
//
// This package is internal to HomeBoard and holds the server-side copy of
// every dashboard element (text, image source, classes, style and child
// nodes). Widgets write to it through render transactions; the dashboard
// server and the MQTT publisher read snapshots and subscribe to updates.
//
// The main components are:
//
//   - [Store]: Interface defining render, snapshot and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Element]: Storage representation of a single page element
//   - [Update]: The set of elements changed by one render
//
// The store is designed for concurrent access with proper synchronization.
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss updates rather than block the system).
package store
