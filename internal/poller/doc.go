// Package poller provides the timer-driven task runner for HomeBoard.
//
// This package is internal to HomeBoard. It runs a fixed set of named tasks,
// each on its own ticker, and reports the outcome of every cycle on a
// results channel.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with timeout and size limits
//   - [Scheduler]: Runs tasks on independent timers with a global in-flight cap
//   - [Task]: A named, periodically executed unit of work
//   - [CycleResult]: Result of a single task execution
//
// Users of the homeboard library should not need to interact with this
// package directly. Configuration is done through the main homeboard package.
package poller
