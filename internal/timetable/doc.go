// Package timetable resolves which schedule variant governs a route on a calendar day and
// projects its departures against a reference instant.
//
// Every function here is a pure function of its arguments. Nothing is cached and no input
// is mutated, so callers may invoke them concurrently and as often as they re-render.
//
// Countdowns round partial minutes up: a departure 30 seconds away reads "1 min".
package timetable
