// Package event produces collision events for the viewer and lets the user
// step through them.
//
// Responsibilities: synthetic event generation from a seeded source, event
// navigation (previous, next, random) over an optional selection, and the
// kinematics table printed for the current event.
// Key types: Event, Generator, History.
package event
