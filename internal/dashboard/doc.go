// Package dashboard is the interactive terminal client for the monitoring
// backend.
//
// A single Bubble Tea event loop owns all view state. Backend requests run
// as commands and report back as messages, so requests of different kinds
// overlap freely and same-kind requests resolve last-response-wins. The
// only timers are the live ping tick (armed while the backend reports
// monitoring) and the radar sweep (armed while the radar is visible); both
// are tick chains keyed by a generation number, so closing their gate ends
// the chain at its next firing.
//
// Push events reach the loop through a Bridge, which forwards them with
// Program.Send and merges into the overlay badge at render time.
package dashboard
