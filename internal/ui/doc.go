// Package ui is the doorbell window: a bubbletea program showing the live
// video panel, a ticking clock, the lock status, the doorbell controls and
// a short event log.
//
// The model never mutates doorbell state itself. Key presses become
// controller submissions and the model re-renders from the snapshots the
// controller publishes.
package ui
