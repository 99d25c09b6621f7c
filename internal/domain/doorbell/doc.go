// Package doorbell contains the core value types of the doorbell:
// lock state, controller phase, events, display status and the
// Snapshot that front-ends render, with Clone helpers so the
// controller's state never leaks by reference.
package doorbell
