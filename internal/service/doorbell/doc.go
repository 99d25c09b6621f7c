// Package doorbell implements the doorbell state controller.
//
// A single goroutine (Controller.Run) owns the lock state, the pending ring
// and its decision timer. Button presses and timer fires are posted to one
// event queue and applied through a phase/event dispatch table, so no state
// is ever touched from a timer goroutine.
package doorbell
