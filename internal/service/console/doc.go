// Package console is the headless doorbell front-end: it reads commands
// line by line and prints every state change, driving the same controller
// as the window.
package console
