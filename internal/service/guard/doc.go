// Package guard keeps a single doorbell process per machine, since the
// camera device cannot be shared.
package guard
