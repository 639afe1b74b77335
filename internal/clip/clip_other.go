//go:build !darwin && !windows && !linux

package clip

// New returns an in-memory clipboard; this platform has no system backend.
func New() Backend { return NewMemory() }
