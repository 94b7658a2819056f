//go:build !windows

package util

// IsRunFromGUI reports whether the binary was started from a file manager
// rather than a shell. Always false off Windows.
func IsRunFromGUI() bool {
	return false
}
