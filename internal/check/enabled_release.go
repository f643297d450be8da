//go:build release

package check

// Enabled reports whether violations panic.
const Enabled = false
