//go:build !jsonwiredebug

package jsonwire

// invariant is compiled out unless the jsonwiredebug build tag is set. It
// guards checks on trusted inputs that untrusted paths perform at runtime.
func invariant(bool, string) {}
