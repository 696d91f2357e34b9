//go:build jsonwiredebug

package jsonwire

func invariant(cond bool, msg string) {
	if !cond {
		panic("jsonwire: invariant violated: " + msg)
	}
}
