// Package example holds a minimal type used to check that the test tooling
// picks up and runs unit tests.
package example

// Pair holds two operands.
type Pair struct {
	A float64
	B float64
}

// Sum returns A + B.
func (p Pair) Sum() float64 {
	return p.A + p.B
}

// Multiply returns A * B.
func (p Pair) Multiply() float64 {
	return p.A * p.B
}
