//go:build !(rp2040 || rp2350)

package softuart

// Host builds have no real pins; these only anchor connection-string
// parsing in tests.
const (
	DefaultBaud  = 115200
	DefaultRXPin = 1
	DefaultTXPin = 0
)
