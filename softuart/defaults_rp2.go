//go:build rp2040 || rp2350

package softuart

// Pico debug-header wiring: UART0 TX on GP0, RX on GP1.
const (
	DefaultBaud  = 115200
	DefaultRXPin = 1
	DefaultTXPin = 0
)
