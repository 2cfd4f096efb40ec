// Package softuart is a bit-banged asynchronous serial engine: byte-level
// transmit and receive over arbitrary GPIO pins, driven purely by timed pin
// toggling against a free-running hardware counter. It carries no framing
// options beyond 8N1 and no receive timeout; a receiver that loses sync
// returns garbage silently.
package softuart

import (
	"sync"

	"softio-go/errcode"
	"softio-go/x/mathx"
)

// Pull selects the input bias for a configured pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is one GPIO line. Implementations must make Set/Get cheap: both sit
// inside loops whose timing budget is a fraction of a bit period.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies pins by the platform's numbering scheme.
type PinFactory interface {
	ByNumber(n int) (Pin, bool)
}

// Clock is a free-running counter used as the bit timebase.
// Count wraps; WaitUntil must be wrap-safe and return promptly once the
// counter passes target (within a few ticks, not a scheduler quantum).
type Clock interface {
	Count() uint32
	WaitUntil(target uint32)
	Hz() uint32
}

// HW bundles the platform resources a channel needs. On rp2040 builds use
// Hardware(); tests inject fakes.
type HW struct {
	Pins  PinFactory
	Clock Clock
}

// Channel is one open serial channel. It is created by Open and lives for
// the duration of the handle. The embedded mutex is advisory: PutByte and
// GetByte do not take it; byte-stream consumers (see package chardev)
// serialize access around them.
type Channel struct {
	mu sync.Mutex

	rx, tx Pin
	clock  Clock
	port   hwPort // non-nil when a hardware UART covers the pin pair

	baud     uint32
	bitTicks uint32 // clock ticks per bit period

	nonblock bool
}

// Open parses an optional "baud[,rxpin[,txpin]]" connection string; missing
// fields fall back to the platform defaults. The bit period is derived from
// the clock frequency. Open fails only on a malformed string or an unknown
// pin number; with platform defaults it always succeeds.
func Open(hw HW, conn string) (*Channel, error) {
	baud, rxN, txN, err := parseConn(conn)
	if err != nil {
		return nil, err
	}
	rx, ok := hw.Pins.ByNumber(rxN)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "softuart.Open", Msg: "rx pin"}
	}
	tx, ok := hw.Pins.ByNumber(txN)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "softuart.Open", Msg: "tx pin"}
	}
	c := &Channel{
		rx:       rx,
		tx:       tx,
		clock:    hw.Clock,
		baud:     baud,
		bitTicks: mathx.RoundDiv(hw.Clock.Hz(), baud),
		port:     openHardPort(rxN, txN, baud),
	}
	return c, nil
}

// SetNonblocking switches GetByte between blocking for a start edge and
// returning errcode.NoData when the line is idle.
func (c *Channel) SetNonblocking(v bool) { c.nonblock = v }

// Baud reports the configured baud rate.
func (c *Channel) Baud() uint32 { return c.baud }

// BitTicks reports the derived bit period in clock ticks.
func (c *Channel) BitTicks() uint32 { return c.bitTicks }

// Lock and Unlock expose the channel's advisory serialization lock.
// The byte routines themselves never take it.
func (c *Channel) Lock()   { c.mu.Lock() }
func (c *Channel) Unlock() { c.mu.Unlock() }

// PutByte transmits one byte, LSB first, framed 1 start + 8 data + 1 stop.
// It cannot fail once the pin is configured; it returns the byte written.
//
// The frame is the 10-bit value (b|0x100)<<1: bit 0 is the start bit (low),
// bits 1-8 the data, bit 9 the stop bit (high). Each iteration's budget is
// exactly one bit period: no allocation, no calls besides the clock wait.
func (c *Channel) PutByte(b byte) byte {
	if c.port != nil {
		_ = c.port.WriteByte(b)
		return b
	}
	tx := c.tx
	tx.ConfigureOutput(true) // line idles high

	frame := (uint32(b) | 0x100) << 1
	bit := c.bitTicks
	target := c.clock.Count() + bit
	for i := 0; i < 10; i++ {
		c.clock.WaitUntil(target)
		target += bit
		tx.Set(frame&1 != 0)
		frame >>= 1
	}
	// TX stays a driven-high output after the stop bit. Releasing the pin
	// leaves it floating on some boards, which shows up as line garbage.
	return b
}

// GetByte receives one byte. In blocking mode it busy-waits for a start
// edge; in non-blocking mode it returns errcode.NoData if the line is idle.
// There is no timeout and no framing-error detection.
func (c *Channel) GetByte() (byte, error) {
	if c.port != nil {
		return c.getByteHard()
	}
	rx := c.rx
	rx.ConfigureInput(PullNone)

	// Start bit: line transitions low.
	if c.nonblock {
		if rx.Get() {
			return 0, errcode.NoData
		}
	} else {
		for rx.Get() {
		}
	}

	// Sync half a bit in, then sample at bit centers. The accumulator
	// shifts each sample in at the top, so after 8 samples the first
	// (LSB-first on the wire) has landed at bit 0.
	bit := c.bitTicks
	target := c.clock.Count() + (bit >> 1) + bit
	var v byte
	for i := 0; i < 8; i++ {
		c.clock.WaitUntil(target)
		target += bit
		var s byte
		if rx.Get() {
			s = 1
		}
		v = s<<7 | v>>1
	}

	// Wait for the stop bit to bring the line high again.
	for !rx.Get() {
	}
	return v, nil
}

func (c *Channel) getByteHard() (byte, error) {
	if c.nonblock {
		if c.port.Buffered() == 0 {
			return 0, errcode.NoData
		}
	} else {
		for c.port.Buffered() == 0 {
		}
	}
	return c.port.ReadByte()
}

// Close drives TX high as an output and leaves it that way, the same
// pin-state cleanup the channel performs after every transmitted byte.
func (c *Channel) Close() error {
	if c.port == nil {
		return c.tx.ConfigureOutput(true)
	}
	return nil
}

// hwPort is a hardware UART covering the requested pin pair, used instead
// of bit-banging where the platform has one (see hw_rp2.go).
type hwPort interface {
	WriteByte(b byte) error
	ReadByte() (byte, error)
	Buffered() int
}
