package chardev

import (
	"testing"

	"softio-go/errcode"
	"softio-go/softuart"
)

// Fakes mirroring the softuart simulation: a counter that advances on
// waits and pin polls, a recording tx pin and a waveform rx pin.

const (
	simHz  = 1_000_000
	simBit = 100 // ticks per bit at baud 10000
)

type simClock struct{ count uint32 }

func (c *simClock) Hz() uint32    { return simHz }
func (c *simClock) Count() uint32 { return c.count }
func (c *simClock) WaitUntil(target uint32) {
	if int32(target-c.count) > 0 {
		c.count = target
	}
}

type edge struct {
	at    uint32
	level bool
}

func levelAt(edges []edge, count uint32) bool {
	level := true
	for _, e := range edges {
		if e.at > count {
			break
		}
		level = e.level
	}
	return level
}

type recPin struct {
	clk   *simClock
	n     int
	level bool
	out   bool
	edges []edge
}

func (p *recPin) ConfigureInput(softuart.Pull) error { p.out = false; return nil }
func (p *recPin) ConfigureOutput(initial bool) error {
	p.out = true
	p.Set(initial)
	return nil
}
func (p *recPin) Set(level bool) {
	p.level = level
	p.edges = append(p.edges, edge{at: p.clk.count, level: level})
}
func (p *recPin) Get() bool   { return p.level }
func (p *recPin) Number() int { return p.n }

type wavePin struct {
	clk   *simClock
	n     int
	edges []edge
}

func (p *wavePin) ConfigureInput(softuart.Pull) error { return nil }
func (p *wavePin) ConfigureOutput(initial bool) error { return nil }
func (p *wavePin) Set(bool)                           {}
func (p *wavePin) Get() bool {
	level := levelAt(p.edges, p.clk.count)
	p.clk.count++
	return level
}
func (p *wavePin) Number() int { return p.n }

type fakePins map[int]softuart.Pin

func (f fakePins) ByNumber(n int) (softuart.Pin, bool) {
	p, ok := f[n]
	return p, ok
}

// appendFrame adds one 8N1 frame for b starting at t0 and returns the tick
// just past its stop bit.
func appendFrame(edges []edge, t0 uint32, b byte) ([]edge, uint32) {
	edges = append(edges, edge{at: t0, level: false}) // start
	for i := 0; i < 8; i++ {
		edges = append(edges, edge{at: t0 + uint32(i+1)*simBit, level: b&(1<<i) != 0})
	}
	edges = append(edges, edge{at: t0 + 9*simBit, level: true}) // stop
	return edges, t0 + 10*simBit
}

func newSerialHW(rx, tx softuart.Pin, clk *simClock) softuart.HW {
	return softuart.HW{Pins: fakePins{0: tx, 1: rx}, Clock: clk}
}

func TestOpenDispatchesByPrefix(t *testing.T) {
	clk := &simClock{}
	Register(NewSerialDriver(newSerialHW(&wavePin{clk: clk, n: 1}, &recPin{clk: clk, n: 0}, clk)))

	dev, err := Open("SSER:10000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()
	if !dev.Terminal() {
		t.Errorf("serial device not marked as a terminal")
	}

	if _, err := Open("NVME:0"); errcode.Of(err) != errcode.UnknownDev {
		t.Errorf("unknown prefix = %v, want UnknownDev", err)
	}
	if _, err := Open("SSER:junk"); errcode.Of(err) != errcode.InvalidConn {
		t.Errorf("bad connection string = %v, want InvalidConn", err)
	}
}

func TestSerialWriteBangsFrames(t *testing.T) {
	clk := &simClock{}
	tx := &recPin{clk: clk, n: 0}
	Register(NewSerialDriver(newSerialHW(&wavePin{clk: clk, n: 1}, tx, clk)))

	dev, err := Open("SSER:10000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	msg := []byte("ok")
	n, err := dev.Write(msg)
	if err != nil || n != len(msg) {
		t.Fatalf("Write = (%d, %v), want (%d, nil)", n, err, len(msg))
	}

	// Byte k's data bit i is driven at k*10*bit + (i+2)*bit; sample centers.
	for k, want := range msg {
		var got byte
		for i := 0; i < 8; i++ {
			at := uint32(k)*10*simBit + uint32(i+2)*simBit + simBit/2
			if levelAt(tx.edges, at) {
				got |= 1 << i
			}
		}
		if got != want {
			t.Errorf("byte %d on the wire = %#02x, want %#02x", k, got, want)
		}
	}
}

func TestSerialReadBlocksThenDrains(t *testing.T) {
	clk := &simClock{}
	var edges []edge
	edges, next := appendFrame(edges, 50, 'h')
	edges, _ = appendFrame(edges, next, 'i')

	rx := &wavePin{clk: clk, n: 1, edges: edges}
	Register(NewSerialDriver(newSerialHW(rx, &recPin{clk: clk, n: 0}, clk)))

	dev, err := Open("SSER:10000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// The stop-bit gap means each Read returns as soon as the line idles.
	buf := make([]byte, 4)
	n, err := dev.Read(buf)
	if err != nil || n != 1 || buf[0] != 'h' {
		t.Fatalf("first Read = (%d, %v, %q), want (1, nil, 'h')", n, err, buf[:n])
	}
	n, err = dev.Read(buf)
	if err != nil || n != 1 || buf[0] != 'i' {
		t.Fatalf("second Read = (%d, %v, %q), want (1, nil, 'i')", n, err, buf[:n])
	}
}
