package chardev

import (
	"softio-go/softuart"
)

// SerialPrefix names the bit-banged serial driver in the device namespace.
const SerialPrefix = "SSER:"

// SerialDriver opens softuart channels from names like "SSER:19200,9,8".
type SerialDriver struct {
	HW softuart.HW
}

func NewSerialDriver(hw softuart.HW) *SerialDriver { return &SerialDriver{HW: hw} }

func (d *SerialDriver) Prefix() string { return SerialPrefix }

func (d *SerialDriver) Open(rest string) (Device, error) {
	ch, err := softuart.Open(d.HW, rest)
	if err != nil {
		return nil, err
	}
	return &serialDevice{ch: ch}, nil
}

// serialDevice adapts a channel to the byte-stream contract. Read and
// Write take the channel's advisory lock; the byte routines themselves do
// not, so concurrent raw-channel users bypass this serialization.
type serialDevice struct {
	ch *softuart.Channel
}

func (s *serialDevice) Terminal() bool { return true }

// Read blocks for the first byte, then drains whatever arrives back-to-back
// without blocking again.
func (s *serialDevice) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s.ch.Lock()
	defer s.ch.Unlock()

	s.ch.SetNonblocking(false)
	b, err := s.ch.GetByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	n := 1

	s.ch.SetNonblocking(true)
	for n < len(p) {
		b, err := s.ch.GetByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (s *serialDevice) Write(p []byte) (int, error) {
	s.ch.Lock()
	defer s.ch.Unlock()
	for _, b := range p {
		s.ch.PutByte(b)
	}
	return len(p), nil
}

func (s *serialDevice) Close() error { return s.ch.Close() }
