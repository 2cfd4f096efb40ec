//go:build rp2040

package softuart

import (
	"device/rp"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Hardware returns the RP2040 pin factory and timebase.
func Hardware() HW {
	return HW{Pins: rp2PinFactory{}, Clock: sysTimer{}}
}

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// sysTimer is the RP2040 free-running 1 MHz system timer. Microsecond ticks
// cap the usable bit-bang rate around 57.6 kbaud; faster channels should
// land on a PL011 pin pair so openHardPort takes over.
type sysTimer struct{}

func (sysTimer) Hz() uint32    { return 1_000_000 }
func (sysTimer) Count() uint32 { return rp.TIMER.TIMERAWL.Get() }

func (sysTimer) WaitUntil(target uint32) {
	for int32(rp.TIMER.TIMERAWL.Get()-target) < 0 {
	}
}

// openHardPort hands the channel to a PL011 when the requested pins are a
// hardware UART pair, the same split the channel's consumers never see.
func openHardPort(rxN, txN int, baud uint32) hwPort {
	var hw *uartx.UART
	switch {
	case txN == 0 && rxN == 1, txN == 12 && rxN == 13, txN == 16 && rxN == 17:
		hw = uartx.UART0
	case txN == 4 && rxN == 5, txN == 8 && rxN == 9:
		hw = uartx.UART1
	default:
		return nil
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(txN),
		RX:       machine.Pin(rxN),
	}); err != nil {
		return nil
	}
	return hw
}
