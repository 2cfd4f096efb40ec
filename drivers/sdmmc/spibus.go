package sdmmc

import (
	"tinygo.org/x/drivers"
)

// OutPin is the chip-select / power line control the SPI transport needs.
// softuart pins satisfy it; so does any platform output pin.
type OutPin interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
}

// SPIBus is the SPI-mode Transport: 6-byte command frames, CMD55 expansion
// for application commands, token-framed data blocks. Power may be nil on
// boards where the card is always powered.
type SPIBus struct {
	spi   drivers.SPI
	cs    OutPin
	power OutPin

	selected bool
}

var _ Transport = (*SPIBus)(nil)

func NewSPIBus(spi drivers.SPI, cs, power OutPin) *SPIBus {
	return &SPIBus{spi: spi, cs: cs, power: power}
}

func (b *SPIBus) xfer(w byte) byte {
	r, _ := b.spi.Transfer(w)
	return r
}

// Enable powers the slot and clocks the card into SPI mode: at least 74
// clock edges with chip-select deasserted.
func (b *SPIBus) Enable() {
	if b.power != nil {
		b.power.ConfigureOutput(true)
	}
	b.cs.ConfigureOutput(true)
	b.selected = false
	for i := 0; i < 10; i++ {
		b.xfer(0xFF)
	}
}

// Select asserts chip-select and waits for the card to report ready
// (DO high). On failure the bus is released before returning.
func (b *SPIBus) Select() bool {
	b.cs.Set(false)
	b.selected = true
	b.xfer(0xFF)
	if b.waitReady() {
		return true
	}
	b.Release()
	return false
}

// Release deasserts chip-select and sends one trailing byte so the card
// lets go of the data-out line.
func (b *SPIBus) Release() {
	b.cs.Set(true)
	b.selected = false
	b.xfer(0xFF)
}

func (b *SPIBus) waitReady() bool {
	for i := 0; i < 5000; i++ {
		if b.xfer(0xFF) == 0xFF {
			return true
		}
	}
	return false
}

// SendCommand issues one command frame and returns its R1 response.
// Application commands are expanded into CMD55 + command. Every command
// except CMD12 re-selects the card first; CMD12 is sent mid-transfer.
func (b *SPIBus) SendCommand(cmd uint8, arg uint32) uint8 {
	if cmd&acmdFlag != 0 {
		r := b.SendCommand(CMD55, 0)
		if r > 1 {
			return r
		}
		cmd &^= acmdFlag
	}

	if cmd != CMD12 {
		b.Release()
		if !b.Select() {
			return 0xFF
		}
	}

	b.xfer(0x40 | cmd)
	b.xfer(byte(arg >> 24))
	b.xfer(byte(arg >> 16))
	b.xfer(byte(arg >> 8))
	b.xfer(byte(arg))
	// CRC is only checked before the card enters SPI mode; the two frames
	// sent in native mode carry their fixed values.
	crc := byte(0x01)
	switch cmd {
	case CMD0:
		crc = 0x95
	case CMD8:
		crc = 0x87
	}
	b.xfer(crc)

	if cmd == CMD12 {
		b.xfer(0xFF) // discard the stuff byte
	}
	for i := 0; i < 10; i++ {
		if r := b.xfer(0xFF); r&0x80 == 0 {
			return r
		}
	}
	return 0xFF
}

// Receive reads raw bytes while the card is selected (or clocks dummy
// cycles when it is not, as during the post-power stabilization run).
func (b *SPIBus) Receive(buf []byte) bool {
	for i := range buf {
		buf[i] = b.xfer(0xFF)
	}
	return true
}

// ReceiveBlock waits for the 0xFE data token, reads the payload and
// discards the trailing CRC.
func (b *SPIBus) ReceiveBlock(buf []byte) bool {
	token := byte(0xFF)
	for i := 0; i < 40000 && token == 0xFF; i++ {
		token = b.xfer(0xFF)
	}
	if token != tokenSingleStart {
		return false
	}
	for i := range buf {
		buf[i] = b.xfer(0xFF)
	}
	b.xfer(0xFF)
	b.xfer(0xFF)
	return true
}

// SendBlock writes one token-framed data block, or the bare stop token
// when buf is nil, and waits out the card's busy window.
func (b *SPIBus) SendBlock(buf []byte, token uint8) bool {
	if !b.waitReady() {
		return false
	}
	b.xfer(token)
	if buf == nil {
		// Stop token: the card signals busy until the last block lands.
		return b.waitReady()
	}
	for _, c := range buf {
		b.xfer(c)
	}
	b.xfer(0xFF) // CRC, ignored in SPI mode
	b.xfer(0xFF)
	resp := b.xfer(0xFF)
	if resp&0x1F != 0x05 { // data accepted
		return false
	}
	return b.waitReady()
}
