// Package sdmmc initializes SD/MMC cards over a serial command transport,
// classifies their addressing mode, and exposes sector-granular block
// read/write behind the blockdev contract. One driver instance owns one
// session per drive; callers serialize access to a drive externally.
package sdmmc

import (
	"io"

	"softio-go/blockdev"
	"softio-go/errcode"
	"softio-go/x/fmtx"
)

// DefaultPollAttempts bounds the initialization ready-poll. Together with
// the per-attempt delay it acts as the init timeout.
const DefaultPollAttempts = 10000

// Config carries driver-wide knobs. The zero value selects the defaults.
type Config struct {
	// PollAttempts overrides DefaultPollAttempts when positive.
	PollAttempts int
	// Delay runs between ready-poll attempts; defaults to a no-op.
	Delay func()
	// Debug, when set, receives a trace line per operation.
	Debug io.Writer
}

type card struct {
	bus Transport
	typ CardType
}

// Driver is an SD/MMC block driver over one Transport per drive.
type Driver struct {
	cfg   Config
	cards []card
}

var _ blockdev.Device = (*Driver)(nil)

// New builds a driver with one transport per drive index, in order.
func New(cfg Config, buses ...Transport) *Driver {
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DefaultPollAttempts
	}
	if cfg.Delay == nil {
		cfg.Delay = func() {}
	}
	d := &Driver{cfg: cfg, cards: make([]card, len(buses))}
	for i, b := range buses {
		d.cards[i] = card{bus: b}
	}
	return d
}

// Type reports the session's card classification; zero until Initialize
// succeeds, and only re-initialization changes it.
func (d *Driver) Type(drive int) CardType {
	c, err := d.card(drive)
	if err != nil {
		return 0
	}
	return c.typ
}

// Status reports nil once the drive has been initialized.
func (d *Driver) Status(drive int) error {
	c, err := d.card(drive)
	if err != nil {
		return err
	}
	if c.typ == 0 {
		return errcode.NotInitialized
	}
	return nil
}

// Initialize runs the card detection handshake: CMD0, then the CMD8 branch
// for SDv2 (voltage echo, ACMD41 with the HC bit, CMD58 for block
// addressing) or the legacy branch (ACMD41 probe picks SDv1 vs MMC/CMD1,
// then CMD16 fixes the block length at 512). The ready poll is bounded by
// Config.PollAttempts; exhausting it is a hard failure, never retried here.
func (d *Driver) Initialize(drive int) error {
	c, err := d.card(drive)
	if err != nil {
		return err
	}
	bus := c.bus
	bus.Enable()

	// Let the card stabilize before the first command.
	var buf [4]byte
	for i := 0; i < 100; i++ {
		bus.Receive(buf[:1])
	}

	var typ CardType
	if bus.SendCommand(CMD0, 0) == 1 {
		if bus.SendCommand(CMD8, 0x1AA) == 1 {
			// SDv2 candidate: the reply must echo the voltage window
			// and check pattern back.
			bus.Receive(buf[:4])
			if buf[2] == 0x01 && buf[3] == 0xAA {
				if d.pollReady(bus, ACMD41, 1<<30) {
					if bus.SendCommand(CMD58, 0) == 0 {
						bus.Receive(buf[:4])
						typ = CardSD2
						if buf[0]&0x40 != 0 {
							typ |= CardBlock
						}
					}
				}
			}
		} else {
			cmd := uint8(CMD1)
			if bus.SendCommand(ACMD41, 0) <= 1 {
				typ = CardSD1
				cmd = ACMD41
			} else {
				typ = CardMMC
			}
			if !d.pollReady(bus, cmd, 0) || bus.SendCommand(CMD16, 512) != 0 {
				typ = 0
			}
		}
	}
	c.typ = typ
	bus.Release()
	d.debugf("sdmmc: init drive=%d type=%d\n", drive, uint8(typ))
	if typ == 0 {
		return errcode.NotInitialized
	}
	return nil
}

// ReadSectors reads count sectors starting at sector into buf, in 512-byte
// strides. Multi-sector reads use CMD18 and always send CMD12 afterwards.
func (d *Driver) ReadSectors(drive int, buf []byte, sector uint32, count int) error {
	c, err := d.readyCard(drive)
	if err != nil {
		return err
	}
	if count <= 0 || len(buf) < count*blockdev.SectorSize {
		return errcode.ParamError
	}
	bus := c.bus

	cmd := uint8(CMD17)
	if count > 1 {
		cmd = CMD18
	}

	got := 0
	if bus.SendCommand(cmd, c.addr(sector)) == 0 {
		for got < count {
			if !bus.ReceiveBlock(buf[got*blockdev.SectorSize : (got+1)*blockdev.SectorSize]) {
				break
			}
			got++
		}
		if cmd == CMD18 {
			bus.SendCommand(CMD12, 0)
		}
	}
	bus.Release()
	d.debugf("sdmmc: read drive=%d sector=%d count=%d got=%d\n", drive, sector, count, got)
	if got != count {
		return errcode.TransferError
	}
	return nil
}

// WriteSectors writes count sectors from buf. Multi-sector writes announce
// the count via ACMD23 on SD-family cards, stream 0xFC-framed blocks and
// terminate with the 0xFD stop token; a rejected stop token fails the
// whole operation.
func (d *Driver) WriteSectors(drive int, buf []byte, sector uint32, count int) error {
	c, err := d.readyCard(drive)
	if err != nil {
		return err
	}
	if count <= 0 || len(buf) < count*blockdev.SectorSize {
		return errcode.ParamError
	}
	bus := c.bus

	done := 0
	if count == 1 {
		if bus.SendCommand(CMD24, c.addr(sector)) == 0 &&
			bus.SendBlock(buf[:blockdev.SectorSize], tokenSingleStart) {
			done = 1
		}
	} else {
		if c.typ.IsSD() {
			bus.SendCommand(ACMD23, uint32(count))
		}
		if bus.SendCommand(CMD25, c.addr(sector)) == 0 {
			for done < count {
				if !bus.SendBlock(buf[done*blockdev.SectorSize:(done+1)*blockdev.SectorSize], tokenMultiStart) {
					break
				}
				done++
			}
			if !bus.SendBlock(nil, tokenStopTran) {
				done = 0
			}
		}
	}
	bus.Release()
	d.debugf("sdmmc: write drive=%d sector=%d count=%d done=%d\n", drive, sector, count, done)
	if done != count {
		return errcode.TransferError
	}
	return nil
}

// Ioctl serves the blockdev control codes. CtrlGetSectorCount reads the
// CSD via CMD9 and fills a *uint64; CtrlGetBlockSize fills a *uint32 with
// the fixed 128-sector erase granularity.
func (d *Driver) Ioctl(drive int, ctrl blockdev.Ctrl, arg any) error {
	c, err := d.readyCard(drive)
	if err != nil {
		return err
	}
	bus := c.bus

	res := error(errcode.TransferError)
	switch ctrl {
	case blockdev.CtrlSync:
		if bus.Select() {
			res = nil
		}
	case blockdev.CtrlGetSectorCount:
		out, ok := arg.(*uint64)
		if !ok {
			res = errcode.ParamError
			break
		}
		var csd [16]byte
		if bus.SendCommand(CMD9, 0) == 0 && bus.ReceiveBlock(csd[:]) {
			*out = sectorCount(&csd)
			res = nil
		}
	case blockdev.CtrlGetBlockSize:
		out, ok := arg.(*uint32)
		if !ok {
			res = errcode.ParamError
			break
		}
		*out = 128
		res = nil
	default:
		res = errcode.ParamError
	}
	bus.Release()
	return res
}

func (d *Driver) card(drive int) (*card, error) {
	if drive < 0 || drive >= len(d.cards) {
		return nil, &errcode.E{C: errcode.ParamError, Op: "sdmmc", Msg: "bad drive"}
	}
	return &d.cards[drive], nil
}

// readyCard guards block operations against an uninitialized session.
func (d *Driver) readyCard(drive int) (*card, error) {
	c, err := d.card(drive)
	if err != nil {
		return nil, err
	}
	if c.typ == 0 {
		return nil, errcode.NotInitialized
	}
	return c, nil
}

func (d *Driver) pollReady(bus Transport, cmd uint8, arg uint32) bool {
	for i := 0; i < d.cfg.PollAttempts; i++ {
		if bus.SendCommand(cmd, arg) == 0 {
			return true
		}
		d.cfg.Delay()
	}
	return false
}

// addr maps a sector index to the card's addressing scheme.
func (c *card) addr(sector uint32) uint32 {
	if c.typ.ByteAddressed() {
		return sector * blockdev.SectorSize
	}
	return sector
}

func (d *Driver) debugf(format string, args ...any) {
	if d.cfg.Debug != nil {
		fmtx.Fprintf(d.cfg.Debug, format, args...)
	}
}
