package sdmmc

// SPI-mode command set, limited to detection, block read/write and CSD.
// Application-specific commands carry the acmdFlag; the transport expands
// them into a CMD55 prefix pair.
const (
	acmdFlag = 0x80

	CMD0  = 0  // GO_IDLE_STATE
	CMD1  = 1  // SEND_OP_COND (MMC)
	CMD8  = 8  // SEND_IF_COND
	CMD9  = 9  // SEND_CSD
	CMD12 = 12 // STOP_TRANSMISSION
	CMD16 = 16 // SET_BLOCKLEN
	CMD17 = 17 // READ_SINGLE_BLOCK
	CMD18 = 18 // READ_MULTIPLE_BLOCK
	CMD24 = 24 // WRITE_BLOCK
	CMD25 = 25 // WRITE_MULTIPLE_BLOCK
	CMD55 = 55 // APP_CMD
	CMD58 = 58 // READ_OCR

	ACMD23 = acmdFlag | 23 // SET_WR_BLK_ERASE_COUNT
	ACMD41 = acmdFlag | 41 // SEND_OP_COND (SD)
)

// Data tokens.
const (
	tokenSingleStart = 0xFE // CMD17/18/24 data block
	tokenMultiStart  = 0xFC // CMD25 data block
	tokenStopTran    = 0xFD // CMD25 terminator
)

// CardType classifies a card during Initialize and fixes its addressing
// mode and write negotiation for the rest of the session.
type CardType uint8

const (
	CardMMC   CardType = 1 << iota // MMCv3, CMD1 init
	CardSD1                        // SDv1
	CardSD2                        // SDv2
	CardBlock                      // block (not byte) addressing
)

// IsSD reports whether the card takes SD application commands (ACMD23).
func (t CardType) IsSD() bool { return t&(CardSD1|CardSD2) != 0 }

// ByteAddressed reports whether sector indices must be scaled to byte offsets.
func (t CardType) ByteAddressed() bool { return t&CardBlock == 0 }
