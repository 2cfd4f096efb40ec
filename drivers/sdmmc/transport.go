package sdmmc

// Transport carries commands and data blocks to one physical card. The
// driver assumes exclusive ownership of the bus for the duration of one
// operation and calls Release on every exit path.
type Transport interface {
	// Enable raises the card's power/chip-select enable line.
	Enable()
	// Select asserts chip-select and reports whether the card is ready.
	Select() bool
	// Release deasserts chip-select. Safe to call when not selected.
	Release()

	// SendCommand issues one command and returns its R1 response byte.
	// 0xFF means no response. Commands carrying acmdFlag are expanded
	// into a CMD55 prefix pair by the transport.
	SendCommand(cmd uint8, arg uint32) uint8

	// Receive reads raw response bytes (R3/R7 tails, stabilization cycles).
	Receive(buf []byte) bool
	// ReceiveBlock reads one data block: token wait, payload, CRC discard.
	ReceiveBlock(buf []byte) bool
	// SendBlock writes one data block framed with token, or the bare stop
	// token when buf is nil. Reports whether the card accepted it.
	SendBlock(buf []byte, token uint8) bool
}
