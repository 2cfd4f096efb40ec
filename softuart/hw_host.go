//go:build !rp2040

package softuart

// No hardware UARTs off-target; every pin pair is bit-banged.
func openHardPort(rxN, txN int, baud uint32) hwPort { return nil }
