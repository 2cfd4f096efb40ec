package sdmmc

// sectorCount decodes the total sector count from a raw 16-byte CSD
// register. Bit 5 of byte 0 distinguishes the high-capacity layout (a
// single 22-bit C_SIZE field, capacity in 512 KiB units) from the classic
// layout (C_SIZE / C_SIZE_MULT / READ_BL_LEN scattered across bytes 5-10).
func sectorCount(csd *[16]byte) uint64 {
	if csd[0]&0x20 != 0 {
		cs := uint64(csd[9]) | uint64(csd[8])<<8 | uint64(csd[7]&63)<<16
		return (cs + 1) << 10
	}
	n := uint(csd[5]&0x0F) + uint(csd[10]>>7) + uint((csd[9]&0x03)<<1) + 2
	cs := uint64(csd[9]>>6) + uint64(csd[7])<<2 + uint64(csd[6]&0x03)<<10 + 1
	return cs << (n - 9)
}
