//go:build rp2040

package main

import (
	"machine"
	"time"

	"softio-go/blockdev"
	"softio-go/drivers/sdmmc"
	"softio-go/softuart"
)

// SD card smoke test over SPI0: initialize, read the MBR sector, report
// the card geometry. Read-only so it is safe on a card with data.

const csPin = 17

func main() {
	println("[disk] boot ...")
	time.Sleep(1500 * time.Millisecond)

	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 12_000_000,
		SCK:       machine.SPI0_SCK_PIN,
		SDO:       machine.SPI0_SDO_PIN,
		SDI:       machine.SPI0_SDI_PIN,
	})
	if err != nil {
		println("[disk] FAIL: spi configure:", err.Error())
		return
	}

	cs, ok := softuart.Hardware().Pins.ByNumber(csPin)
	if !ok {
		println("[disk] FAIL: no pin", csPin)
		return
	}

	drv := sdmmc.New(sdmmc.Config{}, sdmmc.NewSPIBus(machine.SPI0, cs, nil))
	disks := blockdev.NewMux()
	disks.Register(0, drv)

	println("[disk] initializing drive 0 ...")
	if err := disks.Initialize(0); err != nil {
		println("[disk] FAIL: initialize:", err.Error())
		return
	}
	println("[disk] card type:", cardTypeName(drv.Type(0)))

	var sectors uint64
	if err := disks.Ioctl(0, blockdev.CtrlGetSectorCount, &sectors); err != nil {
		println("[disk] FAIL: sector count:", err.Error())
		return
	}
	println("[disk] sectors:", sectors, "(", sectors/2048, "MiB )")

	var blockSize uint32
	if err := disks.Ioctl(0, blockdev.CtrlGetBlockSize, &blockSize); err != nil {
		println("[disk] FAIL: block size:", err.Error())
		return
	}
	println("[disk] erase block:", blockSize, "sectors")

	buf := make([]byte, blockdev.SectorSize)
	if err := disks.ReadSectors(0, buf, 0, 1); err != nil {
		println("[disk] FAIL: read sector 0:", err.Error())
		return
	}
	if buf[510] == 0x55 && buf[511] == 0xAA {
		println("[disk] sector 0 boot signature: PASS")
	} else {
		println("[disk] sector 0 boot signature: FAIL (", buf[510], buf[511], ")")
	}

	// Multi-sector path.
	big := make([]byte, 4*blockdev.SectorSize)
	if err := disks.ReadSectors(0, big, 0, 4); err != nil {
		println("[disk] FAIL: multi read:", err.Error())
		return
	}
	same := true
	for i := 0; i < blockdev.SectorSize; i++ {
		if big[i] != buf[i] {
			same = false
			break
		}
	}
	if same {
		println("[disk] multi-sector read: PASS")
	} else {
		println("[disk] multi-sector read: FAIL (sector 0 mismatch)")
	}
}

func cardTypeName(t sdmmc.CardType) string {
	switch {
	case t&sdmmc.CardSD2 != 0 && t&sdmmc.CardBlock != 0:
		return "SDv2 (block addressed)"
	case t&sdmmc.CardSD2 != 0:
		return "SDv2"
	case t&sdmmc.CardSD1 != 0:
		return "SDv1"
	case t&sdmmc.CardMMC != 0:
		return "MMC"
	}
	return "unknown"
}
