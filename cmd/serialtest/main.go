//go:build rp2040

package main

import (
	"time"

	"softio-go/chardev"
	"softio-go/softuart"
)

// Loopback-friendly echo harness: wire RX (GP1) to a terminal's TX, TX
// (GP0) to its RX, and everything typed comes back.

const conn = "SSER:115200,1,0"

func main() {
	println("[serial] boot ...")
	time.Sleep(1500 * time.Millisecond)

	chardev.Register(chardev.NewSerialDriver(softuart.Hardware()))

	dev, err := chardev.Open(conn)
	if err != nil {
		println("[serial] FAIL: open:", err.Error())
		return
	}
	defer dev.Close()

	if _, err := dev.Write([]byte("softuart echo ready\r\n")); err != nil {
		println("[serial] FAIL: banner:", err.Error())
		return
	}
	println("[serial] echoing on", conn)

	buf := make([]byte, 64)
	for {
		n, err := dev.Read(buf)
		if err != nil {
			println("[serial] FAIL: read:", err.Error())
			return
		}
		if _, err := dev.Write(buf[:n]); err != nil {
			println("[serial] FAIL: echo:", err.Error())
			return
		}
	}
}
