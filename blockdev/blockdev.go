// Package blockdev defines the sector-granular block device contract a
// file-system layer consumes. Sector size is fixed; requests are whole
// sectors, addressed by 0-based drive-relative LBA.
package blockdev

import (
	"sync"

	"softio-go/errcode"
)

// SectorSize is fixed for every device behind this contract.
const SectorSize = 512

// Ctrl selects an Ioctl operation.
type Ctrl uint8

const (
	// CtrlSync flushes any device-side write caching.
	CtrlSync Ctrl = iota
	// CtrlGetSectorCount fills a *uint64 with the total sector count.
	CtrlGetSectorCount
	// CtrlGetBlockSize fills a *uint32 with the erase block size in sectors.
	CtrlGetBlockSize
)

// Device is one block driver. Status and Initialize report errcode.NotInitialized
// until a successful Initialize; buffers must be count*SectorSize bytes.
type Device interface {
	Status(drive int) error
	Initialize(drive int) error
	ReadSectors(drive int, buf []byte, sector uint32, count int) error
	WriteSectors(drive int, buf []byte, sector uint32, count int) error
	Ioctl(drive int, ctrl Ctrl, arg any) error
}

// Mux routes drive indices to registered devices, so a file-system layer
// sees one flat drive namespace across heterogeneous drivers.
type Mux struct {
	mu   sync.Mutex
	devs map[int]Device
}

func NewMux() *Mux { return &Mux{devs: map[int]Device{}} }

// Register binds a drive index to a device. Re-registering replaces.
func (m *Mux) Register(drive int, dev Device) {
	m.mu.Lock()
	m.devs[drive] = dev
	m.mu.Unlock()
}

func (m *Mux) device(drive int) (Device, error) {
	m.mu.Lock()
	dev := m.devs[drive]
	m.mu.Unlock()
	if dev == nil {
		return nil, &errcode.E{C: errcode.UnknownDev, Op: "blockdev.Mux"}
	}
	return dev, nil
}

func (m *Mux) Status(drive int) error {
	dev, err := m.device(drive)
	if err != nil {
		return err
	}
	return dev.Status(drive)
}

func (m *Mux) Initialize(drive int) error {
	dev, err := m.device(drive)
	if err != nil {
		return err
	}
	return dev.Initialize(drive)
}

func (m *Mux) ReadSectors(drive int, buf []byte, sector uint32, count int) error {
	dev, err := m.device(drive)
	if err != nil {
		return err
	}
	return dev.ReadSectors(drive, buf, sector, count)
}

func (m *Mux) WriteSectors(drive int, buf []byte, sector uint32, count int) error {
	dev, err := m.device(drive)
	if err != nil {
		return err
	}
	return dev.WriteSectors(drive, buf, sector, count)
}

func (m *Mux) Ioctl(drive int, ctrl Ctrl, arg any) error {
	dev, err := m.device(drive)
	if err != nil {
		return err
	}
	return dev.Ioctl(drive, ctrl, arg)
}

var _ Device = (*Mux)(nil)
