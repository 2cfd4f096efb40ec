package blockdev

import (
	"testing"

	"softio-go/errcode"
)

type fakeDevice struct {
	calls []string
}

func (f *fakeDevice) Status(drive int) error     { f.calls = append(f.calls, "status"); return nil }
func (f *fakeDevice) Initialize(drive int) error { f.calls = append(f.calls, "init"); return nil }
func (f *fakeDevice) ReadSectors(drive int, buf []byte, sector uint32, count int) error {
	f.calls = append(f.calls, "read")
	return nil
}
func (f *fakeDevice) WriteSectors(drive int, buf []byte, sector uint32, count int) error {
	f.calls = append(f.calls, "write")
	return nil
}
func (f *fakeDevice) Ioctl(drive int, ctrl Ctrl, arg any) error {
	f.calls = append(f.calls, "ioctl")
	return nil
}

func TestMuxRoutesRegisteredDrive(t *testing.T) {
	m := NewMux()
	dev := &fakeDevice{}
	m.Register(0, dev)

	buf := make([]byte, SectorSize)
	if err := m.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := m.ReadSectors(0, buf, 0, 1); err != nil {
		t.Fatalf("ReadSectors: %v", err)
	}
	if err := m.WriteSectors(0, buf, 0, 1); err != nil {
		t.Fatalf("WriteSectors: %v", err)
	}
	if err := m.Ioctl(0, CtrlSync, nil); err != nil {
		t.Fatalf("Ioctl: %v", err)
	}
	if err := m.Status(0); err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := []string{"init", "read", "write", "ioctl", "status"}
	if len(dev.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", dev.calls, want)
	}
	for i, w := range want {
		if dev.calls[i] != w {
			t.Errorf("call %d = %q, want %q", i, dev.calls[i], w)
		}
	}
}

func TestMuxUnknownDrive(t *testing.T) {
	m := NewMux()
	if err := m.Status(3); errcode.Of(err) != errcode.UnknownDev {
		t.Fatalf("Status(3) = %v, want UnknownDev", err)
	}
	if err := m.ReadSectors(3, make([]byte, SectorSize), 0, 1); errcode.Of(err) != errcode.UnknownDev {
		t.Fatalf("ReadSectors(3) = %v, want UnknownDev", err)
	}
}
