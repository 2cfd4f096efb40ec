// Package chardev is a prefix-keyed character device registry: drivers
// register under a name prefix ("SSER:"), Open routes the remainder of the
// name to the matching driver's open hook.
package chardev

import (
	"io"
	"strings"
	"sync"

	"softio-go/errcode"
)

// Device is an open character device.
type Device interface {
	io.ReadWriteCloser
	// Terminal marks byte-at-a-time devices (no seek, no buffer flush).
	Terminal() bool
}

// Driver opens devices whose names start with its prefix.
type Driver interface {
	Prefix() string
	Open(rest string) (Device, error)
}

var (
	mu      sync.Mutex
	drivers = map[string]Driver{}
)

// Register adds a driver to the registry. Re-registering a prefix replaces
// the previous driver.
func Register(d Driver) {
	mu.Lock()
	drivers[d.Prefix()] = d
	mu.Unlock()
}

// Open resolves name against the registered prefixes and hands the
// remainder to the driver.
func Open(name string) (Device, error) {
	mu.Lock()
	defer mu.Unlock()
	for prefix, d := range drivers {
		if strings.HasPrefix(name, prefix) {
			return d.Open(name[len(prefix):])
		}
	}
	return nil, &errcode.E{C: errcode.UnknownDev, Op: "chardev.Open", Msg: name}
}
