//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"softio-go/x/strconvx"
)

// DefaultOutput is used by Printf on MCU builds.
// Set this from your platform bootstrap (e.g. a UART writer).
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Printf(format string, a ...any) (int, error) {
	return Fprintf(DefaultOutput, format, a...)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write([]byte(Sprintf(format, a...)))
}

// --- Internals: tiny formatter subset ---
// Supports: %s %q %d %x %X %v %t %%. No flags, width or precision;
// driver tracing only needs integers, hex and short strings.

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++
		b.verb(verb, arg)
	}
}

func (b *builder) verb(verb byte, arg any) {
	switch verb {
	case 's', 'q', 'v':
		switch v := arg.(type) {
		case string:
			if verb == 'q' {
				b.quote(v)
			} else {
				b.str(v)
			}
		case []byte:
			if verb == 'q' {
				b.quote(string(v))
			} else {
				b.str(string(v))
			}
		case error:
			b.str(v.Error())
		case bool:
			b.bool(v)
		default:
			b.str(strconvx.FormatInt(toI64(arg), 10))
		}
	case 'd':
		b.str(strconvx.FormatInt(toI64(arg), 10))
	case 'x':
		b.str(strconvx.FormatUint(toU64(arg), 16))
	case 'X':
		h := strconvx.FormatUint(toU64(arg), 16)
		for j := 0; j < len(h); j++ {
			c := h[j]
			if 'a' <= c && c <= 'f' {
				c -= 'a' - 'A'
			}
			b.byte(c)
		}
	case 't':
		v, _ := arg.(bool)
		b.bool(v)
	default:
		// Unknown verb: write it literally to aid debugging.
		b.byte('%')
		b.byte(verb)
	}
}

func (b *builder) bool(v bool) {
	if v {
		b.str("true")
	} else {
		b.str("false")
	}
}

func (b *builder) quote(s string) {
	b.byte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.byte('\\')
			b.byte(s[i])
		case '\n':
			b.str("\\n")
		case '\r':
			b.str("\\r")
		case '\t':
			b.str("\\t")
		default:
			b.byte(s[i])
		}
	}
	b.byte('"')
}

func toI64(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	default:
		return int64(toU64(v))
	}
}

func toU64(v any) uint64 {
	switch t := v.(type) {
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	case int:
		return uint64(t)
	case int64:
		return uint64(t)
	default:
		return 0
	}
}
