package softuart

import (
	"softio-go/errcode"
	"softio-go/x/strconvx"
)

// parseConn parses "baud[,rxpin[,txpin]]". Empty string or empty fields use
// the compiled-in platform defaults; fields apply left to right.
func parseConn(conn string) (baud uint32, rxPin, txPin int, err error) {
	baud, rxPin, txPin = DefaultBaud, DefaultRXPin, DefaultTXPin
	if conn == "" {
		return baud, rxPin, txPin, nil
	}

	field := func(s string) (int, error) {
		n, err := strconvx.Atoi(s)
		if err != nil || n < 0 {
			return 0, &errcode.E{C: errcode.InvalidConn, Op: "softuart.Open", Msg: s}
		}
		return n, nil
	}

	rest := conn
	for i := 0; rest != "" && i < 3; i++ {
		f := rest
		if j := indexComma(rest); j >= 0 {
			f, rest = rest[:j], rest[j+1:]
		} else {
			rest = ""
		}
		if f == "" {
			continue
		}
		n, err := field(f)
		if err != nil {
			return 0, 0, 0, err
		}
		switch i {
		case 0:
			if n == 0 {
				return 0, 0, 0, &errcode.E{C: errcode.InvalidConn, Op: "softuart.Open", Msg: "baud 0"}
			}
			baud = uint32(n)
		case 1:
			rxPin = n
		case 2:
			txPin = n
		}
	}
	return baud, rxPin, txPin, nil
}

func indexComma(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return i
		}
	}
	return -1
}
