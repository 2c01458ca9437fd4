// Package mojibake undoes the faulty double encoding found in JSON files
// exported from Facebook.
//
// The exporter writes UTF-8 text and then escapes every byte outside 7-bit
// ASCII as a faux unicode escape \u00XX, where XX is the byte's value. Parsing
// such a file succeeds but yields garbled text. Restore replaces each escape
// with the byte it names, before the JSON text is parsed.
package mojibake

// Restore returns data with faux unicode escapes replaced by raw bytes.
//
// Only an odd number of backslashes followed by u00XX forms an escape. With an
// even number, the backslashes escape each other and the u00XX is plain text,
// typically text about escape sequences. Escapes for control characters,
// quotes, and backslashes stay in place since their raw bytes would not be
// valid inside a JSON string; the parsed text is the same either way.
func Restore(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		if data[i] != '\\' {
			out = append(out, data[i])
			i++
			continue
		}

		start := i
		for i < len(data) && data[i] == '\\' {
			i++
		}
		run := i - start

		b, ok := fauxEscape(data[i:])
		if run%2 == 1 && ok {
			out = append(out, data[start:i-1]...)
			out = append(out, b)
			i += 5
			continue
		}
		out = append(out, data[start:i]...)
	}
	return out
}

// fauxEscape decodes u00XX at the start of data.
func fauxEscape(data []byte) (byte, bool) {
	if len(data) < 5 || data[0] != 'u' || data[1] != '0' || data[2] != '0' {
		return 0, false
	}
	hi, ok1 := hexValue(data[3])
	lo, ok2 := hexValue(data[4])
	if !ok1 || !ok2 {
		return 0, false
	}
	b := hi<<4 | lo
	if b < 0x20 || b == '"' || b == '\\' {
		return 0, false
	}
	return b, true
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
