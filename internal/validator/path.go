package validator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

type step struct {
	index int
	field string
	named bool
}

// Path is the sequence of list indices and field names leading from the
// document root to a value.
type Path []step

// with returns a new path extended by s. It never shares its backing array
// with p, so sibling cursors cannot clobber each other's trails.
func (p Path) with(s step) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, s)
}

// String renders the path. Field names that are identifiers render as
// ".name"; other names render as `["some name"]` and indices as "[42]".
func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p {
		switch {
		case !s.named:
			fmt.Fprintf(&sb, "[%d]", s.index)
		case isIdentifier(s.field):
			sb.WriteByte('.')
			sb.WriteString(s.field)
		default:
			sb.WriteByte('[')
			sb.WriteString(quote(s.field))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)) {
			continue
		}
		return false
	}
	return true
}

// quote renders s as an ASCII-only JSON string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r > 0x7e && r <= 0xffff):
				writeEscape(&sb, r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeEscape(&sb, hi)
				writeEscape(&sb, lo)
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func writeEscape(sb *strings.Builder, r rune) {
	hex := strconv.FormatInt(int64(r), 16)
	sb.WriteString(`\u`)
	sb.WriteString(strings.Repeat("0", 4-len(hex)))
	sb.WriteString(hex)
}
