// Package hashing provides the canonical encoding and digest used to link
// blocks together and to compare chains across nodes.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

// Size is the length of a hex encoded digest.
const Size = sha256.Size * 2

// CORE NOTE: Every node must produce the exact same bytes for the same block
// or chains can't be compared across the network. The encoding matches sorted
// key JSON with ", " and ": " separators and ASCII only output, which is what
// the existing nodes on the network produce.

// Hash returns the hex encoded SHA-256 digest of the canonical encoding of
// the specified value.
func Hash(value any) string {
	return Sum(Canonical(value))
}

// Sum returns the hex encoded SHA-256 digest of the data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Fielder is implemented by values that know their own canonical field set.
// Numbers in the map keep their Go types so integers and floats are rendered
// the way the network expects. Use Number for values that can be either.
type Fielder interface {
	Fields() map[string]any
}

// Canonical returns the deterministic encoding of the value. Object keys are
// always written in sorted order so struct field order can't influence the
// result.
func Canonical(value any) []byte {
	var b strings.Builder
	encode(&b, value)

	return []byte(b.String())
}

// =============================================================================

func encode(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")

	case Fielder:
		encodeMap(b, v.Fields())

	case bool:
		if v {
			b.WriteString("true")
			return
		}
		b.WriteString("false")

	case int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case float32:
		b.WriteString(FormatFloat(float64(v)))
	case float64:
		b.WriteString(FormatFloat(v))
	case Number:
		b.WriteString(v.String())
	case json.Number:
		encodeNumber(b, v)

	case string:
		encodeString(b, v)

	case []any:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			encode(b, e)
		}
		b.WriteByte(']')

	case []string:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			encodeString(b, e)
		}
		b.WriteByte(']')

	case map[string]any:
		encodeMap(b, v)

	default:
		generic, err := toGeneric(v)
		if err != nil {
			b.WriteString("null")
			return
		}
		encode(b, generic)
	}
}

func encodeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		encodeString(b, k)
		b.WriteString(": ")
		encode(b, m[k])
	}
	b.WriteByte('}')
}

// toGeneric reduces any other value to maps, slices and json.Number values
// through its JSON form.
func toGeneric(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

// encodeNumber keeps integers as integers and renders everything else
// as a float.
func encodeNumber(b *strings.Builder, n json.Number) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		b.WriteString(s)
		return
	}

	f, err := n.Float64()
	if err != nil {
		b.WriteString(s)
		return
	}

	b.WriteString(FormatFloat(f))
}

// FormatFloat renders the float in its shortest round trip form. Integral
// values keep a trailing ".0" and exponent notation is used for magnitudes
// below 1e-4 or at and above 1e16.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// encodeString writes a quoted string escaping everything outside of
// printable ASCII.
func encodeString(b *strings.Builder, s string) {
	const hex = "0123456789abcdef"

	writeU := func(r rune) {
		b.WriteString(`\u`)
		b.WriteByte(hex[(r>>12)&0xF])
		b.WriteByte(hex[(r>>8)&0xF])
		b.WriteByte(hex[(r>>4)&0xF])
		b.WriteByte(hex[r&0xF])
	}

	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				writeU(r)
			case r < utf8.RuneSelf:
				b.WriteRune(r)
			case r > 0xFFFF:
				r -= 0x10000
				writeU(0xD800 + (r>>10)&0x3FF)
				writeU(0xDC00 + r&0x3FF)
			default:
				writeU(r)
			}
		}
	}
	b.WriteByte('"')
}
