package hashing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when a value can't be read as a JSON number.
var ErrInvalidNumber = errors.New("invalid number")

// Number is a JSON number that remembers whether it was written as an
// integer or as a float. Nodes on the network hash 1 and 1.0 differently,
// so the distinction has to survive decoding, encoding and hashing.
// The zero value is the integer 0.
type Number struct {
	lit string
}

// Int constructs an integer number.
func Int(v int64) Number {
	return Number{lit: strconv.FormatInt(v, 10)}
}

// Float constructs a float number. Whole values keep their float form and
// are written with a trailing ".0".
func Float(v float64) Number {
	return Number{lit: FormatFloat(v)}
}

// ParseNumber reads a JSON number literal. Literals without a fraction or
// exponent are integers, everything else is a float.
func ParseNumber(s string) (Number, error) {
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) || !json.Valid([]byte(s)) {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(v), nil
		}

		// Integers have no size limit on the network.
		var bi big.Int
		if _, ok := bi.SetString(s, 10); !ok {
			return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
		return Number{lit: bi.String()}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q: %s", ErrInvalidNumber, s, err)
	}

	return Float(f), nil
}

// IsInt reports whether the number is an integer.
func (n Number) IsInt() bool {
	return !strings.ContainsAny(n.lit, ".eEIN")
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	if n.lit == "" {
		return 0
	}

	f, err := strconv.ParseFloat(n.lit, 64)
	if err != nil {
		switch n.lit {
		case "Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		return math.NaN()
	}

	return f
}

// String returns the canonical literal.
func (n Number) String() string {
	if n.lit == "" {
		return "0"
	}

	return n.lit
}

// MarshalJSON writes the canonical literal so peers decode the same kind
// of number that was hashed.
func (n Number) MarshalJSON() ([]byte, error) {
	f := n.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s can't be written as json", ErrInvalidNumber, n.lit)
	}

	return []byte(n.String()), nil
}

// UnmarshalJSON reads a number literal. Quoted numbers and null are rejected.
func (n *Number) UnmarshalJSON(data []byte) error {
	num, err := ParseNumber(string(bytes.TrimSpace(data)))
	if err != nil {
		return err
	}

	*n = num
	return nil
}
