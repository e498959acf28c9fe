package hashing_test

import (
	"testing"

	"github.com/rybka/fishledger/foundation/blockchain/hashing"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Canonical(t *testing.T) {
	type table struct {
		name  string
		value any
		exp   string
	}

	tt := []table{
		{
			name: "genesis",
			value: map[string]any{
				"index":         uint64(1),
				"timestamp":     1700000000.5,
				"transactions":  []any{},
				"proof":         uint64(100),
				"previous_hash": "rybka",
			},
			exp: `{"index": 1, "previous_hash": "rybka", "proof": 100, "timestamp": 1700000000.5, "transactions": []}`,
		},
		{
			name: "floats",
			value: map[string]any{
				"a": 1.0,
				"b": 1.5e-7,
				"c": 1e16,
				"d": 123456789.123,
				"e": 0.0001,
			},
			exp: `{"a": 1.0, "b": 1.5e-07, "c": 1e+16, "d": 123456789.123, "e": 0.0001}`,
		},
		{
			name: "numbers",
			value: map[string]any{
				"int":   hashing.Int(1),
				"float": hashing.Float(1),
				"whole": hashing.Float(1700000002),
				"zero":  hashing.Number{},
			},
			exp: `{"float": 1.0, "int": 1, "whole": 1700000002.0, "zero": 0}`,
		},
		{
			name:  "escapes",
			value: map[string]any{"a": "ryba łosoś 🐟 \"q\" \\ \n\x01\x7f"},
			exp:   `{"a": "ryba \u0142oso\u015b \ud83d\udc1f \"q\" \\ \n\u0001\u007f"}`,
		},
		{
			name:  "html",
			value: []string{"<a>&"},
			exp:   `["<a>&"]`,
		},
		{
			name: "struct",
			value: struct {
				Z int    `json:"z"`
				A string `json:"a"`
			}{Z: 1, A: "x"},
			exp: `{"a": "x", "z": 1}`,
		},
	}

	t.Log("Given the need to encode values the same way on every node.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := string(hashing.Canonical(tst.value))
				if got != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get back the canonical encoding.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the canonical encoding.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Hash(t *testing.T) {
	t.Log("Given the need to hash values.")
	{
		t.Logf("\tTest 0:\tWhen hashing a known value.")
		{
			value := map[string]any{
				"index":         uint64(1),
				"timestamp":     1700000000.5,
				"transactions":  []any{},
				"proof":         uint64(100),
				"previous_hash": "rybka",
			}

			const exp = "d490437c8a8a62b8a41f6fdce33de42f03d5ed3e8287db0b1695a165e7bab742"

			got := hashing.Hash(value)
			if got != exp {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, exp)
				t.Fatalf("\t%s\tTest 0:\tShould get back the known hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the known hash.", success)

			if len(got) != hashing.Size {
				t.Fatalf("\t%s\tTest 0:\tShould get back a hash of %d characters, got %d.", failed, hashing.Size, len(got))
			}
			t.Logf("\t%s\tTest 0:\tShould get back a hash of %d characters.", success, hashing.Size)
		}

		t.Logf("\tTest 1:\tWhen hashing raw bytes.")
		{
			const exp = "40510175845988f13f6162ed8526f0b09f73384467fa855e1e79b44a56562a58"

			if got := hashing.Sum([]byte("1000")); got != exp {
				t.Logf("\t%s\tTest 1:\tgot: %s", failed, got)
				t.Logf("\t%s\tTest 1:\texp: %s", failed, exp)
				t.Fatalf("\t%s\tTest 1:\tShould get back the known hash.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get back the known hash.", success)
		}
	}
}
