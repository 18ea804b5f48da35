// encode_test.go - mnemonic encoding and encode/decode round-trips

package asm

import "testing"

func TestEncodeSimpleInstructions(t *testing.T) {
	cases := []struct {
		line string
		want []byte
	}{
		{"nop", []byte{0x00}},
		{"hlt", []byte{0x76}},
		{"mov b, c", []byte{0x41}},
		{"mvi a, $2a", []byte{0x3E, 0x2A}},
		{"lxi h, $1234", []byte{0x21, 0x34, 0x12}},
		{"lxi sp, $0000", []byte{0x31, 0x00, 0x00}},
		{"add m", []byte{0x86}},
		{"ani $0f", []byte{0xE6, 0x0F}},
		{"jnz $0100", []byte{0xC2, 0x00, 0x01}},
		{"cz $0200", []byte{0xCC, 0x00, 0x02}},
		{"rm", []byte{0xF8}},
		{"rst 3", []byte{0xDF}},
		{"push psw", []byte{0xF5}},
		{"pop b", []byte{0xC1}},
		{"in 10", []byte{0xDB, 0x10}},
		{"out ff", []byte{0xD3, 0xFF}},
		{"stax d", []byte{0x12}},
		{"lda $4000", []byte{0x3A, 0x00, 0x40}},
	}

	for _, c := range cases {
		got, err := Encode(c.line)
		if err != nil {
			t.Fatalf("Encode(%q): %v", c.line, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("Encode(%q) = % X, want % X", c.line, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("Encode(%q) = % X, want % X", c.line, got, c.want)
			}
		}
	}
}

func TestEncodeIsCaseInsensitiveAndWhitespaceTolerant(t *testing.T) {
	got, err := Encode("  MVI   A ,   $2A  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 0x3E || got[1] != 0x2A {
		t.Fatalf("Encode with mixed case/whitespace = % X, want 3E 2A", got)
	}
}

func TestEncodeUnknownMnemonicFails(t *testing.T) {
	if _, err := Encode("frobnicate"); err == nil {
		t.Fatal("expected an EncodeError for an unknown mnemonic")
	}
}

func TestEncodeLdaxDisallowsH(t *testing.T) {
	if _, err := Encode("ldax h"); err == nil {
		t.Fatal("expected LDAX H to fail; only B and D are valid")
	}
}

func TestEncodeImmediateTooWideFails(t *testing.T) {
	if _, err := Encode("mvi a, $123"); err == nil {
		t.Fatal("expected a 3-digit 8-bit immediate to fail")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"nop", "mov b, c", "mvi a, $7f", "lxi d, $abcd", "add M",
		"sub a", "ana l", "ora h", "xra b", "cmp e",
		"adi $10", "sui $20", "ani $30", "ori $40", "xri $50", "cpi $60",
		"jmp $1000", "call $2000", "ret", "rst 5",
		"jnz $0100", "cnc $0200", "rpe",
		"push h", "pop d", "push psw", "pop psw",
		"in 5", "out a0",
		"inx b", "dcx h", "dad sp",
		"stax b", "ldax d", "sta $3000", "lda $4000", "shld $5000", "lhld $6000",
		"rlc", "rrc", "ral", "rar", "cma", "cmc", "stc", "daa",
		"xchg", "xthl", "pchl", "sphl", "ei", "di", "hlt",
	}

	for _, line := range cases {
		encoded, err := Encode(line)
		if err != nil {
			t.Fatalf("Encode(%q): %v", line, err)
		}
		decoded, length, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)=% X): %v", line, encoded, err)
		}
		if length != len(encoded) {
			t.Fatalf("Decode length %d != Encode length %d for %q", length, len(encoded), line)
		}
		reencoded, err := Encode(decoded)
		if err != nil {
			t.Fatalf("re-encoding decoded text %q (from %q): %v", decoded, line, err)
		}
		if len(reencoded) != len(encoded) {
			t.Fatalf("round trip length mismatch for %q: % X vs % X", line, reencoded, encoded)
		}
		for i := range reencoded {
			if reencoded[i] != encoded[i] {
				t.Fatalf("round trip byte mismatch for %q: got % X, want % X", line, reencoded, encoded)
			}
		}
	}
}
