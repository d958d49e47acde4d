package refcode

import "testing"

func TestNew_ProducesValidCodes(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		c, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !Valid(c) {
			t.Fatalf("invalid code %q", c)
		}
		seen[c] = struct{}{}
	}
	// 40 bits: 500 códigos sin colisión es lo esperable
	if len(seen) != 500 {
		t.Fatalf("expected 500 distinct codes, got %d", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" 7kd3-qx2m ": "7KD3QX2M",
		"abcd-efgh":   "ABCDEFGH",
		"o1il-0000":   "0111" + "0000",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValid_RejectsWrongShape(t *testing.T) {
	for _, s := range []string{"", "ABC", "ABCDEFGHJ", "ABCDEFGU"} {
		if Valid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("7KD3QX2M"); got != "7KD3-QX2M" {
		t.Fatalf("unexpected display %q", got)
	}
}
