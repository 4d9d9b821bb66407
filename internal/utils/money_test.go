package utils

import "testing"

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:       "Rs 0",
		99:      "Rs 99",
		450:     "Rs 450",
		1234:    "Rs 1,234",
		12345:   "Rs 12,345",
		123456:  "Rs 1,23,456",
		1234567: "Rs 12,34,567",
		-450:    "-Rs 450",
	}
	for in, want := range cases {
		if got := FormatRupees(in); got != want {
			t.Fatalf("FormatRupees(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRupeesToInt(t *testing.T) {
	for raw, want := range map[string]int64{
		"Rs 1,234": 1234,
		"99":       99,
		"rs 450":   450,
	} {
		got, err := ParseRupeesToInt(raw)
		if err != nil || got != want {
			t.Fatalf("ParseRupeesToInt(%q) = %d, %v", raw, got, err)
		}
	}
	if _, err := ParseRupeesToInt("Rs "); err == nil {
		t.Fatalf("empty amount must fail")
	}
}
