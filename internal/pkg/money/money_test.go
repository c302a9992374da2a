package money

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"₹2000 per quintal", 2000, true},
		{"₹1,50,000", 150000, true},
		{"Rs. 1500", 1500, true},
		{"rs 2,500.50", 2500.50, true},
		{"2000", 2000, true},
		{"  ₹3500  ", 3500, true},
		{"negotiable", 0, false},
		{"", 0, false},
		{"₹", 0, false},
		{"per quintal", 0, false},
	}

	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if ok != tc.ok {
			t.Fatalf("Parse(%q): ok = %v, ожидали %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("Parse(%q) = %v, ожидали %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{500, "₹500"},
		{2000, "₹2,000"},
		{1234567, "₹1,234,567"},
		{1999.6, "₹2,000"},
	}

	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.want {
			t.Fatalf("FormatINR(%v) = %q, ожидали %q", tc.in, got, tc.want)
		}
	}
}
