package money

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		parsed bool
	}{
		{"$1,234.56", "1234.56", true},
		{"(12.00)", "-12.00", true},
		{"($12.00)", "-12.00", true},
		{"-$5.10", "-5.10", true},
		{"0", "0.00", true},
		{"17", "17.00", true},
		{" $0.5 ", "0.50", true},
		{"abc", "abc", false},
		{"", "", false},
		{"$", "$", false},
		{"12.3.4", "12.3.4", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.Text != tt.want || got.Parsed != tt.parsed {
				t.Fatalf("Normalize(%q) = %+v, want {%q %v}", tt.in, got, tt.want, tt.parsed)
			}
		})
	}
}

func TestIsCurrencyToken(t *testing.T) {
	tests := map[string]bool{
		"$123.45":    true,
		"$1,234.00":  true,
		"(12.00)":    true,
		"-$3.00":     true,
		"0":          true,
		"(12.00":     false,
		"12.00)":     false,
		"$12.3":      false,
		"B6":         false,
		"01/02/2025": false,
		"1,23":       false,
	}
	for tok, want := range tests {
		if got := IsCurrencyToken(tok); got != want {
			t.Errorf("IsCurrencyToken(%q) = %v, want %v", tok, got, want)
		}
	}
}

func TestCountTokens(t *testing.T) {
	if n := CountTokens("01/23/2025 OFFICE VISIT $10.00 $0.00"); n != 2 {
		t.Fatalf("CountTokens = %d, want 2", n)
	}
	if n := CountTokens("01/23/2025 LAB"); n != 0 {
		t.Fatalf("CountTokens on a bare date line = %d, want 0", n)
	}
}
