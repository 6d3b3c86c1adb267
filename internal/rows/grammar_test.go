package rows

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Match
		ok   bool
	}{
		{
			name: "single code",
			in:   "01/23/2025 OFFICE VISIT $123.45 $0.00 $0.00 17",
			want: Match{Date: "01/23/2025", Description: "OFFICE VISIT", Amounts: [3]string{"$123.45", "$0.00", "$0.00"}, Codes: "17"},
			ok:   true,
		},
		{
			name: "several codes",
			in:   "01/23/2025 LAB $12.00 $10.00 $2.00 B6 N3",
			want: Match{Date: "01/23/2025", Description: "LAB", Amounts: [3]string{"$12.00", "$10.00", "$2.00"}, Codes: "B6 N3"},
			ok:   true,
		},
		{
			name: "amount inside description",
			in:   "02/01/2025 COPAY $25.00 WAIVED $80.00 $55.00 $25.00 AR",
			want: Match{Date: "02/01/2025", Description: "COPAY $25.00 WAIVED", Amounts: [3]string{"$80.00", "$55.00", "$25.00"}, Codes: "AR"},
			ok:   true,
		},
		{
			name: "negative amounts",
			in:   "03/03/2025 ADJUSTMENT ($40.00) -$40.00 $0.00 X1",
			want: Match{Date: "03/03/2025", Description: "ADJUSTMENT", Amounts: [3]string{"($40.00)", "-$40.00", "$0.00"}, Codes: "X1"},
			ok:   true,
		},
		{
			name: "numeric codes",
			in:   "01/23/2025 OFFICE VISIT $100.00 $20.00 $80.00 17 45",
			want: Match{Date: "01/23/2025", Description: "OFFICE VISIT", Amounts: [3]string{"$100.00", "$20.00", "$80.00"}, Codes: "17 45"},
			ok:   true,
		},
		{
			name: "numeric code before alphanumeric",
			in:   "01/23/2025 OFFICE VISIT $100.00 $20.00 $80.00 17 N3",
			want: Match{Date: "01/23/2025", Description: "OFFICE VISIT", Amounts: [3]string{"$100.00", "$20.00", "$80.00"}, Codes: "17 N3"},
			ok:   true,
		},
		{
			name: "numeric codes after amount in description",
			in:   "02/01/2025 COPAY $25.00 WAIVED $80.00 $55.00 $25.00 17 45 B6",
			want: Match{Date: "02/01/2025", Description: "COPAY $25.00 WAIVED", Amounts: [3]string{"$80.00", "$55.00", "$25.00"}, Codes: "17 45 B6"},
			ok:   true,
		},
		{name: "codes missing", in: "01/23/2025 OFFICE VISIT $123.45 $0.00 $0.00"},
		{name: "description missing", in: "01/23/2025 $123.45 $0.00 $0.00 17"},
		{name: "two amounts", in: "01/23/2025 OFFICE VISIT $0.00 $0.00 17"},
		{name: "no date", in: "Totals $123.45 $0.00 $0.00 17"},
		{name: "lowercase codes", in: "01/23/2025 VISIT $1.00 $1.00 $0.00 see note"},
		{name: "codes too long", in: "01/23/2025 VISIT $1.00 $1.00 $0.00 AAAAAAAAAA BBBBBBBBBB CCCCCCCCCC DDDDDDDDDD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStartsRow(t *testing.T) {
	if !StartsRow("01/02/2025 OFFICE VISIT") {
		t.Fatal("date line not recognized")
	}
	for _, line := range []string{"Totals $1.00", "1/2/2025 VISIT", "01/02/25 VISIT", "01/02/2025X"} {
		if StartsRow(line) {
			t.Fatalf("%q should not start a row", line)
		}
	}
}
