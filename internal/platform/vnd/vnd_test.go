package vnd

import "testing"

func TestFormatGroupsThousands(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 ₫"},
		{50000, "50.000 ₫"},
		{250000, "250.000 ₫"},
		{1250000, "1.250.000 ₫"},
	}
	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Fatalf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
