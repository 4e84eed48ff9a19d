package models

import "testing"

func TestParseItemID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"1700000000000", 1700000000000, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseItemID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseItemID(%q) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseItemID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
