package notify

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
		valid    bool
	}{
		{"9876543210", "+919876543210", true},
		{" 9876543210 ", "+919876543210", true},
		{"+919876543210", "+919876543210", true},
		{"+14155550100", "+14155550100", true},
		{"919876543210", "919876543210", false},
		{"98765", "98765", false},
		{"+0123456789", "+0123456789", false},
		{"98765-43210", "98765-43210", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := NormalizePhone(tt.in)
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if ValidE164(got) != tt.valid {
			t.Errorf("ValidE164(%q) = %v, want %v", got, !tt.valid, tt.valid)
		}
	}
}
