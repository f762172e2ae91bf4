package service

import "testing"

func TestSlugUsername(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{"plain name", "alice", "alice"},
		{"mixed case", "AliceSmith", "alicesmith"},
		{"spaces stripped", "Alice Smith", "alicesmith"},
		{"email uses local part", "alice.smith@example.com", "alicesmith"},
		{"digits kept", "user42", "user42"},
		{"symbols stripped", "a_l-i.c!e", "alice"},
		{"unicode stripped", "Ålice Ömür", "licemr"},
		{"empty", "", ""},
		{"only symbols", "---", ""},
		{"truncated", "abcdefghijabcdefghijabcdefghijabcdefghij", "abcdefghijabcdefghijabcdefghij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugUsername(tt.seed); got != tt.want {
				t.Errorf("slugUsername(%q) = %q, want %q", tt.seed, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "bob", "carol"); got != "bob" {
		t.Errorf("firstNonEmpty = %q, want %q", got, "bob")
	}
	if got := firstNonEmpty("", "", ""); got != "" {
		t.Errorf("firstNonEmpty = %q, want empty", got)
	}
}
