package cmd

import "testing"

func TestMaskSecret(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc", "****"},
		{"abcdefgh", "abcd..."},
		{"postgres://user:pw@host/db", "postgres...t/db"},
	}
	for _, tc := range tests {
		if got := maskSecret(tc.in); got != tc.want {
			t.Fatalf("maskSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
