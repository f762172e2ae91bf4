package cdn

import "testing"

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"folder and file", "https://images.example.com/photocomp/submissions/abc123.jpg", "submissions/abc123"},
		{"png extension", "https://images.example.com/photocomp/profiles/xyz.png", "profiles/xyz"},
		{"no extension", "https://images.example.com/photocomp/submissions/abc123", "submissions/abc123"},
		{"single segment", "https://images.example.com/abc123.jpg", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublicIDFromURL(tt.url)
			if err != nil {
				t.Fatalf("PublicIDFromURL(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("PublicIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestPublicIDFromURL_NoPath(t *testing.T) {
	if _, err := PublicIDFromURL("https://images.example.com"); err == nil {
		t.Error("expected error for URL without path")
	}
}
