package phototypes

import "testing"

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"photo.png", true},
		{"animation.gif", true},
		{"modern.webp", true},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"virus.exe", false},
		{"noextension", false},
		{"photo.bmp", false},
		{"photo.tiff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowed(tt.name); got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.jpg", "jpg"},
		{"a.JPEG", "jpg"},
		{"a.png", "png"},
		{"a.GIF", "gif"},
		{"a.webp", "webp"},
		{"a", ""},
	}

	for _, tt := range tests {
		if got := Format(tt.name); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsAllowedMime(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/jpeg", true},
		{"image/PNG", true},
		{"image/webp", true},
		{"", true}, // extension check still applies
		{"text/plain", false},
		{"application/octet-stream", false},
	}

	for _, tt := range tests {
		if got := IsAllowedMime(tt.mime); got != tt.want {
			t.Errorf("IsAllowedMime(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestMimeType(t *testing.T) {
	if got := MimeType("a.jpg"); got != "image/jpeg" {
		t.Errorf("MimeType(a.jpg) = %q, want image/jpeg", got)
	}
	if got := MimeType("a.xyz"); got != "application/octet-stream" {
		t.Errorf("MimeType(a.xyz) = %q, want application/octet-stream", got)
	}
}
