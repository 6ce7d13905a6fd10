package validate

import (
	"strings"
	"testing"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Clase de derivadas", ""},
		{"empty", "", "title is required"},
		{"blank", "   ", "title is required"},
		{"at limit", strings.Repeat("a", MaxTitleLength), ""},
		{"accents at limit", strings.Repeat("á", MaxTitleLength), ""},
		{"over limit", strings.Repeat("a", MaxTitleLength+1), "title must be 255 characters or fewer"},
	}
	for _, tt := range tests {
		if got := Title(tt.input); got != tt.want {
			t.Errorf("Title(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestUsernameAndPassword(t *testing.T) {
	if got := Username(""); got != "username is required" {
		t.Errorf("Username(empty) = %q", got)
	}
	if got := Username("ana"); got != "" {
		t.Errorf("Username(ana) = %q", got)
	}
	if got := Password(""); got != "password is required" {
		t.Errorf("Password(empty) = %q", got)
	}
	if got := Password(strings.Repeat("p", MaxPasswordLength+1)); got != "password must be 128 characters or fewer" {
		t.Errorf("Password(long) = %q", got)
	}
}

func TestSource(t *testing.T) {
	allowed := []string{"youtube", "vimeo", "local", "otro"}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"youtube", "youtube", ""},
		{"otro", "otro", ""},
		{"empty", "", "source must be one of: youtube, vimeo, local, otro"},
		{"unknown", "tiktok", "source must be one of: youtube, vimeo, local, otro"},
	}
	for _, tt := range tests {
		if got := Source(tt.input, allowed); got != tt.want {
			t.Errorf("Source(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVideoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"https", "https://www.youtube.com/watch?v=abc", ""},
		{"http", "http://example.com/video.mp4", ""},
		{"ftp", "ftp://example.com/video.mp4", "URL must be an http or https address"},
		{"no host", "https://", "URL must be an http or https address"},
		{"relative", "videos/1", "URL must be an http or https address"},
		{"too long", "https://example.com/" + strings.Repeat("a", MaxURLLength), "URL must be 500 characters or fewer"},
	}
	for _, tt := range tests {
		if got := VideoURL(tt.input); got != tt.want {
			t.Errorf("VideoURL(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUploadOrigin(t *testing.T) {
	const max = 10 * 1024 * 1024
	tests := []struct {
		name    string
		url     string
		hasFile bool
		size    int64
		want    string
	}{
		{"neither", "", false, 0, "provide a video URL or upload a file"},
		{"url only", "https://vimeo.com/1", false, 0, ""},
		{"file within limit", "", true, max, ""},
		{"file over limit", "", true, max + 1, "file must be 10 MB or smaller"},
	}
	for _, tt := range tests {
		if got := UploadOrigin(tt.url, tt.hasFile, tt.size, max); got != tt.want {
			t.Errorf("UploadOrigin(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFieldLimits(t *testing.T) {
	limits := FieldLimits()
	if limits["title"] != MaxTitleLength {
		t.Errorf("expected title limit %d, got %d", MaxTitleLength, limits["title"])
	}
	if len(limits) != 4 {
		t.Errorf("expected 4 limits, got %d", len(limits))
	}
}

func TestSizeLimit(t *testing.T) {
	tests := []struct {
		maxBytes int64
		want     string
	}{
		{0, ""},
		{-1, ""},
		{1024, "1 MB"},
		{10 * 1024 * 1024, "10 MB"},
		{10*1024*1024 + 1, "11 MB"},
	}
	for _, tc := range tests {
		if got := SizeLimit(tc.maxBytes); got != tc.want {
			t.Errorf("SizeLimit(%d) = %q, want %q", tc.maxBytes, got, tc.want)
		}
	}
}
