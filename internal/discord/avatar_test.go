package discord

import "testing"

func strPtr(s string) *string { return &s }

func TestAvatarURL_CustomHash(t *testing.T) {
	got := AvatarURL("123456789012345678", strPtr("abc123"), 128)
	want := "https://cdn.discordapp.com/avatars/123456789012345678/abc123.png?size=128"
	if got != want {
		t.Errorf("AvatarURL() = %q, want %q", got, want)
	}
}

func TestAvatarURL_AnimatedHash(t *testing.T) {
	got := AvatarURL("42", strPtr("a_deadbeef"), 256)
	want := "https://cdn.discordapp.com/avatars/42/a_deadbeef.gif?size=256"
	if got != want {
		t.Errorf("AvatarURL() = %q, want %q", got, want)
	}
}

func TestAvatarURL_DefaultAvatar(t *testing.T) {
	// 7 mod 5 = 2
	got := AvatarURL("7", nil, 128)
	want := "https://cdn.discordapp.com/embed/avatars/2.png"
	if got != want {
		t.Errorf("AvatarURL() = %q, want %q", got, want)
	}

	// Empty hash behaves like no hash.
	if got := AvatarURL("7", strPtr(""), 128); got != want {
		t.Errorf("AvatarURL() with empty hash = %q, want %q", got, want)
	}
}

func TestDefaultAvatarIndex(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"0", 0},
		{"4", 4},
		{"5", 0},
		{"123456789012345678", 3}, // ...678 mod 5
		{"not-a-number", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := DefaultAvatarIndex(tt.id); got != tt.want {
			t.Errorf("DefaultAvatarIndex(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
