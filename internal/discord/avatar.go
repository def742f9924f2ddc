package discord

import (
	"fmt"
	"strconv"
	"strings"
)

const cdnBaseURL = "https://cdn.discordapp.com"

// AvatarURL builds the CDN URL for a user's avatar.
//
// Hashes prefixed "a_" are animated and served as gif, everything else as
// png. When the user has no custom avatar (nil or empty hash), Discord
// serves one of five default images chosen by the user ID.
func AvatarURL(discordID string, avatarHash *string, size int) string {
	if avatarHash != nil && *avatarHash != "" {
		ext := "png"
		if strings.HasPrefix(*avatarHash, "a_") {
			ext = "gif"
		}
		return fmt.Sprintf("%s/avatars/%s/%s.%s?size=%d", cdnBaseURL, discordID, *avatarHash, ext, size)
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBaseURL, DefaultAvatarIndex(discordID))
}

// DefaultAvatarIndex maps a Discord ID onto one of the five stock avatars
// (id mod 5). An ID that doesn't parse as a snowflake maps to 0.
func DefaultAvatarIndex(discordID string) int {
	n, err := strconv.ParseUint(discordID, 10, 64)
	if err != nil {
		return 0
	}
	return int(n % 5)
}
