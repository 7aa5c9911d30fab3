package utils

import "github.com/microcosm-cc/bluemonday"

// Profile fields (display name, bio) are plain text; strip all markup.
var profilePolicy = bluemonday.StrictPolicy()

// SanitizeProfileText removes any HTML from user-supplied profile text.
func SanitizeProfileText(input string) string {
	return profilePolicy.Sanitize(input)
}
