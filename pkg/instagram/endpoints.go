package instagram

import (
	"fmt"
	"strings"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// LoginPageEndpoint serves the page that sets the csrftoken cookie
	LoginPageEndpoint = "/accounts/login/"

	// LoginEndpoint accepts the credential form
	LoginEndpoint = "/api/v1/web/accounts/login/ajax/"

	// ProfileEndpoint resolves a username to its profile
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// WebAppID identifies the web client to the private API
	WebAppID = "936619743392459"

	// DefaultPageSize is the number of feed items requested per page
	DefaultPageSize = 12

	// MaxPageSize is the largest page the feed endpoint serves
	MaxPageSize = 50
)

// FeedEndpoint returns the media feed path of a user id
func FeedEndpoint(userID string) string {
	return fmt.Sprintf("/api/v1/feed/user/%s/", userID)
}

// LikersEndpoint returns the likers path of a media id
func LikersEndpoint(mediaID string) string {
	return fmt.Sprintf("/api/v1/media/%s/likers/", mediaID)
}

// pageSize picks the count for the next feed page
func pageSize(remaining int) int {
	switch {
	case remaining <= 0:
		return DefaultPageSize
	case remaining > MaxPageSize:
		return MaxPageSize
	default:
		return remaining
	}
}

// GetPostURL constructs the URL for a specific post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername strips a leading @ and surrounding spaces or slashes,
// and accepts a pasted profile URL.
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, BaseURL+"/")
	username = strings.TrimPrefix(username, "instagram.com/")
	username = strings.TrimPrefix(username, "@")
	return strings.Trim(username, "/ ")
}

// encPassword formats a password for the web login form
func encPassword(password string, unix int64) string {
	return fmt.Sprintf("#PWD_INSTAGRAM_BROWSER:0:%d:%s", unix, password)
}
