package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPostURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/ABC123/", GetPostURL("ABC123"))
	assert.Equal(t, "", GetPostURL(""))
}

func TestEndpointPaths(t *testing.T) {
	assert.Equal(t, "/api/v1/feed/user/42/", FeedEndpoint("42"))
	assert.Equal(t, "/api/v1/media/123/likers/", LikersEndpoint("123"))
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		remaining int
		expected  int
	}{
		{0, DefaultPageSize},
		{-1, DefaultPageSize},
		{5, 5},
		{MaxPageSize, MaxPageSize},
		{500, MaxPageSize},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, pageSize(tt.remaining), "remaining=%d", tt.remaining)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"valid simple", "testuser", true},
		{"valid with underscore", "test_user", true},
		{"valid with dots", "test.user", true},
		{"valid with numbers", "user123", true},
		{"empty", "", false},
		{"too long", "abcdefghijklmnopqrstuvwxyz12345", false},
		{"with space", "test user", false},
		{"with at sign", "@user", false},
		{"with dash", "test-user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alice", "alice"},
		{"  @alice ", "alice"},
		{"https://www.instagram.com/alice/", "alice"},
		{"instagram.com/alice", "alice"},
		{"alice/", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUsername(tt.input))
		})
	}
}

func TestEncPassword(t *testing.T) {
	assert.Equal(t, "#PWD_INSTAGRAM_BROWSER:0:1700000000:secret", encPassword("secret", 1700000000))
}
