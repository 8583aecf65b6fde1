package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppCategory(t *testing.T) {
	tests := []struct {
		app      string
		expected string
	}{
		{"Firefox", "Browser"},
		{"Google Chrome", "Browser"},
		{"Visual Studio Code", "Development"},
		{"iTerm2", "Development"},
		{"Slack", "Communication"},
		{"Figma", "Design"},
		{"Spotify", "Media"},
		{"Finder", "System"},
		{"SomeObscureApp", ""},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, appCategory(tc.app), "app %q", tc.app)
	}
}

func TestGenerateTags_CategoryAndAppName(t *testing.T) {
	tags := generateTags("Firefox", "Hacker News")
	assert.Equal(t, []string{"Browser", "Firefox"}, tags)
}

func TestGenerateTags_FileExtension(t *testing.T) {
	tags := generateTags("Cursor", "loop.go - recall")
	assert.Contains(t, tags, "Development")
	assert.Contains(t, tags, "Go")

	tags = generateTags("VS Code", "App.tsx - frontend")
	assert.Contains(t, tags, "React")
}

func TestGenerateTags_StripsExecutableSuffix(t *testing.T) {
	tags := generateTags("firefox.exe", "")
	assert.Contains(t, tags, "firefox")
}

func TestGenerateTags_UnknownApp(t *testing.T) {
	assert.Empty(t, generateTags("", ""))
	assert.Empty(t, generateTags("Unknown", ""))
}
