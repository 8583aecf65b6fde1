package server

import (
	"regexp"
	"strings"
)

// appCategories maps a display category to the app names that belong to it.
// Used for timeline tags and the /api/apps category field.
var appCategories = map[string][]string{
	"Development": {
		"VS Code", "Visual Studio", "Code", "IntelliJ", "WebStorm", "PyCharm",
		"Xcode", "Android Studio", "Terminal", "iTerm", "Sublime", "Cursor",
		"Atom", "Vim", "Emacs", "Neovim", "nvim", "code-server",
	},
	"Browser": {
		"Chrome", "Firefox", "Safari", "Edge", "Arc", "Brave", "Opera", "Chromium",
	},
	"Communication": {
		"Slack", "Discord", "Teams", "Zoom", "Messages", "Mail",
		"Outlook", "Telegram", "WhatsApp", "Signal",
	},
	"Design": {
		"Figma", "Sketch", "Photoshop", "Illustrator", "Canva",
		"Adobe XD", "Affinity", "GIMP", "Inkscape",
	},
	"Productivity": {
		"Notion", "Obsidian", "Notes", "Evernote", "Bear",
		"Word", "Excel", "PowerPoint", "Pages", "Numbers", "Keynote",
		"Google Docs", "Google Sheets",
	},
	"Media": {
		"Spotify", "Music", "VLC", "QuickTime", "Photos", "Preview", "YouTube",
	},
	"System": {
		"Finder", "Explorer", "Settings", "System Preferences", "Activity Monitor",
	},
}

// extensionTags maps file extensions spotted in window titles to tags.
var extensionTags = map[string]string{
	"tsx": "React", "jsx": "React",
	"ts": "TypeScript", "js": "JavaScript",
	"py": "Python", "go": "Go", "rs": "Rust",
	"md": "Markdown", "json": "Config",
	"html": "HTML", "css": "CSS", "scss": "SCSS",
}

var titleExtension = regexp.MustCompile(`\.(\w+)(?:\s|$|-|—)`)

// appCategory returns the display category for an app name, or "".
func appCategory(app string) string {
	lower := strings.ToLower(app)
	if lower == "" {
		return ""
	}
	for category, apps := range appCategories {
		for _, a := range apps {
			if strings.Contains(lower, strings.ToLower(a)) {
				return category
			}
		}
	}
	return ""
}

// generateTags derives display tags from the app name and window title:
// the app's category, a cleaned app name, and a language tag when the
// title looks like an open file.
func generateTags(app, title string) []string {
	var tags []string

	if cat := appCategory(app); cat != "" {
		tags = append(tags, cat)
	}

	if app != "" && !strings.EqualFold(app, "unknown") {
		clean := strings.TrimSpace(strings.NewReplacer(".exe", "", ".app", "").Replace(app))
		if clean != "" && !contains(tags, clean) {
			tags = append(tags, clean)
		}
	}

	if title != "" {
		if m := titleExtension.FindStringSubmatch(title); m != nil {
			if tag, ok := extensionTags[strings.ToLower(m[1])]; ok && !contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}

	if tags == nil {
		tags = []string{}
	}
	return tags
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
