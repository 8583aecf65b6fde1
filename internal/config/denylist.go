package config

// DefaultDenylistApps returns a curated list of applications whose windows
// should never be captured: password managers, authenticators, and other
// credential surfaces. Matching is a case-insensitive substring check
// against the foreground application name.
func DefaultDenylistApps() []string {
	return []string{
		// Password managers
		"1Password",
		"Bitwarden",
		"LastPass",
		"Dashlane",
		"KeePassXC",
		"Keeper",
		"NordPass",

		// OS credential stores
		"Keychain Access",
		"Seahorse",
		"Credential Manager",

		// Authenticators
		"Authy",
		"Yubico Authenticator",
	}
}
