package utils

// Truncate shortens s to maxLen bytes followed by "..." so long payloads stay
// readable in debug logs.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
