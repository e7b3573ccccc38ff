package ui

import "strings"

// ErrorMessage formats a worker error for the inline error label.
func ErrorMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "Unknown error"
	}
	return "Search Failed: " + msg
}
