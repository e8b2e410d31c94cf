package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxRoomIDLength = 32
	MaxNameLength   = 24
	MaxChatLength   = 200
)

// SanitizeRoomID keeps letters, digits, '-' and '_' and truncates the result.
// Room ids are case-sensitive.
func SanitizeRoomID(raw string) string {
	var b strings.Builder
	for _, r := range norm.NFKC.String(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return truncate(b.String(), MaxRoomIDLength)
}

func SanitizeName(raw string) string {
	return cleanText(raw, MaxNameLength)
}

func SanitizeChat(raw string) string {
	return cleanText(raw, MaxChatLength)
}

// cleanText drops control characters and markup-significant punctuation,
// collapses whitespace runs into single spaces, trims, then truncates.
func cleanText(raw string, limit int) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range norm.NFKC.String(raw) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), strings.ContainsRune("<>&\"'`", r):
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(truncate(b.String(), limit))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
