package service

import "strings"

var filenameReplacer = strings.NewReplacer(
	"/", "",
	"\\", "",
	":", "",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFilename maps an arbitrary title to a filesystem-safe token
// by dropping path separators and the characters Windows forbids in
// names. Sanitizing an already sanitized name is a no-op.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}
