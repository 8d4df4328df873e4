package task

import (
	"regexp"
	"strings"
)

var (
	underscoreRun = regexp.MustCompile(`_+`)
	unsafeChars   = regexp.MustCompile(`[^a-z0-9_]`)
)

// NormalizeName turns a package name into a string safe for Makefile targets and shell variables.
// Runs of underscores are lengthened first so that the escapes below cannot collide with them.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "@", "")
	s = underscoreRun.ReplaceAllStringFunc(s, func(m string) string { return m + "__" })
	s = strings.ReplaceAll(s, "/", "__slash__")
	s = strings.ReplaceAll(s, ".", "__dot__")
	s = strings.ReplaceAll(s, "-", "_")
	return unsafeChars.ReplaceAllString(s, "_")
}
