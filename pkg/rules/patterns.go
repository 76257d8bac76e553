package rules

import (
	"regexp"

	"github.com/aretw0/regseek/pkg/core"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile("^https?://[^\\s<>\"{}|\\\\^`\\[\\]]+$")
)

func validURL(v any) bool {
	s, ok := v.(string)
	return ok && urlPattern.MatchString(s)
}

func validEmail(v any) bool {
	s, ok := v.(string)
	return ok && emailPattern.MatchString(s)
}

// validDate accepts YYYY-MM-DD strings and YAML timestamps rendered the same way.
func validDate(v any) bool {
	return datePattern.MatchString(core.Label(v))
}
