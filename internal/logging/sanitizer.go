package logging

import (
	"regexp"
)

// Redacted replaces every credential the Sanitizer finds.
const Redacted = "[REDACTED]"

// Rule is one named redaction pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Sanitizer strips credentials from text before it reaches a log line or a
// console banner. Crash reasons and handler command lines are the usual
// carriers: environment dumps, URLs with userinfo, bearer headers.
type Sanitizer struct {
	rules []Rule
}

var builtinRules = []Rule{
	{"url-userinfo", regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`)},
	{"pem-private-key", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key["'\s:=]+[A-Za-z0-9/+=]{40}`)},
	{"slack-token", regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`)},
	{"api-key", regexp.MustCompile(`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`)},
	{"secret", regexp.MustCompile(`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`)},
	{"password", regexp.MustCompile(`(?i)passw(or)?d["'\s:=]+[^\s"']{8,}`)},
	{"token", regexp.MustCompile(`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`)},
}

// NewSanitizer returns a sanitizer with the built-in rules followed by extra.
func NewSanitizer(extra ...Rule) *Sanitizer {
	rules := make([]Rule, 0, len(builtinRules)+len(extra))
	rules = append(rules, builtinRules...)
	return &Sanitizer{rules: append(rules, extra...)}
}

// Sanitize returns input with every match replaced by Redacted.
func (s *Sanitizer) Sanitize(input string) string {
	for _, r := range s.rules {
		input = r.Pattern.ReplaceAllLiteralString(input, Redacted)
	}
	return input
}

// Matches names the rules that fire on input, in rule order.
func (s *Sanitizer) Matches(input string) []string {
	var names []string
	for _, r := range s.rules {
		if r.Pattern.MatchString(input) {
			names = append(names, r.Name)
		}
	}
	return names
}
