package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"perimeleon/pmexport/pkg/config"
)

// Redactor redacts PII (Personally Identifiable Information) from log fields.
// Member records carry names, email addresses and phone numbers; none of
// these should reach the logs verbatim when redaction is on.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
	replace     func(string) string
}

// Built-in PII pattern names.
const (
	PatternEmail         = "email"
	PatternPhone         = "phone"
	PatternURLCredential = "url_credential"
	PatternPassword      = "password"
)

// NewRedactor creates a new Redactor with default and custom patterns.
// Invalid custom patterns are skipped; configuration validation rejects them
// before a Redactor is built.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}
	r.addDefaultPatterns()

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// addDefaultPatterns adds built-in PII redaction patterns. Credentials in
// URLs run first so the email pattern does not see "user:pass@host".
func (r *Redactor) addDefaultPatterns() {
	r.patterns = append(r.patterns,
		&redactPattern{
			name:        PatternURLCredential,
			regex:       regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://[^:/@\s]+):[^@\s]+@`),
			replacement: "$1:***@",
		},
		&redactPattern{
			name:    PatternEmail,
			regex:   regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
			replace: RedactEmail,
		},
		&redactPattern{
			name:        PatternPhone,
			regex:       regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
			replacement: "***-***-****",
		},
		&redactPattern{
			name:        PatternPassword,
			regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
			replacement: "$1: ***",
		},
	)
}

// RedactString redacts PII from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, p := range r.patterns {
		if p.replace != nil {
			redacted = p.regex.ReplaceAllStringFunc(redacted, p.replace)
		} else {
			redacted = p.regex.ReplaceAllString(redacted, p.replacement)
		}
	}
	return redacted
}

// RedactAttr redacts an slog attribute. Values under sensitive keys are
// masked entirely; other string values are pattern-redacted. Groups are
// redacted recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, maskValue(v.String()))
		}
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		return a
	default:
		return a
	}
}

// isSensitiveKey checks if a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "access_key",
		"authorization", "dsn",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// maskValue replaces a credential, keeping a short prefix for identification.
func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	user, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	if user == "" {
		return "***@" + domain
	}
	return user[:1] + "***@" + domain
}
