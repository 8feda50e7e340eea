package source

import "net/url"

// redactURI removes the password from a connection URI so it can appear in
// errors and logs. Unparseable input is replaced entirely.
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}
