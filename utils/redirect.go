package utils

import (
	"net/url"
	"strings"
)

// SafeReturnURL keeps only same-site relative paths. Anything carrying a
// scheme, a host or a protocol-relative prefix collapses to "/".
func SafeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}
