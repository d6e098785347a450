package shortener

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxURLLength bounds the normalized URL accepted for shortening.
const MaxURLLength = 1000

var acceptedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// labelPattern matches a "label.label" token such as "example.com".
var labelPattern = regexp.MustCompile(`[\p{L}\p{N}_]+\.[\p{L}\p{N}_]+`)

// ValidateURL checks that rawURL looks like a web address and returns its
// normalized form:
//   - surrounding whitespace is trimmed
//   - a missing scheme defaults to http
//   - scheme and host are lowercased
//   - default ports (80 for http, 443 for https) are removed
//   - bytes not allowed in their component are percent-encoded; existing
//     escapes and reserved characters are kept as written
//   - a '%' that starts no valid escape after the host is read as a literal
//     percent sign and written as %25
//
// The check is syntactic only. The host (or the path, for URLs without one)
// must contain a "label.label" token unless it is localhost or an IP literal.
// ValidateURL is idempotent on its own output.
func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	if !utf8.ValidString(rawURL) {
		return "", fmt.Errorf("%w: not valid utf-8", ErrInvalidURL)
	}

	u, err := parseWithDefaultScheme(escapeStrayPercents(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if !acceptedSchemes[u.Scheme] {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	u.Host = strings.ToLower(u.Host)

	// Remove default ports
	if u.Port() == "80" && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	} else if u.Port() == "443" && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if !plausibleLocation(u) {
		return "", fmt.Errorf("%w: %q has no plausible host", ErrInvalidURL, rawURL)
	}

	u.RawQuery = escapeQuery(u.RawQuery)

	normalized := u.String()
	if len(normalized) > MaxURLLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidURL, MaxURLLength)
	}

	return normalized, nil
}

func parseWithDefaultScheme(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		// "127.0.0.1:8080/x" fails as a relative path with a colon.
		if schemeSeparator(rawURL) >= 0 {
			return nil, err
		}

		return url.Parse("http://" + rawURL)
	}

	if u.Scheme != "" && !looksLikeHostPort(rawURL, u) {
		return u, nil
	}

	if u.Scheme == "" && u.Host != "" {
		// "//example.com/path"
		u.Scheme = "http"

		return u, nil
	}

	return url.Parse("http://" + rawURL)
}

// looksLikeHostPort reports whether a scheme-less "host:port/path" was read
// as scheme "host" with an opaque "port/path".
func looksLikeHostPort(rawURL string, u *url.URL) bool {
	if schemeSeparator(rawURL) >= 0 || acceptedSchemes[strings.ToLower(u.Scheme)] {
		return false
	}

	if strings.Contains(u.Scheme, ".") {
		return true
	}

	return u.Opaque != "" && u.Opaque[0] >= '0' && u.Opaque[0] <= '9'
}

func plausibleLocation(u *url.URL) bool {
	if u.Host == "" {
		return labelPattern.MatchString(u.Opaque + u.Path)
	}

	hostname := u.Hostname()
	if hostname == "localhost" || net.ParseIP(hostname) != nil {
		return true
	}

	return labelPattern.MatchString(hostname)
}

// schemeSeparator returns the index of the "://" ending a scheme, or -1.
// A "://" after the first '/', '?' or '#' belongs to the path or query.
func schemeSeparator(rawURL string) int {
	i := strings.Index(rawURL, "://")
	if i < 0 || strings.ContainsAny(rawURL[:i], "/?#") {
		return -1
	}

	return i
}

// escapeStrayPercents rewrites each '%' after the authority that does not
// start a valid escape as %25. The authority itself is left alone.
func escapeStrayPercents(rawURL string) string {
	start := 0
	if i := schemeSeparator(rawURL); i >= 0 {
		start = i + len("://")
	} else if strings.HasPrefix(rawURL, "//") {
		start = len("//")
	}

	end := strings.IndexAny(rawURL[start:], "/?#")
	if end < 0 {
		return rawURL
	}

	start += end

	var b strings.Builder

	b.WriteString(rawURL[:start])

	for i := start; i < len(rawURL); i++ {
		c := rawURL[i]
		if c == '%' && !(i+2 < len(rawURL) && isHex(rawURL[i+1]) && isHex(rawURL[i+2])) {
			b.WriteString("%25")

			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

// escapeQuery percent-encodes query bytes outside the RFC 3986 query set.
// Valid escapes are preserved, a lone '%' becomes %25.
func escapeQuery(rawQuery string) string {
	var b strings.Builder

	for i := 0; i < len(rawQuery); i++ {
		c := rawQuery[i]

		switch {
		case c == '%' && i+2 < len(rawQuery) && isHex(rawQuery[i+1]) && isHex(rawQuery[i+2]):
			b.WriteByte(c)
		case c != '%' && allowedInQuery(c):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}

	return b.String()
}

func allowedInQuery(c byte) bool {
	if isUnreserved(c) {
		return true
	}

	return strings.IndexByte("!$&'()*+,;=:@/?", c) >= 0
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
