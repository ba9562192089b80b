package iputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts a validated client address from the request. The first
// hop of X-Forwarded-For wins when it parses as an IP; anything that does
// not parse is discarded rather than used as a lookup key.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := fwd
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			first = fwd[:idx]
		}
		if ip := Sanitize(first); ip != "" {
			return ip
		}
	}

	if ip := Sanitize(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return Sanitize(r.RemoteAddr)
	}
	return Sanitize(host)
}

// Sanitize returns the canonical textual form of s if it is a valid IPv4 or
// IPv6 address, or "" otherwise.
func Sanitize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
