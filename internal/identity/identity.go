// Package identity derives short player identifiers from connection
// metadata. The scheme is best-effort fingerprinting, not verified identity:
// two connections presenting identical fingerprints get the same id.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// Fingerprint is the tuple a player id is derived from.
type Fingerprint struct {
	UserAgent string
	Origin    string
	Port      string
}

// FromRequest extracts the fingerprint inputs from an upgrade request.
// Missing headers degrade to "unknown" rather than failing.
func FromRequest(r *http.Request) Fingerprint {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "unknown"
	}

	port := "unknown"
	if parts := strings.Split(origin, ":"); len(parts) > 2 {
		port = parts[2]
	}

	return Fingerprint{
		UserAgent: r.Header.Get("User-Agent"),
		Origin:    origin,
		Port:      port,
	}
}

// Assign derives the player id: sha256 of "class-origin-port", truncated to
// 12 hex characters. Deterministic, never fails. Uniqueness is probabilistic
// only.
func Assign(fp Fingerprint) string {
	identifier := browserClass(fp.UserAgent) + "-" + fp.Origin + "-" + fp.Port
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])[:12]
}

// browserClass buckets a User-Agent into a coarse browser family. Substring
// checks only; anything unrecognized is "Unknown".
func browserClass(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	default:
		return "Unknown"
	}
}
