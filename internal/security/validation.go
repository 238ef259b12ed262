// Package security validates frame sources supplied by remote clients.
package security

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"syscall"
)

// ValidateFrameURL validates an HTTP(S) frame URL for safe downloads.
// Only HTTPS to non-local hosts is allowed.
func ValidateFrameURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("only HTTPS URLs are allowed (got %s)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	// Block localhost and private IPs to prevent SSRF.
	host := strings.ToLower(parsed.Hostname())
	if isLocalOrPrivateHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}

	return nil
}

// ResolveFramePath resolves a client-supplied path against baseDir and
// rejects anything that would escape it. Relative paths are joined to
// baseDir; absolute paths must already lie within it.
func ResolveFramePath(framePath, baseDir string) (string, error) {
	if framePath == "" {
		return "", fmt.Errorf("empty frame path")
	}

	absBase, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}

	candidate := framePath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absBase, candidate)
	}
	candidate = filepath.Clean(candidate)

	if candidate != absBase && !strings.HasPrefix(candidate, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("frame path must be within %s (attempted path traversal)", absBase)
	}

	return candidate, nil
}

// isLocalOrPrivateHost checks if a hostname is localhost or a private,
// loopback or link-local IP. Names that merely resolve to such addresses
// pass here and are caught at dial time by CheckDialAddress.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return IsRestrictedIP(ip)
}

// IsRestrictedIP reports whether ip is loopback, private, link-local or
// unspecified.
func IsRestrictedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// CheckDialAddress rejects a resolved "ip:port" dial address that points at
// a restricted IP. It has the shape of a net.Dialer Control hook.
func CheckDialAddress(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid dial address %q: %w", address, err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("dial address is not an IP: %s", host)
	}
	if IsRestrictedIP(ip) {
		return fmt.Errorf("connection to local or private address refused: %s", ip)
	}
	return nil
}
