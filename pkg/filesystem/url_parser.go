package filesystem

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// DefaultSFTPPort is used when an sftp:// URL has no port.
	DefaultSFTPPort = 22
)

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// String renders the location for display, without credentials beyond the user name.
func (p *ParsedPath) String() string {
	if !p.IsRemote {
		return p.LocalPath
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", p.User, p.Host, p.Port, strings.TrimPrefix(p.Path, "/"))
}

// IsRemotePath reports whether s is an sftp:// URL.
func IsRemotePath(s string) bool {
	return strings.HasPrefix(s, "sftp://")
}

// ParsePath parses a path string, detecting whether it's a local path, a file:// URL
// or an SFTP URL.
// SFTP URLs have the format: sftp://user@host:port/path/to/dir
// Port is optional (defaults to 22)
// Examples:
//   - sftp://joe@myserver.com/videos/clip.mp4
//   - sftp://joe@myserver.com:2222//srv/downloads
//   - file:///home/joe/clip.mp4
//   - /local/path/to/clip.mp4
func ParsePath(path string) (*ParsedPath, error) {
	switch {
	case IsRemotePath(path):
		return parseSFTPURL(path)
	case strings.HasPrefix(path, "file://"):
		return parseFileURL(path)
	default:
		return &ParsedPath{LocalPath: path}, nil
	}
}

func parseFileURL(fileURL string) (*ParsedPath, error) {
	u, err := url.Parse(fileURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}

	if u.Host != "" && u.Host != "localhost" {
		return nil, fmt.Errorf("file URL must point at this machine, got host %s", u.Host) //nolint:err113 // URL validation with actual host
	}

	if u.Path == "" {
		return nil, fmt.Errorf("file URL must include a path") //nolint:err113,perfsprint // URL validation error
	}

	return &ParsedPath{LocalPath: u.Path}, nil
}

// parseSFTPURL parses an SFTP URL into its components.
//
//nolint:cyclop // Complexity from comprehensive SFTP URL validation (scheme, user, host, port, path)
func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("SFTP URL must include username (sftp://user@host/path)") //nolint:err113,perfsprint // URL validation with format guidance
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("SFTP URL must include host") //nolint:err113,perfsprint // URL validation error
	}

	port := DefaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}

		if p <= 0 || p > 65535 {
			return nil, fmt.Errorf("port out of range: %d", p) //nolint:err113 // URL validation with actual port
		}

		port = p
	}

	// SFTP path convention:
	//   sftp://user@host/path  → relative to home directory (strip leading /)
	//   sftp://user@host//path → absolute path /path (strip one /)
	//   sftp://user@host       → home directory (.)
	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath,
	}, nil
}
