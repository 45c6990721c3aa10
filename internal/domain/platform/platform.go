// Package platform detects the host environment kindling provisions:
// OS family, architecture, and whether we run inside a container.
package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// ErrUnsupportedOS indicates the host is not a Debian/Ubuntu-derived
// system and cannot be provisioned.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// supportedFamilies are the os-release IDs kindling can provision
// with apt.
var supportedFamilies = []string{"debian", "ubuntu"}

// Platform contains detected host information.
type Platform struct {
	osID      string   // os-release ID (e.g., "ubuntu")
	versionID string   // os-release VERSION_ID (e.g., "22.04")
	idLike    []string // os-release ID_LIKE parents
	arch      string
	container bool
}

var (
	detected     *Platform
	detectOnce   sync.Once
	detectedErr  error
	testPlatform *Platform // for testing
)

// Detect returns the current platform information.
// Results are cached after the first call.
func Detect() (*Platform, error) {
	if testPlatform != nil {
		return testPlatform, nil
	}

	detectOnce.Do(func() {
		detected, detectedErr = detect()
	})
	return detected, detectedErr
}

// SetTestPlatform sets a mock platform for testing.
// Pass nil to reset to actual detection.
func SetTestPlatform(p *Platform) {
	testPlatform = p
}

func detect() (*Platform, error) {
	p := &Platform{arch: runtime.GOARCH}

	if runtime.GOOS != "linux" {
		p.osID = runtime.GOOS
		return p, nil
	}

	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return nil, fmt.Errorf("reading /etc/os-release: %w", err)
	}

	release := parseOSRelease(string(data))
	p.osID = release["ID"]
	p.versionID = release["VERSION_ID"]
	if like := release["ID_LIKE"]; like != "" {
		p.idLike = strings.Fields(like)
	}
	p.container = inContainer()

	return p, nil
}

// parseOSRelease parses /etc/os-release key=value lines, stripping
// optional quotes.
func parseOSRelease(data string) map[string]string {
	release := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		release[key] = strings.Trim(value, `"'`)
	}
	return release
}

// inContainer reports whether the process runs inside a container.
func inContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	data, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}

	return strings.Contains(string(data), "docker") ||
		strings.Contains(string(data), "containerd")
}

// OSID returns the os-release ID (e.g., "ubuntu", "debian").
func (p *Platform) OSID() string {
	return p.osID
}

// VersionID returns the os-release VERSION_ID.
func (p *Platform) VersionID() string {
	return p.versionID
}

// Arch returns the architecture in Go naming (amd64, arm64).
func (p *Platform) Arch() string {
	return p.arch
}

// InContainer returns true when running inside a container.
func (p *Platform) InContainer() bool {
	return p.container
}

// Supported reports whether the host belongs to the Debian/Ubuntu
// family, either directly or through ID_LIKE.
func (p *Platform) Supported() bool {
	if slices.Contains(supportedFamilies, p.osID) {
		return true
	}
	for _, like := range p.idLike {
		if slices.Contains(supportedFamilies, like) {
			return true
		}
	}
	return false
}

// EnsureSupported returns ErrUnsupportedOS when the host cannot be
// provisioned. No step runs after this fails.
func (p *Platform) EnsureSupported() error {
	if p.Supported() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedOS, p.osID)
}

// HasCommand checks if a command is available in PATH.
func (p *Platform) HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// String returns a human-readable description such as
// "ubuntu 22.04/amd64/container".
func (p *Platform) String() string {
	parts := []string{p.osID}
	if p.versionID != "" {
		parts[0] += " " + p.versionID
	}
	parts = append(parts, p.arch)
	if p.container {
		parts = append(parts, "container")
	}
	return strings.Join(parts, "/")
}

// New creates a Platform with specified values (for testing).
func New(osID, versionID, arch string, idLike []string, container bool) *Platform {
	return &Platform{
		osID:      osID,
		versionID: versionID,
		arch:      arch,
		idLike:    idLike,
		container: container,
	}
}
