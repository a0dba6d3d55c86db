// Package platform detects the host operating system and architecture
// used to pick the right sidecar binaries for this machine.
//
// OS and architecture come from runtime.GOOS/GOARCH; on Linux, gopsutil
// adds distribution details that only show up in diagnostics.
package platform

import "context"

// Info contains platform detection information.
type Info struct {
	OS            string // "linux", "darwin", "windows"
	Arch          string // "amd64", "arm64" (normalized)
	ArchRaw       string // original GOARCH value
	Distro        string // distro ID (Linux only, e.g. "ubuntu")
	DistroVersion string // distro version (Linux only, e.g. "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// LogValues returns the platform as structured-logging key/value pairs.
// Distro fields are included only when detection filled them in.
func (i *Info) LogValues() []any {
	kv := []any{"os", i.OS, "arch", i.Arch}
	if i.Distro != "" {
		kv = append(kv, "distro", i.Distro)
	}
	if i.DistroVersion != "" {
		kv = append(kv, "distro_version", i.DistroVersion)
	}
	return kv
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
