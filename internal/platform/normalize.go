package platform

import (
	"fmt"
	"strings"
)

// normalizeArch converts GOARCH values to normalized architecture names.
// The published ffmpeg builds cover amd64 natively and arm64 macs through
// Rosetta, so everything else is rejected.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// normalizeDistro converts distro identifiers to lowercase for consistency.
func normalizeDistro(distro string) string {
	return strings.ToLower(strings.TrimSpace(distro))
}
