package analyze

import "strings"

const (
	AppName = "go-mediaprobe"
	AppURL  = "https://github.com/autobrr/go-mediaprobe"
)

var AppVersion = "dev"

func SetAppVersion(version string) {
	if version != "" {
		AppVersion = version
	}
}

// FormatVersion renders a version for display: "dev" stays as is, anything else
// gets a single "v" prefix.
func FormatVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return "dev"
	}
	return "v" + strings.TrimPrefix(version, "v")
}
