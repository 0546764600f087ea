package cli

import (
	"fmt"
	"io"

	"github.com/autobrr/go-mediaprobe/internal/analyze"
)

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "%s, %s\n", analyze.AppName, analyze.FormatVersion(appVersion))
}
