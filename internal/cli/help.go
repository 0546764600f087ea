package cli

import (
	"fmt"
	"io"

	"github.com/autobrr/go-mediaprobe/internal/config"
)

func Help(program string, stdout io.Writer) {
	Version(stdout)
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] FileName1 [Filename2...]\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Options:")
	fmt.Fprintln(stdout, "--Help, -h")
	fmt.Fprintln(stdout, "                    Display this help and exit")
	fmt.Fprintln(stdout, "--Version")
	fmt.Fprintln(stdout, "                    Display version information and exit")
	fmt.Fprintln(stdout, "--Help-Output")
	fmt.Fprintln(stdout, "                    Display help for Output= option")
	fmt.Fprintln(stdout, "--Help-Config")
	fmt.Fprintln(stdout, "                    Display the configuration file location and format")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "--Output=TEXT|JSON")
	fmt.Fprintln(stdout, "                    Select output format (default TEXT)")
	fmt.Fprintln(stdout, "--LogFile=...")
	fmt.Fprintln(stdout, "                    Save the output in the specified file")
	fmt.Fprintln(stdout, "--Config=...")
	fmt.Fprintln(stdout, "                    Read settings from the specified TOML file")
	fmt.Fprintln(stdout, "--Jobs=1..64")
	fmt.Fprintln(stdout, "                    Number of files probed concurrently (default 4)")
	fmt.Fprintln(stdout, "--MaxBytes=...")
	fmt.Fprintln(stdout, "                    Bytes read from the start of each file (default 16777216)")
	fmt.Fprintln(stdout, "--LogLevel=trace|debug|info|warn|error|disabled")
	fmt.Fprintln(stdout, "                    Diagnostic log level on stderr (default warn)")
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "completion           Generate the autocompletion script for the specified shell")
	fmt.Fprintln(stdout, "config               Print a sample configuration file")
	fmt.Fprintln(stdout, "help                 Help about any command")
	fmt.Fprintln(stdout, "version              Print go-mediaprobe version information")
	fmt.Fprintln(stdout, "update               Update mediaprobe to latest version (release builds only)")
}

func HelpNothing(program string, stdout io.Writer) {
	fmt.Fprintf(stdout, "Usage: \"%s [-Options...] FileName1 [Filename2...]\"\n", program)
	fmt.Fprintf(stdout, "\"%s --help\" for displaying more information\n", program)
}

func HelpOutput(program string, stdout io.Writer) {
	fmt.Fprintln(stdout, "--Output=...  Select an output format")
	fmt.Fprintf(stdout, "Usage: \"%s --Output=JSON FileName\"\n", program)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Supported formats:")
	fmt.Fprintln(stdout, "TEXT, JSON")
}

func HelpConfig(program string, stdout io.Writer) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		path = "~/.config/mediaprobe/config.toml"
	}
	fmt.Fprintf(stdout, "Default configuration file: %s\n", path)
	fmt.Fprintf(stdout, "Print a sample with \"%s config\"\n", program)
}

func Usage(program string, stdout io.Writer) int {
	HelpNothing(program, stdout)
	return exitError
}
