package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/autobrr/go-mediaprobe/internal/analyze"
	"github.com/autobrr/go-mediaprobe/internal/config"
	"github.com/autobrr/go-mediaprobe/internal/logging"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Output   string
	LogFile  string
	Config   string
	Jobs     string
	MaxBytes string
	LogLevel string
}

// Run parses MediaInfo-style arguments (args[0] is the program name), probes the
// named files and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, afero.NewOsFs(), args, stdout, stderr)
}

func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}

	program := programName(args[0])
	opts := Options{}
	files := make([]string, 0)

	for i := 1; i < len(args); i++ {
		original := args[i]
		normalized := normalizeArg(original)

		switch {
		case normalized == "--help" || normalized == "-h":
			Help(program, stdout)
			return exitOK
		case strings.HasPrefix(normalized, "--help-"):
			return helpTopic(normalized, program, stdout)
		case normalized == "--version":
			Version(stdout)
			return exitOK
		case strings.HasPrefix(normalized, "--output="):
			if value, ok := valueAfterEqual(original); ok && value != "" {
				opts.Output = value
			} else {
				HelpOutput(program, stdout)
				return exitError
			}
		case strings.HasPrefix(normalized, "--logfile"):
			opts.LogFile = valueAfterLogfile(original)
		case strings.HasPrefix(normalized, "--config="):
			opts.Config, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--jobs="):
			opts.Jobs, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--maxbytes="):
			opts.MaxBytes, _ = valueAfterEqual(original)
		case strings.HasPrefix(normalized, "--loglevel="):
			opts.LogLevel, _ = valueAfterEqual(original)
		case normalized == "--":
			continue
		case strings.HasPrefix(normalized, "--"):
			fmt.Fprintf(stderr, "Unknown option: %s\n", original)
			return exitError
		default:
			files = append(files, original)
		}
	}

	if len(files) == 0 {
		return Usage(program, stdout)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	logger, closer, err := logging.NewFromConfig(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	defer closer.Close()

	reports, err := analyze.AnalyzeFiles(ctx, fs, files, analyze.Options{
		MaxReadBytes: cfg.Probe.MaxReadBytes,
		Jobs:         cfg.Probe.Jobs,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	var output string
	if cfg.Output.Format == config.OutputJSON {
		output = analyze.RenderJSON(reports)
	} else {
		output = analyze.RenderText(reports)
	}
	fmt.Fprintln(stdout, output)

	logFile := opts.LogFile
	if logFile == "" {
		logFile = cfg.Output.File
	}
	if logFile != "" {
		if err := afero.WriteFile(fs, logFile, []byte(output), 0o644); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitError
		}
	}

	for _, report := range reports {
		if report.Err == nil {
			return exitOK
		}
	}
	return exitError
}

// loadConfig reads the configuration file and layers command line overrides on top.
func loadConfig(opts Options) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.Output != "" {
		switch {
		case strings.EqualFold(opts.Output, "Text"):
			cfg.Output.Format = config.OutputText
		case strings.EqualFold(opts.Output, "JSON"):
			cfg.Output.Format = config.OutputJSON
		default:
			return nil, fmt.Errorf("output format not implemented: %s", opts.Output)
		}
	}
	if opts.Jobs != "" {
		jobs, err := strconv.Atoi(opts.Jobs)
		if err != nil {
			return nil, fmt.Errorf("invalid --Jobs value %q: %w", opts.Jobs, err)
		}
		cfg.Probe.Jobs = jobs
	}
	if opts.MaxBytes != "" {
		maxBytes, err := strconv.ParseInt(opts.MaxBytes, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --MaxBytes value %q: %w", opts.MaxBytes, err)
		}
		cfg.Probe.MaxReadBytes = maxBytes
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(opts.LogLevel))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func helpTopic(normalized, program string, stdout io.Writer) int {
	switch normalized {
	case "--help-output":
		HelpOutput(program, stdout)
	case "--help-config":
		HelpConfig(program, stdout)
	default:
		fmt.Fprintln(stdout, "No help available for this topic")
	}
	return exitOK
}

func programName(arg0 string) string {
	name := filepath.Base(arg0)
	if runtime.GOOS == "windows" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func normalizeArg(arg string) string {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		eq = len(arg)
	}

	lower := strings.ToLower(arg[:eq])
	return lower + arg[eq:]
}

func valueAfterEqual(arg string) (string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		return "", false
	}
	return arg[eq+1:], true
}

func valueAfterLogfile(arg string) string {
	if len(arg) <= len("--logfile=") {
		return ""
	}
	return arg[len("--logfile="):]
}
