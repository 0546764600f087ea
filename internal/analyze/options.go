package analyze

import "github.com/rs/zerolog"

const (
	defaultMaxReadBytes = 16 << 20
	defaultJobs         = 4
)

type Options struct {
	// MaxReadBytes bounds the head of each file handed to the prober.
	MaxReadBytes int64
	// Jobs is the number of files probed concurrently by AnalyzeFiles.
	Jobs   int
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxReadBytes: defaultMaxReadBytes,
		Jobs:         defaultJobs,
		Logger:       zerolog.Nop(),
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MaxReadBytes <= 0 {
		opts.MaxReadBytes = defaultMaxReadBytes
	}
	if opts.Jobs <= 0 {
		opts.Jobs = defaultJobs
	}
	return opts
}
