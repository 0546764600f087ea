// Package mediaprobe exposes the container prober and the file analysis layer to
// library consumers.
package mediaprobe

import (
	"context"

	"github.com/spf13/afero"

	"github.com/autobrr/go-mediaprobe/internal/analyze"
	"github.com/autobrr/go-mediaprobe/internal/probe"
)

// Types
type StreamKind = probe.StreamKind
type Result = probe.Result
type Stream = probe.Stream
type FontAttachment = probe.FontAttachment
type Report = analyze.Report
type Options = analyze.Options

// Constants
const (
	StreamVideo    = probe.StreamVideo
	StreamAudio    = probe.StreamAudio
	StreamSubtitle = probe.StreamSubtitle
)

// Probing
func Probe(data []byte) (Result, bool) {
	return probe.Probe(data)
}

func ProbeJSON(data []byte) []byte {
	return probe.ProbeJSON(data)
}

// Files
func DefaultOptions() Options {
	return analyze.DefaultOptions()
}

func AnalyzeFile(path string, opts Options) Report {
	return analyze.AnalyzeFile(afero.NewOsFs(), path, opts)
}

func AnalyzeFiles(ctx context.Context, paths []string, opts Options) ([]Report, error) {
	return analyze.AnalyzeFiles(ctx, afero.NewOsFs(), paths, opts)
}

// Rendering
func RenderText(reports []Report) string {
	return analyze.RenderText(reports)
}

func RenderJSON(reports []Report) string {
	return analyze.RenderJSON(reports)
}

func FormatVersion(version string) string {
	return analyze.FormatVersion(version)
}

func SetAppVersion(version string) {
	analyze.SetAppVersion(version)
}
