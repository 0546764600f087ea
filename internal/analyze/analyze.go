// Package analyze runs the prober over files and renders the resulting reports.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
	"github.com/marusama/semaphore/v2"
	"github.com/spf13/afero"

	"github.com/autobrr/go-mediaprobe/internal/probe"
)

var errIsDirectory = errors.New("is a directory")

// Report is the outcome of probing one file. Found is false when the file was
// readable but held no recognized metadata; Err is set when it was not readable.
type Report struct {
	Ref    string
	Size   int64
	Result probe.Result
	Found  bool
	Err    error
}

func AnalyzeFile(fs afero.Fs, path string, opts Options) Report {
	opts = normalizeOptions(opts)
	report := Report{Ref: path}

	stat, err := fs.Stat(path)
	if err != nil {
		report.Err = err
		opts.Logger.Warn().Err(err).Str("path", path).Msg("stat failed")
		return report
	}
	if stat.IsDir() {
		report.Err = fmt.Errorf("%s: %w", path, errIsDirectory)
		return report
	}
	report.Size = stat.Size()

	file, err := fs.Open(path)
	if err != nil {
		report.Err = err
		opts.Logger.Warn().Err(err).Str("path", path).Msg("open failed")
		return report
	}
	defer file.Close()

	head := make([]byte, min(report.Size, opts.MaxReadBytes))
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		report.Err = fmt.Errorf("read %s: %w", path, err)
		opts.Logger.Warn().Err(err).Str("path", path).Msg("read failed")
		return report
	}
	head = head[:n]

	result, ok := probe.Probe(head)
	if !ok && looksLikeISOBMFF(head) && report.Size > int64(len(head)) {
		if assembled, found := collectMP4Header(file, report.Size); found {
			opts.Logger.Debug().Str("path", path).Int("bytes", len(assembled)).Msg("probing relocated moov")
			result, ok = probe.Probe(assembled)
		}
	}

	report.Result = result
	report.Found = ok
	if ok {
		opts.Logger.Debug().
			Str("path", path).
			Str("format", result.Format).
			Int("streams", len(result.Streams)).
			Float64("duration", result.Duration).
			Msg("probed")
	} else {
		opts.Logger.Debug().Str("path", path).Msg("no metadata found")
	}
	return report
}

// AnalyzeFiles probes every path, expanding directories one level deep. Reports keep
// the expanded input order. Unreadable files are recorded in their report; only a
// failure to list a directory aborts the batch.
func AnalyzeFiles(ctx context.Context, fs afero.Fs, paths []string, opts Options) ([]Report, error) {
	opts = normalizeOptions(opts)
	expanded, err := expandPaths(fs, paths)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(expanded))
	sem := semaphore.New(opts.Jobs)
	var wg sync.WaitGroup
	for i, path := range expanded {
		if err := ctx.Err(); err != nil {
			reports[i] = Report{Ref: path, Err: err}
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			reports[i] = Report{Ref: path, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)
			reports[i] = AnalyzeFile(fs, path, opts)
		}(i, path)
	}
	wg.Wait()
	return reports, nil
}

func expandPaths(fs afero.Fs, paths []string) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := fs.Stat(path)
		if err != nil || !info.IsDir() {
			expanded = append(expanded, path)
			continue
		}
		entries, err := afero.ReadDir(fs, path)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Sort(natural.StringSlice(names))
		for _, name := range names {
			expanded = append(expanded, filepath.Join(path, name))
		}
	}
	return expanded, nil
}
