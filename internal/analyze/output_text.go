package analyze

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/autobrr/go-mediaprobe/internal/probe"
)

const fieldNameWidth = 14

var streamTableHeader = table.Row{"#", "Type", "Codec", "Details", "Language", "Flags"}

// RenderText renders one block per report: general fields followed by a stream table.
func RenderText(reports []Report) string {
	var sb strings.Builder
	for i, report := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeField(&sb, "Complete name", report.Ref)
		if report.Err != nil {
			writeField(&sb, "Error", report.Err.Error())
			continue
		}
		if !report.Found {
			writeField(&sb, "File size", formatFileSize(report.Size))
			sb.WriteString("No metadata found\n")
			continue
		}
		writeField(&sb, "Format", report.Result.Format)
		writeField(&sb, "File size", formatFileSize(report.Size))
		if duration := formatDuration(report.Result.Duration); duration != "" {
			writeField(&sb, "Duration", duration)
		}
		sb.WriteString(renderStreamTable(report.Result.Streams))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(reportByLine())
	return sb.String()
}

func reportByLine() string {
	return fmt.Sprintf("ReportBy : %s - %s", AppName, FormatVersion(AppVersion))
}

func writeField(sb *strings.Builder, name, value string) {
	sb.WriteString(padRight(name, fieldNameWidth))
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

func renderStreamTable(streams []probe.Stream) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(streamTableHeader)

	title := cases.Title(language.English)
	for _, stream := range streams {
		tw.AppendRow(table.Row{
			stream.Index,
			title.String(string(stream.Kind)),
			stream.Codec,
			streamDetails(stream),
			languageName(deref(stream.Language)),
			streamFlags(stream),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func streamDetails(stream probe.Stream) string {
	var parts []string
	switch stream.Kind {
	case probe.StreamVideo:
		if stream.Width != nil && stream.Height != nil {
			parts = append(parts, fmt.Sprintf("%dx%d", *stream.Width, *stream.Height))
		}
		if stream.FrameRate != nil {
			parts = append(parts, formatFrameRate(*stream.FrameRate))
		}
	case probe.StreamAudio:
		if stream.SampleRate != nil {
			parts = append(parts, fmt.Sprintf("%d Hz", *stream.SampleRate))
		}
		if stream.Channels != nil {
			parts = append(parts, fmt.Sprintf("%d ch", *stream.Channels))
		}
	}
	return strings.Join(parts, ", ")
}

func streamFlags(stream probe.Stream) string {
	var flags []string
	if stream.IsDefault != nil && *stream.IsDefault {
		flags = append(flags, "default")
	}
	if stream.IsForced != nil && *stream.IsForced {
		flags = append(flags, "forced")
	}
	return strings.Join(flags, ", ")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
