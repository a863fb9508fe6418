// package formatter renders capture results as numbered lines, plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/shared"
)

// Format names an output format.
type Format string

const (
	Lines    Format = "lines"
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{Lines, Text, CSV, Markdown, JSON}

// ParseFormat validates a format name. Matching is case-insensitive; "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Lines, nil
	case "md":
		return Markdown, nil
	case Lines, Text, CSV, Markdown, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Line renders one entry as "NN. Artist — Title", followed by the match glyph and reference URL when present.
func Line(entry models.TrackEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d. %s", entry.Index, entry.Track)
	if g := entry.Match.Indicator.Glyph(); g != "" {
		b.WriteString(" " + g)
	}
	if entry.Match.ReferenceURL != "" {
		b.WriteString(" " + entry.Match.ReferenceURL)
	}
	return b.String()
}

// Header is printed before the numbered list.
func Header(count int) string {
	return fmt.Sprintf("Found %d tracks:", count)
}

// Export renders result in the given format.
func Export(result *models.PipelineResult, f Format) ([]byte, error) {
	switch f {
	case Lines, "":
		return ExportToLines(result)
	case Text:
		return ExportToText(result)
	case CSV:
		return ExportToCSV(result)
	case Markdown:
		return ExportToMarkdown(result)
	case JSON:
		return ExportToJSON(result)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToLines writes the header and one line per entry, or the error message alone.
func ExportToLines(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer
	if result.Error != "" {
		buf.WriteString(result.Error + "\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(Header(len(result.Items)) + "\n")
	for _, entry := range result.Items {
		buf.WriteString(Line(entry) + "\n")
	}
	return buf.Bytes(), nil
}

// ExportToText converts a result to plain text with the source URL and a glyph-free list.
func ExportToText(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.URL))
	if result.Error != "" {
		buf.WriteString(fmt.Sprintf("Error: %s\n", result.Error))
		return buf.Bytes(), nil
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(result.Items)))

	for _, entry := range result.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", entry.Index, entry.Track.Artist, entry.Track.Title))
	}

	return buf.Bytes(), nil
}

// ExportToCSV converts a result to CSV with columns: Index, Artist, Title, Match, Score, URL
func ExportToCSV(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Artist", "Title", "Match", "Score", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range result.Items {
		record := []string{
			strconv.Itoa(entry.Index),
			entry.Track.Artist,
			entry.Track.Title,
			entry.Match.Indicator.String(),
			strconv.Itoa(entry.Match.Score),
			entry.Match.ReferenceURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a result to a Markdown document, linking matched tracks.
func ExportToMarkdown(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist\n\n")
	buf.WriteString(fmt.Sprintf("**Source**: <%s>\n\n", result.URL))

	if result.Error != "" {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", result.Error))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(result.Items)))
	buf.WriteString("## Tracks\n\n")
	for _, entry := range result.Items {
		line := fmt.Sprintf("%d. %s", entry.Index, entry.Track)
		if g := entry.Match.Indicator.Glyph(); g != "" {
			line += " " + g
		}
		if entry.Match.ReferenceURL != "" {
			line += fmt.Sprintf(" [listen](%s)", entry.Match.ReferenceURL)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a result to indented JSON.
func ExportToJSON(result *models.PipelineResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders result and writes it to path.
func WriteExport(result *models.PipelineResult, f Format, path string) error {
	data, err := Export(result, f)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return nil
}
