package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/pkg/config"
	"github.com/ccollicutt/nbodydiff/pkg/detector"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <csv-file|glob>...",
		Short: "Detect the column layout of a simulation log",
		Long: `Read the header line of a simulation log and propose a column layout.

Header names are matched case-insensitively against known spellings of each
field (id/body_id, t/timestep, x, y, vx, vy). Fields the header does not name
keep their default position. A sample of data lines is then parsed with the
proposed layout to report how well it fits.

Optionally generates a starter config file with --write-config.

Example:
  nbodydiff detect serial.csv
  nbodydiff detect 'runs/*.csv'
  nbodydiff detect --write-config layout.yaml bh.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of data lines to sample")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	files, err := parser.ExpandInputs(args)
	if err != nil {
		return err
	}

	if opts.WriteConfig != "" && len(files) != 1 {
		return fmt.Errorf("--write-config needs exactly one data file, got %d", len(files))
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	results := make([]*detector.DetectionResult, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("data file not found: %s", file)
		}

		result, err := d.DetectFromFile(ctx, file)
		if err != nil {
			return fmt.Errorf("detection failed for %s: %w", file, err)
		}
		results = append(results, result)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, results[0], files[0], opts.WriteConfig); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(out, results, files)
	}

	for i, result := range results {
		if err := outputDetectText(out, result, files[i]); err != nil {
			return err
		}
	}
	return nil
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, file string) error {
	var b strings.Builder

	b.WriteString("=== Column Layout Detection ===\n\n")
	fmt.Fprintf(&b, "File: %s\n", file)
	if len(result.Header) > 0 {
		fmt.Fprintf(&b, "Header: %s\n", strings.Join(result.Header, ", "))
	}
	fmt.Fprintf(&b, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(&b, "Lines parsed: %d", result.ParsedLines)
	if result.SampledLines > 0 {
		fmt.Fprintf(&b, " (%.1f%%)", result.Confidence()*100)
	}
	b.WriteString("\n\n")

	if result.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n\n", result.Note)
	}

	b.WriteString("Columns:\n")
	for _, field := range detector.DefaultFields() {
		source := "default"
		if name, ok := result.Matched[field.Name]; ok {
			source = fmt.Sprintf("header %q", name)
		}
		fmt.Fprintf(&b, "  %-9s %d  (%s)\n", field.Name+":", columnOf(result.Columns, field.Name), source)
	}
	b.WriteString("\n")

	if result.SampleLine != "" {
		fmt.Fprintf(&b, "Sample line:\n  %s\n\n", truncate(result.SampleLine, 80))
	} else if result.SampledLines > 0 {
		b.WriteString("WARNING: no sampled line parses with this layout.\n")
		b.WriteString("Check the header and the first data lines manually.\n\n")
	}

	snippet, err := config.Marshal(starterConfig(result, file))
	if err != nil {
		return fmt.Errorf("rendering config snippet: %w", err)
	}
	b.WriteString("--- Configuration snippet (copy to your config file) ---\n\n")
	b.Write(snippet)
	b.WriteString("\n")

	_, err = io.WriteString(w, b.String())
	return err
}

// JSONColumn represents one field of the proposed layout in JSON output.
type JSONColumn struct {
	Field  string `json:"field"`
	Column int    `json:"column"`
	Header string `json:"header,omitempty"`
}

// JSONDetection represents the detection result for one file.
type JSONDetection struct {
	File         string       `json:"file"`
	Header       []string     `json:"header"`
	Columns      []JSONColumn `json:"columns"`
	Missing      []string     `json:"missing,omitempty"`
	SampledLines int          `json:"sampled_lines"`
	ParsedLines  int          `json:"parsed_lines"`
	Confidence   float64      `json:"confidence"`
	SampleLine   string       `json:"sample_line,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	Files []JSONDetection `json:"files"`
}

func outputDetectJSON(w io.Writer, results []*detector.DetectionResult, files []string) error {
	output := JSONOutput{
		Files: make([]JSONDetection, 0, len(results)),
	}

	for i, result := range results {
		det := JSONDetection{
			File:         files[i],
			Header:       result.Header,
			Missing:      result.Missing,
			SampledLines: result.SampledLines,
			ParsedLines:  result.ParsedLines,
			Confidence:   result.Confidence(),
			SampleLine:   result.SampleLine,
			Note:         result.Note,
		}
		if det.Header == nil {
			det.Header = []string{}
		}
		for _, field := range detector.DefaultFields() {
			det.Columns = append(det.Columns, JSONColumn{
				Field:  field.Name,
				Column: columnOf(result.Columns, field.Name),
				Header: result.Matched[field.Name],
			})
		}
		output.Files = append(output.Files, det)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig writes the detected layout as a config file.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, dataFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if result.ParsedLines == 0 {
		return fmt.Errorf("cannot generate config: no data line in %s parses with the detected layout", dataFile)
	}

	body, err := config.Marshal(starterConfig(result, dataFile))
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}

	content := fmt.Sprintf(`# nbodydiff layout configuration
# Generated by: nbodydiff detect
# Parsed %d/%d sampled lines
#
# Use with: nbodydiff -c <this file> <serial.csv> <barnes-hut.csv>

%s`, result.ParsedLines, result.SampledLines, body)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

func starterConfig(result *detector.DetectionResult, dataFile string) *config.Config {
	absFile := dataFile
	if abs, err := filepath.Abs(dataFile); err == nil {
		absFile = abs
	}

	cfg := config.DefaultConfig()
	cfg.Description = "Layout detected from " + absFile
	cfg.Columns = config.ColumnsFromParser(result.Columns)
	return cfg
}

func columnOf(c parser.Columns, field string) int {
	switch field {
	case "body_id":
		return c.BodyID
	case "timestep":
		return c.Timestep
	case "x":
		return c.X
	case "y":
		return c.Y
	case "vx":
		return c.VX
	case "vy":
		return c.VY
	}
	return -1
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
