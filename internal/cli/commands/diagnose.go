package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
	"github.com/ccollicutt/nbodydiff/pkg/config"
	"github.com/ccollicutt/nbodydiff/pkg/detector"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigFile string
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <serial.csv> <barnes-hut.csv>",
		Short: "Diagnose why two logs cannot be compared",
		Long: `Diagnose common problems with a pair of simulation logs.

This command checks:
- The layout config file, when one is given
- Both data files exist and are readable
- Every data line parses with the layout
- Both files have the same number of rows
- Rows pair up under the configured alignment

Exits with code 2 when any check fails.

Example:
  nbodydiff diagnose serial.csv bh.csv
  nbodydiff diagnose -c layout.yaml -v serial.csv bh.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Layout config file (YAML)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, serialPath, bhPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	cfg, configResults := checkConfig(ctx, opts.ConfigFile)
	results = append(results, configResults...)
	if cfg == nil {
		return finishDiagnostics(w, results, opts)
	}

	inputs := []struct {
		label string
		path  string
	}{
		{"Serial", serialPath},
		{"Barnes-Hut", bhPath},
	}

	var datasets []*parser.Dataset
	for _, in := range inputs {
		result := checkDataFile(in.label, in.path)
		results = append(results, result)
		if result.Status == "error" {
			continue
		}

		ds, loadResult := checkDataLoads(ctx, in.label, in.path, cfg, opts)
		results = append(results, loadResult)
		if ds != nil {
			datasets = append(datasets, ds)
		}
	}

	if len(datasets) == len(inputs) {
		countResult := checkRowCounts(datasets[0], datasets[1])
		results = append(results, countResult)
		if countResult.Status != "error" {
			results = append(results, checkAlignment(ctx, datasets[0], datasets[1], cfg))
		}
	}

	return finishDiagnostics(w, results, opts)
}

func checkConfig(ctx context.Context, path string) (*config.Config, []DiagnosticResult) {
	if path == "" {
		cfg, err := config.Load(ctx, "")
		if err != nil {
			return nil, []DiagnosticResult{{
				Check:   "Config",
				Status:  "error",
				Message: fmt.Sprintf("Default layout rejected: %v", err),
				Suggests: []string{
					fmt.Sprintf("Check the %s environment variable (index or key)", config.EnvAlignment),
				},
			}}
		}
		return cfg, []DiagnosticResult{{
			Check:   "Config",
			Status:  "ok",
			Message: "No config file; using the default layout",
			Details: layoutDetails(cfg),
		}}
	}

	result := checkConfigExists(path)
	if result.Status == "error" {
		return nil, []DiagnosticResult{result}
	}

	cfg, parsed := checkConfigParseable(ctx, path)
	return cfg, []DiagnosticResult{result, parsed}
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'nbodydiff detect --write-config layout.yaml <csv-file>' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = layoutDetails(cfg)
	return cfg, result
}

func layoutDetails(cfg *config.Config) []string {
	c := cfg.Columns
	return []string{
		fmt.Sprintf("Header lines: %d", cfg.HeaderLines),
		fmt.Sprintf("Columns: body_id=%d timestep=%d x=%d y=%d vx=%d vy=%d",
			c.BodyID, c.Timestep, c.X, c.Y, c.VX, c.VY),
		fmt.Sprintf("Alignment: %s", cfg.Alignment),
	}
}

func checkDataFile(label, path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("%s File: %s", label, path),
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.Status = "error"
		result.Message = "File does not exist"
		result.Suggests = []string{"Check if the data file path is correct"}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
	case info.Size() == 0:
		result.Status = "warning"
		result.Message = "File is empty (0 bytes)"
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	}

	return result
}

func checkDataLoads(ctx context.Context, label, path string, cfg *config.Config, opts *DiagnoseOptions) (*parser.Dataset, DiagnosticResult) {
	result := DiagnosticResult{
		Check: fmt.Sprintf("%s Rows", label),
	}

	ds, err := parser.Load(ctx, path, cfg.Columns.ParserColumns(), cfg.HeaderLines)
	if err != nil {
		result.Status = "error"
		result.Message = truncate(err.Error(), 120)

		var fe *parser.FormatError
		if errors.As(err, &fe) {
			result.Suggests = append(result.Suggests, layoutSuggestions(ctx, path)...)
		}
		return nil, result
	}

	if ds.Len() == 0 {
		result.Status = "warning"
		result.Message = "No data rows after the header"
		return ds, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Loaded %d rows", ds.Len())
	if opts.Verbose {
		first := ds.Rows[0]
		result.Details = []string{
			fmt.Sprintf("First row (line %d): body %s, timestep %s", first.LineNum, first.BodyID, first.Timestep),
		}
	}
	return ds, result
}

// layoutSuggestions runs the detector on a file that failed to load and
// turns its proposal into hints.
func layoutSuggestions(ctx context.Context, path string) []string {
	d := detector.New(detector.WithSampleSize(10))
	det, err := d.DetectFromFile(ctx, path)
	if err != nil || det.ParsedLines == 0 {
		return []string{"Check the header and the first data lines manually"}
	}

	c := det.Columns
	return []string{
		fmt.Sprintf("Detected layout parses %d/%d sampled lines", det.ParsedLines, det.SampledLines),
		fmt.Sprintf("Suggested columns: body_id=%d timestep=%d x=%d y=%d vx=%d vy=%d",
			c.BodyID, c.Timestep, c.X, c.Y, c.VX, c.VY),
		fmt.Sprintf("Use 'nbodydiff detect --write-config layout.yaml %s' to save it", path),
	}
}

func checkRowCounts(serial, bh *parser.Dataset) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Row Counts",
	}

	if serial.Len() != bh.Len() {
		mismatch := &compare.LengthMismatchError{
			LeftSource:  serial.Source,
			LeftLen:     serial.Len(),
			RightSource: bh.Source,
			RightLen:    bh.Len(),
		}
		result.Status = "error"
		result.Message = mismatch.Error()
		result.Suggests = []string{
			"Both simulators must run the same number of bodies and timesteps",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Both files have %d rows", serial.Len())
	return result
}

func checkAlignment(ctx context.Context, serial, bh *parser.Dataset, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Alignment: %s", cfg.Alignment),
	}

	align, err := compare.ParseAlignment(cfg.Alignment)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return result
	}

	if align == compare.AlignKey {
		c, err := compare.New(compare.WithAlignment(align))
		if err == nil {
			_, err = c.Compare(ctx, serial, bh)
		}
		if err != nil {
			result.Status = "error"
			result.Message = err.Error()
			result.Suggests = []string{
				"Each (body_id, timestep) must appear once in each file",
			}
			return result
		}
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d keys pair up", serial.Len())
		return result
	}

	count := 0
	var mismatched []string
	for i := range serial.Rows {
		l, r := &serial.Rows[i], &bh.Rows[i]
		if l.Key() == r.Key() {
			continue
		}
		count++
		if len(mismatched) < 3 {
			mismatched = append(mismatched, fmt.Sprintf(
				"line %d (%s, %s) pairs with line %d (%s, %s)",
				l.LineNum, l.BodyID, l.Timestep, r.LineNum, r.BodyID, r.Timestep))
		}
	}

	if count > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d rows pair different (body_id, timestep) keys", count, serial.Len())
		result.Details = mismatched
		result.Suggests = []string{
			"If the simulators write bodies in different orders, use --align key",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("All %d rows pair matching keys by position", serial.Len())
	return result
}

// finishDiagnostics prints the results and sets ExitCode when a check failed.
func finishDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) error {
	if printDiagnostics(w, results, opts) > 0 {
		ExitCode = 2
	}
	return nil
}

// printDiagnostics writes the results and returns the number of failed checks.
func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	var b strings.Builder
	b.WriteString("=== nbodydiff Input Diagnostics ===\n\n")

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(&b, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(&b, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(&b, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(&b, "      Hint: %s\n", s)
		}

		b.WriteString("\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		b.WriteString("\nFix the errors above before comparing.\n")
	case warnCount > 0:
		b.WriteString("\nThe files can be compared but have warnings.\n")
	default:
		b.WriteString("\nThe files look ready to compare.\n")
	}

	_, _ = io.WriteString(w, b.String())
	return errCount
}
