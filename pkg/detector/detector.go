// Package detector proposes a column layout for a simulation log by reading
// its header line and test-parsing a sample of data lines.
package detector

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// DetectionResult holds the result of analyzing a simulation log.
type DetectionResult struct {
	Header       []string          // Header fields, trimmed, as written
	Columns      parser.Columns    // Proposed layout
	Matched      map[string]string // Field name -> header name it was found under
	Missing      []string          // Fields not named in the header
	SampledLines int               // Number of data lines sampled
	ParsedLines  int               // Sampled lines that parse with Columns
	SampleLine   string            // First sampled line that parsed
	Note         string            // Warning when the header could not be used
}

// Detector analyzes simulation logs to identify their column layout.
type Detector struct {
	fields     []Field
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of data lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default field aliases.
func New(opts ...Option) *Detector {
	d := &Detector{
		fields:     DefaultFields(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a log file and returns the proposed layout.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a header line followed by data lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		Columns: parser.DefaultColumns(),
		Matched: make(map[string]string),
	}

	if len(lines) == 0 {
		result.Note = "File is empty; using the default layout."
		return result
	}

	for _, h := range strings.Split(strings.TrimSpace(lines[0]), parser.Delimiter) {
		result.Header = append(result.Header, strings.TrimSpace(h))
	}

	d.matchHeader(result)

	if err := result.Columns.Validate(); err != nil {
		result.Columns = parser.DefaultColumns()
		result.Note = "Header columns conflict with the default positions (" + err.Error() +
			"); using the default layout."
	} else if len(result.Missing) == len(d.fields) {
		result.Note = "Header names no known fields; using the default layout."
	}

	extractor := parser.NewRowExtractor(result.Columns)
	data := lines[1:]
	if len(data) > d.sampleSize {
		data = data[:d.sampleSize]
	}
	for _, line := range data {
		result.SampledLines++
		if _, err := extractor.Extract(line); err != nil {
			continue
		}
		if result.ParsedLines == 0 {
			result.SampleLine = strings.TrimSpace(line)
		}
		result.ParsedLines++
	}

	return result
}

// matchHeader assigns each field the first unused header column whose name
// is one of its aliases. Unmatched fields keep their default position.
func (d *Detector) matchHeader(result *DetectionResult) {
	used := make(map[int]bool)
	for _, field := range d.fields {
		idx := -1
		for i, h := range result.Header {
			if used[i] || !hasAlias(field, h) {
				continue
			}
			idx = i
			break
		}

		if idx < 0 {
			result.Missing = append(result.Missing, field.Name)
			continue
		}
		used[idx] = true
		result.Matched[field.Name] = result.Header[idx]
		setColumn(&result.Columns, field.Name, idx)
	}
}

func hasAlias(field Field, header string) bool {
	header = strings.ToLower(header)
	for _, alias := range field.Aliases {
		if header == alias {
			return true
		}
	}
	return false
}

func setColumn(c *parser.Columns, name string, idx int) {
	switch name {
	case "body_id":
		c.BodyID = idx
	case "timestep":
		c.Timestep = idx
	case "x":
		c.X = idx
	case "y":
		c.Y = idx
	case "vx":
		c.VX = idx
	case "vy":
		c.VY = idx
	}
}

// sampleFile reads the header and up to sampleSize non-empty data lines.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() && len(lines) <= d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Confidence returns the fraction of sampled lines that parsed, 0 when
// nothing was sampled.
func (r *DetectionResult) Confidence() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.ParsedLines) / float64(r.SampledLines)
}

// FromHeader returns true if every field was found in the header.
func (r *DetectionResult) FromHeader() bool {
	return len(r.Missing) == 0 && r.Note == ""
}
