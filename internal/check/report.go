package check

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Report accumulates the results of a check run and prints the closing
// summary once every probe has reported in.
type Report struct {
	FileResults       []FileCheckResult
	ValidationResults []ValidationResult
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{}
}

// AddFileResult records a config-file bootstrap result
func (r *Report) AddFileResult(result FileCheckResult) {
	r.FileResults = append(r.FileResults, result)
}

// AddValidationResult records a config or environment probe result
func (r *Report) AddValidationResult(result ValidationResult) {
	r.ValidationResults = append(r.ValidationResults, result)
}

// Print prints the separator and the closing summary line.
func (r *Report) Print() {
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fmt.Println(sep.Render(strings.Repeat("─", 50)))
	r.printSummary(r.Summary())
}

// ReportSummary is the aggregate view of a check run.
type ReportSummary struct {
	FilesCreated int
	FilesMissing int
	Probes       int
	Failed       int
	Warnings     int
	// Templates is the count from the template probe, 0 if it never ran.
	Templates int
}

// Ready reports whether serve can start from this state. Warnings do not
// block; a missing Chrome binary only disables exports.
func (s ReportSummary) Ready() bool {
	return s.Failed == 0 && s.FilesMissing == 0
}

// Summary aggregates all recorded results.
func (r *Report) Summary() ReportSummary {
	var s ReportSummary

	for _, fr := range r.FileResults {
		if fr.Created {
			s.FilesCreated++
		}
		if !fr.Exists && !fr.Created {
			s.FilesMissing++
		}
		if fr.Error != nil {
			s.Failed++
		}
	}

	s.Probes = len(r.ValidationResults)
	for _, vr := range r.ValidationResults {
		if !vr.Valid {
			s.Failed++
		}
		s.Warnings += len(vr.Warnings)
		if vr.TemplateCount > 0 {
			s.Templates = vr.TemplateCount
		}
	}

	return s
}

// printSummary prints one line of verdict plus detail counts.
func (r *Report) printSummary(s ReportSummary) {
	switch {
	case s.Failed > 0:
		color.New(color.FgRed, color.Bold).Print("✗ Environment check failed")
	case s.Warnings > 0 || s.FilesMissing > 0:
		color.New(color.FgYellow, color.Bold).Print("⚠ Environment check passed with warnings")
	default:
		color.New(color.FgGreen, color.Bold).Print("✓ Environment ready")
	}

	var details []string
	if s.FilesCreated > 0 {
		details = append(details, fmt.Sprintf("%d file(s) created", s.FilesCreated))
	}
	if s.FilesMissing > 0 {
		details = append(details, fmt.Sprintf("%d file(s) missing", s.FilesMissing))
	}
	if s.Failed > 0 {
		details = append(details, fmt.Sprintf("%d check(s) failed", s.Failed))
	}
	if s.Warnings > 0 {
		details = append(details, fmt.Sprintf("%d warning(s)", s.Warnings))
	}
	if s.Templates > 0 {
		details = append(details, fmt.Sprintf("%d template(s)", s.Templates))
	}

	if len(details) > 0 {
		fmt.Printf(" (%s)\n", strings.Join(details, ", "))
	} else {
		fmt.Println()
	}
}
