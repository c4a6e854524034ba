// Package check provides interactive environment checking and initialization.
// It helps users set up their local ResumeForge configuration properly.
package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/resumeforge/resumeforge/internal/config"
)

// CheckResult represents the result of a non-interactive environment check
type CheckResult struct {
	// Success indicates whether all required checks passed
	Success bool
	// Errors contains critical errors that prevent server startup
	Errors []string
	// Warnings contains non-critical issues that don't block startup
	Warnings []string
	// Suggestions contains helpful tips for fixing issues
	Suggestions []string
}

// Checker handles environment checking and initialization
type Checker struct {
	// configPath is the configuration file location
	configPath string
	// report collects check results for final output
	report *Report
	// theme for consistent styling
	theme *huh.Theme
}

// NewChecker creates a new environment checker
func NewChecker() *Checker {
	return NewCheckerWithPath(config.ConfigPath)
}

// NewCheckerWithPath creates a checker against a custom config location
func NewCheckerWithPath(configPath string) *Checker {
	return &Checker{
		configPath: configPath,
		report:     NewReport(),
		theme:      huh.ThemeCharm(),
	}
}

// Run executes the full environment check
func (c *Checker) Run() error {
	c.printHeader()

	fmt.Println()
	printSection("Checking configuration file")
	if err := c.checkFiles(); err != nil {
		return fmt.Errorf("file check failed: %w", err)
	}

	fmt.Println()
	printSection("Validating configuration")
	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Println()
	printSection("Checking export environment")
	c.checkEnvironment()

	fmt.Println()
	c.report.Print()

	return nil
}

// printHeader prints the welcome header
func (c *Checker) printHeader() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("🔍 ResumeForge Environment Check"))
}

// printSection prints a section header
func printSection(title string) {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	fmt.Println(style.Render(title + "..."))
}

// ConfigPath returns the path to the config file
func (c *Checker) ConfigPath() string {
	return c.configPath
}

// confirmCreate asks user to confirm file creation
func confirmCreate(path string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Create %s from template?", path)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensureDir creates the parent directory if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RunNonInteractive performs a non-interactive environment check.
// Unlike Run(), this method does not prompt for user input and does not create files.
// It returns a CheckResult with errors, warnings, and suggestions.
func (c *Checker) RunNonInteractive() *CheckResult {
	result := &CheckResult{
		Success:     true,
		Errors:      make([]string, 0),
		Warnings:    make([]string, 0),
		Suggestions: make([]string, 0),
	}

	if !config.Exists(c.configPath) {
		result.Success = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Configuration not found: %s", c.configPath))
		result.Suggestions = append(result.Suggestions,
			"Run 'resumeforge serve --check' to interactively create the configuration file",
		)
		return result
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid %s: %v", c.configPath, err))
		return result
	}
	if verr := cfg.Validate(); verr != nil {
		result.Success = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid %s: %s", c.configPath, verr.Message))
		return result
	}

	// Chrome and directory availability are warnings: the server starts
	// without them, exports fail until they are fixed.
	c.checkChromeNonInteractive(cfg, result)
	c.checkDirsNonInteractive(cfg, result)

	return result
}

func (c *Checker) checkChromeNonInteractive(cfg *config.Config, result *CheckResult) {
	path := chromeBinary(cfg)
	if path == "" {
		result.Warnings = append(result.Warnings,
			"Headless Chrome not found; PDF and image export will fail")
		result.Suggestions = append(result.Suggestions,
			"Install Chrome or Chromium, or set chrome_path / RF_CHROME_PATH",
		)
	}
}

func (c *Checker) checkDirsNonInteractive(cfg *config.Config, result *CheckResult) {
	if cfg.Render.TemplateDir != "" && !fileExists(cfg.Render.TemplateDir) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Template directory %s does not exist; built-in templates will be used", cfg.Render.TemplateDir))
	}
}

// PrintCheckResult prints the check result in a formatted way
func PrintCheckResult(result *CheckResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(result.Errors) > 0 {
		fmt.Println()
		red.Println("[ERROR] Environment check failed")
		fmt.Println()
		for _, err := range result.Errors {
			red.Printf("  ✗ %s\n", err)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		yellow.Println("[WARNING] Configuration warnings:")
		fmt.Println()
		for _, warn := range result.Warnings {
			yellow.Printf("  ⚠ %s\n", warn)
		}
	}

	if len(result.Suggestions) > 0 {
		cyan.Println("\nTo fix these issues:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  → %s\n", suggestion)
		}
	}

	fmt.Println()
}
