package check

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/export/browser"
	"github.com/resumeforge/resumeforge/internal/render"
)

// ValidationResult represents the result of a config validation
type ValidationResult struct {
	Path          string
	Valid         bool
	TemplateCount int // for the template check
	Error         error
	Warnings      []string
}

// validateConfig validates the configuration file
func (c *Checker) validateConfig() error {
	result := c.validateConfigYaml()
	c.report.AddValidationResult(result)
	printValidationResult(result)

	if !result.Valid {
		return fmt.Errorf("%s validation failed: %w", c.configPath, result.Error)
	}
	return nil
}

// validateConfigYaml loads and validates the configuration file
func (c *Checker) validateConfigYaml() ValidationResult {
	result := ValidationResult{Path: c.configPath}

	if !fileExists(c.configPath) {
		result.Valid = false
		result.Error = fmt.Errorf("file does not exist")
		return result
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		result.Valid = false
		result.Error = fmt.Errorf("format error: %v", err)
		return result
	}

	if verr := cfg.Validate(); verr != nil {
		result.Valid = false
		result.Error = fmt.Errorf("%s", verr.Message)
		return result
	}

	result.Valid = true
	return result
}

// checkEnvironment checks the export runtime: Chrome binary and templates.
// These are warnings rather than errors; the server runs without them.
func (c *Checker) checkEnvironment() {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		cfg = config.Default()
	}

	// Chrome binary
	chromeResult := ValidationResult{Path: "headless chrome"}
	if path := chromeBinary(cfg); path != "" {
		chromeResult.Valid = true
		chromeResult.Path = path
	} else {
		chromeResult.Valid = true
		chromeResult.Warnings = append(chromeResult.Warnings,
			"Chrome not found; install Chrome/Chromium or set chrome_path")
	}
	c.report.AddValidationResult(chromeResult)
	printValidationResult(chromeResult)

	// Templates
	templateResult := c.validateTemplates(cfg)
	c.report.AddValidationResult(templateResult)
	printValidationResult(templateResult)
}

// validateTemplates checks that the renderer can load its template set.
func (c *Checker) validateTemplates(cfg *config.Config) ValidationResult {
	result := ValidationResult{Path: "resume templates"}

	var r render.Renderer
	var err error
	if cfg.Render.TemplateDir != "" && fileExists(cfg.Render.TemplateDir) {
		result.Path = cfg.Render.TemplateDir
		r, err = render.NewRendererWithDir(cfg.Render.DefaultTemplate, cfg.Render.TemplateDir)
	} else {
		r, err = render.NewRenderer(cfg.Render.DefaultTemplate)
	}
	if err != nil {
		result.Valid = false
		result.Error = err
		return result
	}

	result.Valid = true
	result.TemplateCount = len(r.Templates())
	return result
}

// chromeBinary resolves the Chrome binary the exporter would use.
func chromeBinary(cfg *config.Config) string {
	if cfg.Export.ChromePath != "" && fileExists(cfg.Export.ChromePath) {
		return cfg.Export.ChromePath
	}
	return browser.LocateChrome()
}

// printValidationResult prints a single validation result
func printValidationResult(result ValidationResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	if result.Valid {
		if result.TemplateCount > 0 {
			green.Printf("  ✓ %s (%d templates)\n", result.Path, result.TemplateCount)
		} else {
			green.Printf("  ✓ %s\n", result.Path)
		}
	} else if result.Error != nil {
		red.Printf("  ✗ %s: %v\n", result.Path, result.Error)
	}

	for _, warning := range result.Warnings {
		yellow.Printf("    └─ %s\n", warning)
	}
}
