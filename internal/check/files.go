package check

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/resumeforge/resumeforge/internal/config"
)

// FileCheckResult represents the result of a file check
type FileCheckResult struct {
	Path        string
	Exists      bool
	Created     bool
	Description string
	Error       error
}

// checkFiles checks the configuration file and offers to create it
func (c *Checker) checkFiles() error {
	result := c.checkConfigFile()
	c.report.AddFileResult(result)
	return result.Error
}

// checkConfigFile checks the config file and prompts for creation if missing
func (c *Checker) checkConfigFile() FileCheckResult {
	result := FileCheckResult{
		Path:        c.configPath,
		Description: "Service configuration file (server, export, logging)",
	}

	if config.Exists(c.configPath) {
		result.Exists = true
		printFileStatus(c.configPath, true, false)
		return result
	}

	result.Exists = false
	printFileStatus(c.configPath, false, false)

	confirm, err := confirmCreate(c.configPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to get user confirmation: %w", err)
		return result
	}
	if !confirm {
		return result
	}

	if err := ensureDir(c.configPath); err != nil {
		result.Error = err
		return result
	}
	if err := config.CreateDefault(c.configPath); err != nil {
		result.Error = fmt.Errorf("failed to create %s: %w", c.configPath, err)
		return result
	}

	result.Exists = true
	result.Created = true
	printFileStatus(c.configPath, true, true)
	return result
}

// printFileStatus prints the status of a file check
func printFileStatus(path string, exists, created bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if exists {
		if created {
			green.Printf("  ✓ %s (created)\n", path)
		} else {
			green.Printf("  ✓ %s\n", path)
		}
	} else {
		yellow.Printf("  ⚠ %s does not exist\n", path)
	}
}
