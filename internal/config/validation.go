// Package config provides configuration management for the application.
// This file contains validation functions for configuration values.
package config

import (
	"fmt"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

// Validate checks the configuration for values the pipeline cannot run with.
// It returns the first problem found as a coded error.
func (c *Config) Validate() *errors.AppError {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("server.port must be in 1-65535, got %d", c.Server.Port))
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	if c.Cleanup.RetentionDays < 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			"cleanup.retention_days cannot be negative")
	}
	return nil
}

// Validate checks the export pipeline knobs.
func (e *ExportConfig) Validate() *errors.AppError {
	if e.Scale <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("export.scale must be positive, got %v", e.Scale))
	}
	if e.RetryScale <= 0 || e.RetryScale > e.Scale {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("export.retry_scale must be in (0, scale], got %v", e.RetryScale))
	}
	if e.RasterTimeoutSec <= 0 || e.RetryTimeoutSec <= 0 || e.OperationTimeoutSec <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			"export timeouts must be positive")
	}
	if e.RetryTimeoutSec < e.RasterTimeoutSec {
		return errors.New(errors.ErrCodeConfigInvalid,
			"export.retry_timeout must not be shorter than export.raster_timeout")
	}
	if e.PageBudgetPx <= 0 || e.PageHeightPx <= 0 || e.PageWidthPx <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			"export page dimensions must be positive")
	}
	// The budget is a guard band inside the physical page, never past it
	if e.PageBudgetPx > e.PageHeightPx {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("export.page_budget_px (%d) must not exceed export.page_height_px (%d)",
				e.PageBudgetPx, e.PageHeightPx))
	}
	if e.JPEGQuality < 1 || e.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("export.jpeg_quality must be in 1-100, got %d", e.JPEGQuality))
	}
	switch e.CreditPolicy {
	case CreditPolicyDeliverFirst, CreditPolicyChargeFirst:
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("export.credit_policy must be %q or %q, got %q",
				CreditPolicyDeliverFirst, CreditPolicyChargeFirst, e.CreditPolicy))
	}
	return nil
}
