package service

import "errors"

// Job-level failures returned by the import pipeline. Row-level problems are
// never returned as errors; they accumulate on the job record.
var (
	ErrJobNotFound           = errors.New("import job not found")
	ErrUnsupportedImportType = errors.New("unsupported import type")
	ErrValidationRequired    = errors.New("validation results not found - run validation first")
	ErrPortfolioNotFound     = errors.New("portfolio not found for import job")
	ErrJobBusy               = errors.New("job is already processing or finished")
)
