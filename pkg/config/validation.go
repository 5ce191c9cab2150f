package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks configuration for errors.
func Validate(cfg *Config) error {
	mode := cfg.NormalizeMode()
	if mode != ModeBoth && mode != ModeServer && mode != ModeReporter {
		return fmt.Errorf("%w: %s (must be 'both', 'server', or 'reporter')", ErrInvalidMode, cfg.Mode)
	}

	// A standalone reporter has no in-process engine to submit to.
	if mode == ModeReporter && cfg.Reporter.SubmitURL == "" {
		return fmt.Errorf("%w: reporter mode requires submit_url", ErrMissingSubmitURL)
	}

	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field %s failed rule %q", ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
