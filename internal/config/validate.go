package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vk/propreg/internal/declid"
)

// NewValidator returns a validator knowing the settings-specific tags:
// "qualified" for importpath.TypeName values and "identpart" for strings
// that may appear inside a Go identifier.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("qualified", func(fl validator.FieldLevel) bool {
		_, _, err := declid.SplitQualified(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("identpart", func(fl validator.FieldLevel) bool {
		return declid.IsIdentifier("X" + fl.Field().String())
	})
	return v
}

// Validate checks s and reports every problem at once.
func Validate(s *Settings) error {
	err := NewValidator().Struct(s)
	if err == nil {
		return crossChecks(s)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	var errs []string
	for _, fe := range verrs {
		errs = append(errs, describe(fe))
	}
	if err := crossChecks(s); err != nil {
		errs = append(errs, err.Error())
	}
	return fmt.Errorf("settings validation failed:\n- %s", strings.Join(errs, "\n- "))
}

func crossChecks(s *Settings) error {
	if s.Naming.Prefix == "" && s.Naming.Suffix == "" {
		return errors.New("naming: a prefix or a suffix is required")
	}
	if strings.HasSuffix(s.Output.SourceSuffix, "_test.go") {
		return errors.New("output.source_suffix: generated files cannot be test files")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := settingsPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "required_if":
		return fmt.Sprintf("%s: is required when %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s: needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of [%s]", field, fe.Value(), fe.Param())
	case "endswith":
		return fmt.Sprintf("%s: %q must end with %q", field, fe.Value(), fe.Param())
	case "qualified":
		return fmt.Sprintf("%s: %q must have the form importpath.TypeName", field, fe.Value())
	case "identpart":
		return fmt.Sprintf("%s: %q may only contain letters, digits and underscores", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q validation", field, fe.Tag())
	}
}

// settingsPath turns "Settings.Output.SourceSuffix" into
// "output.source_suffix", the name users write in settings files.
func settingsPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
