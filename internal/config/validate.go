package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate lists everything that would stop fetch, rand or submit from
// working. An empty result means the configuration is usable.
func (cfg *Config) Validate() []string {
	var issues []string

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []string{err.Error()}
		}
		for _, fe := range fieldErrs {
			issues = append(issues, describe(fe))
		}
	}

	for lang, path := range cfg.Templates {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			issues = append(issues, fmt.Sprintf("template for %s not found at %s", lang, path))
		}
	}
	return issues
}

func describe(fe validator.FieldError) string {
	switch fe.Namespace() {
	case "Config.User.Username":
		return "username not configured"
	case "Config.User.Token":
		return "token not configured"
	case "Config.Kattis.Hostname":
		return "invalid hostname"
	case "Config.Kattis.LoginURL":
		return "invalid login URL"
	case "Config.Kattis.SubmissionURL":
		return "invalid submission URL"
	case "Config.Settings.MinDifficulty", "Config.Settings.MaxDifficulty":
		return "invalid difficulty range"
	case "Config.Settings.Languages":
		return "no languages configured"
	}
	return fmt.Sprintf("%s failed '%s' check", fe.Namespace(), fe.Tag())
}

// CheckCredentials fails when the username or token is missing or still the
// placeholder written by 'config init'.
func (cfg *Config) CheckCredentials() error {
	err := validate.Struct(cfg.User)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("%w, %s in %s", kgerrors.ErrConfigParse, describeUser(fieldErrs[0]), cfg.Path)
	}
	return fmt.Errorf("%w, %v", kgerrors.ErrConfigParse, err)
}

func describeUser(fe validator.FieldError) string {
	if fe.Field() == "Token" {
		return "token not configured"
	}
	return "username not configured"
}
