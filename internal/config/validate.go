package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leonardotrapani/longscribe/internal/chunk"
	"github.com/leonardotrapani/longscribe/internal/language"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their config key
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration; every violation is a
// *chunk.ConfigurationError naming the offending key.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}

	if err := chunk.Validate(c.Chunking.ChunkSeconds, c.Chunking.OverlapSeconds); err != nil {
		var cfgErr *chunk.ConfigurationError
		if errors.As(err, &cfgErr) {
			return &chunk.ConfigurationError{Field: "chunking." + cfgErr.Field, Reason: cfgErr.Reason}
		}
		return err
	}

	lang := c.Transcription.Language
	if !language.IsValidCode(lang) {
		return &chunk.ConfigurationError{
			Field:  "transcription.language",
			Reason: fmt.Sprintf("unknown language %q (use an ISO-639-1 code like 'ru', 'en' or empty for auto-detect)", lang),
		}
	}

	// unknown model IDs are allowed so new releases work, so only known
	// models are checked against the hint
	if m, err := provider.GetModel(c.Transcription.Provider, c.Transcription.Model); err == nil && !m.SupportsLanguage(lang) {
		return &chunk.ConfigurationError{
			Field:  "transcription.model",
			Reason: fmt.Sprintf("%s does not support %s", m.ID, language.Label(lang)),
		}
	}

	p := provider.GetProvider(c.Transcription.Provider)
	if p.RequiresAPIKey() && c.ResolveAPIKey(p.Name()) == "" {
		return &chunk.ConfigurationError{
			Field: "providers." + p.Name() + ".api_key",
			Reason: fmt.Sprintf("API key required: not found in config or environment variable (%s)",
				provider.EnvVarForProvider(p.Name())),
		}
	}

	return nil
}

func fieldError(fe validator.FieldError) error {
	// namespace is "Config.section.key"
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "must be set"
	case "oneof":
		reason = fmt.Sprintf("%v is not one of [%s]", fe.Value(), fe.Param())
	case "ltfield":
		reason = fmt.Sprintf("must be less than %s", fe.Param())
	case "gtefield":
		reason = fmt.Sprintf("must be at least %s", fe.Param())
	case "url":
		reason = fmt.Sprintf("%v is not a URL", fe.Value())
	default:
		reason = fmt.Sprintf("%v violates %s=%s", fe.Value(), fe.Tag(), fe.Param())
	}
	return &chunk.ConfigurationError{Field: field, Reason: reason}
}
