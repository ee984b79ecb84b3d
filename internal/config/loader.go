package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads the advisor configuration from the environment, fills in tag
// defaults and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadStruct fills tagged fields of v, descending into section structs.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field, value := t.Field(i), v.Field(i)
		if !value.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(value); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		raw, err := lookup(field.Tag)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		if err := setField(value, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// lookup returns the env value, its alternate name's value, or the default.
func lookup(tag reflect.StructTag) (string, error) {
	name := tag.Get("env")
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if alt := tag.Get("envAlt"); alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, nil
		}
	}
	if tag.Get("required") == "true" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return tag.Get("default"), nil
}

// setField parses raw into the field's type.
func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		var items []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// oneOf reports whether v matches one of the allowed values, ignoring case.
func oneOf(v string, allowed ...string) bool {
	return slices.Contains(allowed, strings.ToLower(v))
}

// Validate reports every invalid setting at once, each naming its variable.
func (c *Config) Validate() error {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	s := c.Server
	if s.Port <= 0 || s.Port > 65535 {
		fail("SERVER_PORT (%d) must be 1-65535", s.Port)
	}
	if s.ReadTimeout < 0 {
		fail("SERVER_READ_TIMEOUT (%v) must be non-negative", s.ReadTimeout)
	}
	if s.WriteTimeout < 0 {
		fail("SERVER_WRITE_TIMEOUT (%v) must be non-negative", s.WriteTimeout)
	}
	if s.ShutdownTimeout <= 0 {
		fail("SERVER_SHUTDOWN_TIMEOUT (%v) must be positive", s.ShutdownTimeout)
	}
	if s.RequestTimeout <= 0 {
		fail("SERVER_REQUEST_TIMEOUT (%v) must be positive", s.RequestTimeout)
	}

	v := c.Validation
	if v.MinTotalCredits < 0 {
		fail("ADVISOR_MIN_TOTAL_CREDITS (%g) must be non-negative", v.MinTotalCredits)
	}
	if !oneOf(v.TermOrder, "lexical", "seasonal") {
		fail("ADVISOR_TERM_ORDER (%q) must be one of: lexical, seasonal", v.TermOrder)
	}

	u := c.Upload
	if u.MaxFileSize <= 0 {
		fail("UPLOAD_MAX_FILE_SIZE (%d) must be positive", u.MaxFileSize)
	}
	if u.MaxConcurrent <= 0 {
		fail("UPLOAD_MAX_CONCURRENT (%d) must be positive", u.MaxConcurrent)
	}
	if u.MaxWait < 0 {
		fail("UPLOAD_MAX_WAIT (%v) must be non-negative", u.MaxWait)
	}

	if !oneOf(c.Logging.Level, "debug", "info", "warn", "error") {
		fail("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if !oneOf(c.Logging.Format, "text", "json") {
		fail("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String summarizes the settings an advisor may need when reading logs.
// File names other than the alias override are left out.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Addr: %q}, Data: {Dir: %q, AliasFile: %q}, "+
		"Validation: {Program: %q, CatalogYear: %q, MinTotalCredits: %g, TermOrder: %q}, "+
		"Upload: {MaxFileSize: %d, MaxConcurrent: %d, MaxWait: %v}, "+
		"Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), c.Data.Dir, c.Data.AliasFile,
		c.Validation.Program, c.Validation.CatalogYear, c.Validation.MinTotalCredits, c.Validation.TermOrder,
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent, c.Upload.MaxWait,
		c.Logging.Level, c.Logging.Format)
}
