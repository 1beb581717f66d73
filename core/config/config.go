package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jobads-sync/core/database"
	"jobads-sync/core/jobstream"
	"jobads-sync/core/lock"
	"jobads-sync/core/logger"
	"jobads-sync/core/server"
	"jobads-sync/core/storage"
	"jobads-sync/core/watermark"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is built once at startup and passed down explicitly.
type Config struct {
	// Feed holds configuration for the remote job-ad feed.
	Feed jobstream.Config `mapstructure:"feed"`
	// Polling holds configuration for the keep-updated loop.
	Polling PollingConfig `mapstructure:"polling"`
	// Database holds configuration for the store connection.
	Database database.Config `mapstructure:"database"`
	// Watermark holds configuration for watermark persistence.
	Watermark watermark.Config `mapstructure:"watermark"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Lock holds configuration for the cross-process writer lock.
	Lock lock.Config `mapstructure:"lock"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
}

// PollingConfig controls the cadence of update cycles.
type PollingConfig struct {
	// IntervalMinutes is the pause between two update cycles.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"10" validate:"gt=0"`
	// MaxCycles stops the loop after this many cycles. Zero runs forever.
	MaxCycles int `mapstructure:"max_cycles" default:"0" validate:"gte=0"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. FEED_BASE_URL -> feed.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Normalize()
	return &config, nil
}

// Normalize trims and de-duplicates the feed filters and fills derived paths.
func (c *Config) Normalize() {
	c.Feed.Places = normalizeIDs(c.Feed.Places)
	c.Feed.Occupations = normalizeIDs(c.Feed.Occupations)
	c.Feed.BaseURL = strings.TrimRight(c.Feed.BaseURL, "/")

	if c.Lock.Path == "" {
		base := c.Database.Path
		if c.Database.Driver == database.DriverMySQL || base == "" || base == ":memory:" {
			base = "jobads"
		}
		c.Lock.Path = base + ".lock"
	}
}

func normalizeIDs(ids []string) []string {
	trimmed := lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) })
	return lo.Uniq(lo.Compact(trimmed))
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report settings by their config keys rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}()

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	var fieldErrs validator.ValidationErrors
	if err := validate.Struct(c); errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs = append(errs, describe(fe))
		}
	} else if err != nil {
		return err
	}

	if c.Watermark.Backend == watermark.BackendObject && c.Storage.Bucket == "" {
		errs = append(errs, "storage.bucket is required when watermark.backend=object")
	}
	if _, err := watermark.Parse(c.Watermark.FilteredStart); err != nil {
		errs = append(errs, "watermark.filtered_start must look like 2006-01-02T15:04:05")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s", key, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "url":
		return key + " must be an absolute URL"
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
