// Package config loads wetwire-eks settings from an optional YAML file and
// WETWIRE_EKS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/lex00/wetwire-eks-go/internal/topology"
)

// EnvPrefix prefixes every environment override, e.g. WETWIRE_EKS_IMAGES_TABLE.
const EnvPrefix = "WETWIRE_EKS"

// Config is the complete set of settings.
type Config struct {
	Namespace string         `mapstructure:"namespace" validate:"required"`
	Network   map[string]any `mapstructure:"network"`
	Images    Images         `mapstructure:"images"`
	ACK       ACK            `mapstructure:"ack"`
	Log       Log            `mapstructure:"log"`
}

// Images configures the image metadata table.
type Images struct {
	Table         string        `mapstructure:"table" validate:"required"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint" validate:"omitempty,url"`
	BillingMode   string        `mapstructure:"billing_mode" validate:"oneof=PAY_PER_REQUEST PROVISIONED"`
	WaitForActive time.Duration `mapstructure:"wait_for_active" validate:"gte=0"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
}

// ACK configures the Kubernetes manifests rendered by build --format ack.
type ACK struct {
	Namespace string   `mapstructure:"namespace"`
	Region    string   `mapstructure:"region"`
	Zones     []string `mapstructure:"zones"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var validate = validator.New()

var defaults = map[string]any{
	"namespace":              "default",
	"images.table":           "Images",
	"images.region":          "",
	"images.endpoint":        "",
	"images.billing_mode":    "PAY_PER_REQUEST",
	"images.wait_for_active": "0s",
	"images.access_key":      "",
	"images.secret_key":      "",
	"ack.namespace":          "",
	"ack.region":             "",
	"log.level":              "info",
	"log.format":             "text",
}

// networkEnv lists the topology variables that may be set from the
// environment, e.g. WETWIRE_EKS_NETWORK_BASECIDR=10.0.
var networkEnv = []string{
	"network." + strings.ToLower(topology.VarBaseCIDR),
	"network." + strings.ToLower(topology.VarCreatePrivateSubnets),
}

// Load reads the file at path, if any, applies environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range networkEnv {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Images.BillingMode = strings.ToUpper(cfg.Images.BillingMode)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// TopologyOptions converts the network variables into topology options.
func (c *Config) TopologyOptions() (topology.Options, error) {
	return topology.FromVariables(c.Namespace, c.Network)
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	if len(messages) == 1 {
		return fmt.Errorf("validation error: %s", messages[0])
	}

	var b strings.Builder
	b.WriteString("validation errors:\n")
	for _, msg := range messages {
		fmt.Fprintf(&b, "  - %s\n", msg)
	}
	return errors.New(b.String())
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("field '%s' must not be negative", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
