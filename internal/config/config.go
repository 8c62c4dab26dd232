// Package config loads and validates vibe-mutstrat settings from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-mutstrat/internal/datasource/oncokb"
	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/store"
)

// FileName is the config file name looked up in the home directory.
const FileName = ".vibe-mutstrat.yaml"

// EnvPrefix prefixes environment variable overrides, e.g. VIBE_MUTSTRAT_STORE_DRIVER.
const EnvPrefix = "VIBE_MUTSTRAT"

// Config holds all settings.
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Genes GenesConfig `mapstructure:"genes"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig selects the record store.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=duckdb sqlite"`
	Path   string `mapstructure:"path"`
}

// GenesConfig names the gene role reference files. A cancer gene list takes
// precedence over the plain gene set files; with neither, the built-in sets
// are used.
type GenesConfig struct {
	CancerGeneList   string `mapstructure:"cancer_gene_list" validate:"omitempty,file"`
	Oncogenes        string `mapstructure:"oncogenes" validate:"omitempty,file"`
	TumorSuppressors string `mapstructure:"tumor_suppressors" validate:"omitempty,file"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", store.DriverDuckDB)
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("log.level", "info")
}

// BindEnv makes VIBE_MUTSTRAT_<SECTION>_<KEY> environment variables override
// file settings.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// DefaultStorePath returns ~/.vibe-mutstrat/mutations.db, or a relative
// path when the home directory is unknown.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vibe-mutstrat", "mutations.db")
	}
	return filepath.Join(home, ".vibe-mutstrat", "mutations.db")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks cfg against its field constraints.
func (cfg *Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		errs = append(errs, ValidationError{Key: key, Message: formatFieldError(key, fe)})
	}
	return errs
}

// ValidationError describes one invalid config value.
type ValidationError struct {
	Key     string
	Message string
}

// ValidationErrors lists every invalid config value.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func formatFieldError(key string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", key, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "file":
		return fmt.Sprintf("%s must name an existing file (got %q)", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

// Classifier builds the gene role classifier named by the genes settings.
func (cfg *Config) Classifier() (*generole.Classifier, error) {
	g := cfg.Genes
	if g.CancerGeneList != "" {
		list, err := oncokb.LoadCancerGeneList(g.CancerGeneList)
		if err != nil {
			return nil, err
		}
		return list.Classifier(), nil
	}

	if g.Oncogenes == "" && g.TumorSuppressors == "" {
		return generole.Default(), nil
	}

	def := generole.Default()
	onc, tsg := def.Oncogenes(), def.TumorSuppressors()
	var err error
	if g.Oncogenes != "" {
		if onc, err = generole.LoadGeneSet(g.Oncogenes); err != nil {
			return nil, err
		}
	}
	if g.TumorSuppressors != "" {
		if tsg, err = generole.LoadGeneSet(g.TumorSuppressors); err != nil {
			return nil, err
		}
	}
	return generole.NewClassifier(onc, tsg), nil
}

// Logger builds a console logger writing to stderr at the configured level.
func (cfg *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
