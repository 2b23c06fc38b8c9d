// Package config loads jseval settings from defaults, an optional YAML file
// and JSEVAL_ environment variables, in that order.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/errors"
)

const (
	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "JSEVAL_"

	// EnvFile names the variable holding a config file path. It is not a
	// setting itself.
	EnvFile = EnvPrefix + "CONFIG"
)

var validate = validator.New()

// Log configures the logger built by Config.Logger.
type Log struct {
	Level  string   `yaml:"level" mapstructure:"level" json:"level,omitempty" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Format string   `yaml:"format" mapstructure:"format" json:"format,omitempty" validate:"oneof=json console" jsonschema:"enum=json,enum=console,default=console"`
	Output []string `yaml:"output" mapstructure:"output" json:"output,omitempty" validate:"min=1,dive,required"`
}

// Config holds runtime settings.
type Config struct {
	// Backend names the engine backend. "v8" requires the v8 build tag.
	Backend string `yaml:"backend" mapstructure:"backend" json:"backend,omitempty" validate:"oneof=goja v8" jsonschema:"enum=goja,enum=v8,default=goja"`

	// MailboxLimit caps queued requests per instance. 0 is unbounded.
	MailboxLimit int `yaml:"mailbox_limit" mapstructure:"mailbox_limit" json:"mailbox_limit,omitempty" validate:"gte=0"`

	// MaxCallStackSize bounds script recursion. 0 keeps the backend default.
	MaxCallStackSize int `yaml:"max_call_stack_size" mapstructure:"max_call_stack_size" json:"max_call_stack_size,omitempty" validate:"gte=0"`

	// ModuleDir enables require() from this folder.
	ModuleDir string `yaml:"module_dir" mapstructure:"module_dir" json:"module_dir,omitempty" validate:"omitempty,dir"`

	// Console routes script console output to the logger.
	Console bool `yaml:"console" mapstructure:"console" json:"console,omitempty"`

	// StrictArguments rejects ambiguous or empty argument records at the
	// C boundary instead of applying the default precedence.
	StrictArguments bool `yaml:"strict_arguments" mapstructure:"strict_arguments" json:"strict_arguments,omitempty"`

	// V8Flags are passed to V8 once per process.
	V8Flags []string `yaml:"v8_flags" mapstructure:"v8_flags" json:"v8_flags,omitempty"`

	Log Log `yaml:"log" mapstructure:"log" json:"log,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend: "goja",
		Console: true,
		Log: Log{
			Level:  "info",
			Format: "console",
			Output: []string{"stderr"},
		},
	}
}

// FromEnv loads the file named by JSEVAL_CONFIG, if set, and the
// environment overlay.
func FromEnv() (*Config, error) {
	return Load(os.Getenv(EnvFile))
}

// Load reads path (when non-empty) over the defaults, applies JSEVAL_
// environment variables and validates the result.
func Load(path string) (*Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.InvalidConfig("reading "+path, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.InvalidConfig("parsing "+path, err)
		}
		if err := decode(raw, cfg, true); err != nil {
			return nil, errors.InvalidConfig("decoding "+path, err)
		}
	}

	if err := decode(environment(environ), cfg, false); err != nil {
		return nil, errors.InvalidConfig("decoding environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays input onto cfg. Unknown keys are an error for files; the
// environment may carry unrelated JSEVAL_ variables, which are ignored.
func decode(input map[string]any, cfg *Config, strict bool) error {
	if len(input) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// environment collects JSEVAL_ variables as a nested map. JSEVAL_LOG_LEVEL
// becomes log.level; list values are comma separated.
func environment(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == EnvFile || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		if rest, ok := strings.CutPrefix(key, "log_"); ok {
			section, _ := out["log"].(map[string]any)
			if section == nil {
				section = map[string]any{}
				out["log"] = section
			}
			section[rest] = v
			continue
		}
		out[key] = v
	}
	return out
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.InvalidConfig("validation failed", err)
	}
	return nil
}

// EngineOptions converts the settings for engine.New.
func (c *Config) EngineOptions(log *zap.Logger) engine.Options {
	return engine.Options{
		Logger:           log,
		Backend:          c.Backend,
		ModuleDir:        c.ModuleDir,
		Flags:            c.V8Flags,
		MaxCallStackSize: c.MaxCallStackSize,
		MailboxLimit:     c.MailboxLimit,
		Console:          c.Console,
	}
}
