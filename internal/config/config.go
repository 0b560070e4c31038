package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errtype "github.com/xgx-io/xgx-errtype"
	"github.com/xgx-io/xgx-errtype/errlog"
)

const (
	DefaultOutput   = "json"
	DefaultLogLevel = "warn"

	envPrefix = "ERRTYPE"
)

// ErrConfig is the kind of every configuration failure.
var ErrConfig = errtype.MustDefine("ConfigError", errtype.Attrs{
	"key": errtype.ReadOnly(""),
}, nil)

// Config holds the CLI settings.
type Config struct {
	ConfigFile string   `mapstructure:"config"`
	Catalog    string   `mapstructure:"catalog" validate:"required"`
	Type       string   `mapstructure:"type" validate:"required_unless=List true"`
	Message    string   `mapstructure:"message"`
	Fields     []string `mapstructure:"field"`
	Causes     []string `mapstructure:"cause"`
	Output     string   `mapstructure:"output" validate:"oneof=json text"`
	LogLevel   string   `mapstructure:"log-level" validate:"loglevel"`
	List       bool     `mapstructure:"list"`
}

var validate = newValidator()

// newValidator reports fields by their flag names and knows zerolog levels.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := errlog.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Cause is a cause requested on the command line as "Type:message".
type Cause struct {
	Type    string
	Message string
}

// Flags returns the flag set Load parses.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("errtype", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("config", "", "Config file (yaml, toml or json)")
	fs.StringP("catalog", "c", "", "Catalog file defining the error types")
	fs.StringP("type", "t", "", "Type to instantiate")
	fs.StringP("message", "m", "", "Instance message")
	fs.StringArrayP("field", "f", nil, "Field to merge, as key=value (repeatable)")
	fs.StringArray("cause", nil, "Cause to wrap, as Type:message (repeatable)")
	fs.StringP("output", "o", DefaultOutput, "Output format: json or text")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warn or error")
	fs.Bool("list", false, "List the catalog's type names and exit")
	return fs
}

// Usage renders the flag help.
func Usage() string {
	return "Usage: errtype --catalog FILE --type NAME [flags]\n\n" + Flags().FlagUsages()
}

// Load reads settings from args, ERRTYPE_* environment variables and an
// optional config file, in that order of precedence. A help request
// returns pflag.ErrHelp.
func Load(args []string) (*Config, error) {
	fs := Flags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, ErrConfig.Wrap(err, "failed to parse flags")
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, ErrConfig.Wrap(err, "failed to bind flags")
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, ErrConfig.Wrap(err, "failed to read config file", errtype.Attrs{"key": errtype.ReadOnly("config")})
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrConfig.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	var valErrs validator.ValidationErrors
	if err := validate.Struct(c); errors.As(err, &valErrs) {
		for _, e := range valErrs {
			detail := e.ActualTag()
			if e.Param() != "" {
				detail += ":" + e.Param()
			}
			errs = append(errs, ErrConfig.New(
				fmt.Sprintf("invalid %s %q: require %q", e.Field(), fmt.Sprint(e.Value()), detail),
				errtype.Attrs{"key": errtype.ReadOnly(e.Field())}))
		}
	} else if err != nil {
		errs = append(errs, ErrConfig.Wrap(err, "failed to validate config"))
	}
	if _, err := c.FieldAttrs(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ParseCauses(); err != nil {
		errs = append(errs, err)
	}
	return errtype.Join(errs...)
}

// FieldAttrs parses the key=value fields.
func (c *Config) FieldAttrs() (errtype.Attrs, error) {
	if len(c.Fields) == 0 {
		return nil, nil
	}
	attrs := make(errtype.Attrs, len(c.Fields))
	for _, f := range c.Fields {
		k, val, ok := strings.Cut(f, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, ErrConfig.New(fmt.Sprintf("invalid field %q, want key=value", f),
				errtype.Attrs{"key": errtype.ReadOnly("field")})
		}
		attrs[k] = val
	}
	return attrs, nil
}

// ParseCauses parses the Type:message causes.
func (c *Config) ParseCauses() ([]Cause, error) {
	out := make([]Cause, 0, len(c.Causes))
	for _, s := range c.Causes {
		typ, msg, _ := strings.Cut(s, ":")
		typ = strings.TrimSpace(typ)
		if typ == "" {
			return nil, ErrConfig.New(fmt.Sprintf("invalid cause %q, want Type:message", s),
				errtype.Attrs{"key": errtype.ReadOnly("cause")})
		}
		out = append(out, Cause{Type: typ, Message: strings.TrimSpace(msg)})
	}
	return out, nil
}
