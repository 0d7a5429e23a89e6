package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/navigator/internal/errors"
	"github.com/vango-dev/navigator/pkg/route"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Default values.
const (
	ConfigFileName     = "navigator.json"
	YAMLConfigFileName = "navigator.yaml"

	DefaultInspectorAddr = "localhost:7070"
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
)

// Format identifies the encoding of a definition file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file name extension. Unknown
// extensions are treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Config is the parsed definition file.
type Config struct {
	// Routes are registered in file order.
	Routes []RouteConfig `json:"routes" yaml:"routes" validate:"required,min=1,unique=Name,dive"`

	// Inspector configures the inspector server started by "navigator serve".
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`

	// source is where the file was loaded from.
	source string
}

// RouteConfig is the file form of a route.Definition.
type RouteConfig struct {
	Name               string         `json:"name" yaml:"name" validate:"required"`
	View               string         `json:"view" yaml:"view" validate:"required"`
	Path               string         `json:"path" yaml:"path" validate:"required,startswith=/"`
	Parent             string         `json:"parent,omitempty" yaml:"parent,omitempty"`
	AttributeDefaults  map[string]any `json:"attributeDefaults,omitempty" yaml:"attributeDefaults,omitempty"`
	RerenderAttributes []string       `json:"rerenderAttributes,omitempty" yaml:"rerenderAttributes,omitempty" validate:"dive,required"`
	Options            map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Definition converts the entry into a route.Definition.
func (rc RouteConfig) Definition() route.Definition {
	return route.Definition{
		Name:               rc.Name,
		View:               rc.View,
		Path:               rc.Path,
		Parent:             rc.Parent,
		AttributeDefaults:  rc.AttributeDefaults,
		RerenderAttributes: rc.RerenderAttributes,
		Options:            rc.Options,
	}
}

// InspectorConfig configures the inspector HTTP server.
type InspectorConfig struct {
	Addr         string   `json:"addr,omitempty" yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
	ReadTimeout  Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty" validate:"gte=0"`
	WriteTimeout Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty" validate:"gte=0"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	return d.set(s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Source returns where the configuration was loaded from, if anywhere.
func (c *Config) Source() string {
	return c.source
}

// Load finds and loads the definition file in dir. navigator.json is
// preferred over navigator.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "navigator.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("NAV201").
		WithDetail(fmt.Sprintf("No %s or %s found in %s", ConfigFileName, YAMLConfigFileName, dir)).
		WithSuggestion("Create a navigator.json listing your routes")
}

// LoadFile loads a definition file from a specific path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("NAV201").
				WithDetail(fmt.Sprintf("File not found: %s", path)).
				WithSuggestion("Check the path passed with --config")
		}
		return nil, errors.New("NAV201").Wrap(err).
			WithDetail(fmt.Sprintf("Failed to read %s", path))
	}

	return parse(data, FormatFor(path), path)
}

// Parse decodes and validates a definition file.
func Parse(data []byte, format Format) (*Config, error) {
	return parse(data, format, "")
}

// parse is Parse for data read from source. Decode errors point at their
// line in source.
func parse(data []byte, format Format, source string) (*Config, error) {
	cfg := &Config{source: source}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, syntaxError(err, "YAML", data, source)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(cfg); err != nil {
			return nil, syntaxError(err, "JSON", data, source)
		}
	}

	for i := range cfg.Routes {
		cfg.Routes[i].AttributeDefaults = normalizeMap(cfg.Routes[i].AttributeDefaults)
		cfg.Routes[i].Options = normalizeMap(cfg.Routes[i].Options)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// yamlLineRegex finds the line yaml.v3 reports in its error messages.
var yamlLineRegex = regexp.MustCompile(`line (\d+):`)

func syntaxError(err error, kind string, data []byte, source string) *errors.NavError {
	ne := errors.New("NAV202").Wrap(err).
		WithDetail(fmt.Sprintf("Failed to parse %s: %v", kind, err))

	line, column := errorPosition(err, data)
	if line == 0 {
		return ne
	}
	if source == "" {
		source = "<input>"
	}
	return ne.WithLocation(source, line, column).WithSource(data)
}

// errorPosition returns the 1-based line and column of a decode error, or
// zero if err carries no position. YAML errors only report a line.
func errorPosition(err error, data []byte) (line, column int) {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntax):
		return offsetPosition(data, syntax.Offset)
	case stderrors.As(err, &typ):
		return offsetPosition(data, typ.Offset)
	}
	if m := yamlLineRegex.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			return n, 0
		}
	}
	return 0, 0
}

func offsetPosition(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	head := data[:offset]
	line = bytes.Count(head, []byte("\n")) + 1
	column = len(head) - bytes.LastIndexByte(head, '\n') - 1
	if column < 1 {
		column = 1
	}
	return line, column
}

func (c *Config) applyDefaults() {
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.ReadTimeout == 0 {
		c.Inspector.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Inspector.WriteTimeout == 0 {
		c.Inspector.WriteTimeout = Duration(DefaultWriteTimeout)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.New("NAV203").Wrap(err)
	}

	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		lines = append(lines, describeFieldError(fe))
	}
	return errors.New("NAV203").Wrap(err).
		WithDetail(strings.Join(lines, "\n"))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s contains duplicate %s values", field, strings.ToLower(fe.Param()))
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// Definitions returns the route definitions in file order.
func (c *Config) Definitions() []route.Definition {
	defs := make([]route.Definition, len(c.Routes))
	for i, rc := range c.Routes {
		defs[i] = rc.Definition()
	}
	return defs
}

// BuildRegistry compiles every route and registers them as one collection.
// Pattern errors, duplicate names and unknown parents are reported with
// their NAV1xx codes.
func (c *Config) BuildRegistry() (*route.Registry, error) {
	routes := make([]*route.Route, 0, len(c.Routes))
	for _, def := range c.Definitions() {
		r, err := route.New(def)
		if err != nil {
			return nil, errors.FromError(err, "NAV203")
		}
		routes = append(routes, r)
	}

	reg := route.NewRegistry()
	if err := reg.AddCollection(routes); err != nil {
		return nil, errors.FromError(err, "NAV203")
	}
	if err := reg.Validate(); err != nil {
		return nil, errors.FromError(err, "NAV203")
	}
	return reg, nil
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return urlparam.Normalize(m).(map[string]any)
}
