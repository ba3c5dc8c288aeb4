package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	KeyStorageBackend          = "storage.backend"
	KeyStoragePath             = "storage.path"
	KeyStorageSheet            = "storage.sheet"
	KeyServerPort              = "server.port"
	KeyLogLevel                = "log.level"
	KeyLogFormat               = "log.format"
	KeyParserTrailingCheckOut  = "parser.trailing_checkout"
	KeyParserIgnoreKeywords    = "parser.ignore_keywords"
	KeyDirectoryBranches       = "directory.branches"
	KeyDirectoryNames          = "directory.names"
	BackendSQLite              = "sqlite"
	BackendSheet               = "sheet"
	DefaultSheetName           = "Attendance_Logs"
	defaultStoragePath         = "./shiftlog.db"
	defaultSheetPath           = "./shiftlog.xlsx"
	defaultServerPort          = 8080
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
	defaultParserTrailingCheck = false
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Directory DirectoryConfig `mapstructure:"directory"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=sqlite sheet"`
	Path    string `mapstructure:"path" validate:"required"`
	Sheet   string `mapstructure:"sheet"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type ParserConfig struct {
	TrailingCheckOut bool     `mapstructure:"trailing_checkout"`
	IgnoreKeywords   []string `mapstructure:"ignore_keywords"`
}

// DirectoryConfig holds the autocomplete lists offered by the editing UI. The
// parser never consults them.
type DirectoryConfig struct {
	Branches []string `mapstructure:"branches" validate:"dive,required"`
	Names    []string `mapstructure:"names" validate:"dive,required"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return ExampleYAMLFor(BackendSQLite)
}

// ExampleYAMLFor returns the configuration template for a storage backend.
// Unknown backends fall back to sqlite.
func ExampleYAMLFor(backend string) string {
	path := defaultStoragePath
	if backend == BackendSheet {
		path = defaultSheetPath
	} else {
		backend = BackendSQLite
	}

	return fmt.Sprintf(`# shiftlog configuration
storage:
  backend: %q        # sqlite | sheet
  path: %q    # sqlite file, or .xlsx workbook for backend=sheet
  sheet: %q

server:
  port: %d

log:
  level: %q
  format: %q        # console | json

parser:
  trailing_checkout: false
  ignore_keywords: ["마감", "ABD", "BGD", "1팀", "2팀", "3팀", "파트", "오픈", "미들", "closing", "open", "middle", "part", "team"]

directory:
  branches: []
  names: []
`, backend, path, DefaultSheetName, defaultServerPort, defaultLogLevel, defaultLogFormat)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("validation failed: log.level %q: %w", cfg.Log.Level, err)
	}
	if err := validateUnique("directory.branches", cfg.Directory.Branches); err != nil {
		return nil, err
	}
	if err := validateUnique("directory.names", cfg.Directory.Names); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == BackendSheet && strings.TrimSpace(cfg.Storage.Sheet) == "" {
		cfg.Storage.Sheet = DefaultSheetName
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageBackend, BackendSQLite)
	v.SetDefault(KeyStoragePath, defaultStoragePath)
	v.SetDefault(KeyStorageSheet, DefaultSheetName)
	v.SetDefault(KeyServerPort, defaultServerPort)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
	v.SetDefault(KeyParserTrailingCheckOut, defaultParserTrailingCheck)
	v.SetDefault(KeyParserIgnoreKeywords, []string{})
	v.SetDefault(KeyDirectoryBranches, []string{})
	v.SetDefault(KeyDirectoryNames, []string{})
}

func validateUnique(key string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for i, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if _, exists := seen[normalized]; exists {
			return fmt.Errorf("validation failed: %s[%d] duplicates %q", key, i, value)
		}
		seen[normalized] = struct{}{}
	}
	return nil
}
