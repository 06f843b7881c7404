// Package config loads stubgen settings from stubgen.toml, STUBGEN_*
// environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	FileName  = "stubgen.toml"
	EnvPrefix = "STUBGEN"
)

type Config struct {
	// Classpath entries are directories or jar files.
	Classpath []string `mapstructure:"classpath"`
	// ClassList optionally restricts generation to the listed classes.
	ClassList string         `mapstructure:"class_list"`
	Docs      DocsConfig     `mapstructure:"docs"`
	Output    OutputConfig   `mapstructure:"output"`
	Generate  GenerateConfig `mapstructure:"generate"`
	Builtins  BuiltinsConfig `mapstructure:"builtins"`
}

type DocsConfig struct {
	Dir       string `mapstructure:"dir"`
	PlainText bool   `mapstructure:"plain_text"`
}

type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	CompatShim bool   `mapstructure:"compat_shim"`
}

type GenerateConfig struct {
	Prefix []string `mapstructure:"prefix"`
	// Snapshot reads the reflection listing from a dumped snapshot file
	// instead of the classpath.
	Snapshot string `mapstructure:"snapshot"`
}

// BuiltinsConfig describes the module of free functions a scripting
// environment injects into every script.
type BuiltinsConfig struct {
	Module  string   `mapstructure:"module"`
	Classes []string `mapstructure:"classes"`
	Names   []string `mapstructure:"names"`
	// Variables are "name=dotted.Class" pairs declaring typed globals.
	// They are kept as a list because viper folds map keys to lower case.
	Variables []string `mapstructure:"variables"`
}

// VariableTypes parses Variables into a name to class map.
func (b BuiltinsConfig) VariableTypes() (map[string]string, error) {
	types := make(map[string]string, len(b.Variables))
	for _, pair := range b.Variables {
		name, class, ok := strings.Cut(pair, "=")
		name, class = strings.TrimSpace(name), strings.TrimSpace(class)
		if !ok || name == "" || class == "" {
			return nil, errors.Newf("invalid builtins variable %q, want name=Class", pair)
		}
		types[name] = class
	}
	return types, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("classpath", []string{})
	v.SetDefault("class_list", "")

	v.SetDefault("docs.dir", "")
	v.SetDefault("docs.plain_text", false)

	v.SetDefault("output.dir", "stubs")
	v.SetDefault("output.compat_shim", true)

	v.SetDefault("generate.prefix", []string{"ghidra"})
	v.SetDefault("generate.snapshot", "")

	v.SetDefault("builtins.module", "")
	v.SetDefault("builtins.classes", []string{
		"ghidra.program.flatapi.FlatProgramAPI",
		"ghidra.app.script.GhidraScript",
	})
	v.SetDefault("builtins.names", []string{})
	v.SetDefault("builtins.variables", []string{
		"currentProgram=ghidra.program.database.ProgramDB",
		"currentAddress=ghidra.program.model.address.Address",
		"currentLocation=ghidra.program.util.ProgramLocation",
		"currentSelection=ghidra.program.util.ProgramSelection",
		"currentHighlight=ghidra.program.util.ProgramSelection",
		"monitor=ghidra.util.task.TaskMonitor",
	})
}

// New returns a viper instance with defaults and environment binding. An
// explicit configFile must exist; otherwise stubgen.toml is looked up from
// the working directory upwards and used when found.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile == "" {
		if wd, err := os.Getwd(); err == nil {
			configFile = FindProjectConfig(wd)
		}
	}
	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}
	return v, nil
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Load is New followed by Unmarshal.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// FindProjectConfig walks up from dir looking for stubgen.toml.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
