// Package config loads quill settings from quill.yml and QUILL_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/quill/dispatch"
	"github.com/simonhull/quill/exec"
	"github.com/simonhull/quill/filesystem"
	"github.com/simonhull/quill/logger"
)

// FileName is the config file name searched for, without extension
const FileName = "quill"

// EnvPrefix prefixes environment overrides, e.g. QUILL_EXEC_TIMEOUT
const EnvPrefix = "QUILL"

// Config holds application configuration
type Config struct {
	Shell    ShellConfig    `mapstructure:"shell" yaml:"shell"`
	Run      RunConfig      `mapstructure:"run" yaml:"run"`
	Build    CommandConfig  `mapstructure:"build" yaml:"build"`
	Exec     ExecConfig     `mapstructure:"exec" yaml:"exec"`
	Explorer ExplorerConfig `mapstructure:"explorer" yaml:"explorer"`
	Editor   EditorConfig   `mapstructure:"editor" yaml:"editor"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	// File is the config file that was read, empty when defaults were used
	File string `mapstructure:"-" yaml:"-"`
}

// CommandConfig is a program and its fixed arguments
type CommandConfig struct {
	Program string   `mapstructure:"program" yaml:"program"`
	Args    []string `mapstructure:"args" yaml:"args"`
}

// ShellConfig selects the command interpreter per platform
type ShellConfig struct {
	Posix   CommandConfig `mapstructure:"posix" yaml:"posix"`
	Windows CommandConfig `mapstructure:"windows" yaml:"windows"`
}

// RuleConfig adds or replaces the run rule for one extension
type RuleConfig struct {
	Ext   string          `mapstructure:"ext" yaml:"ext"`
	Steps []CommandConfig `mapstructure:"steps" yaml:"steps"`
}

// RunConfig holds file-type run rules
type RunConfig struct {
	Rules []RuleConfig `mapstructure:"rules" yaml:"rules"`
}

// ExecConfig holds command execution settings
type ExecConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ExplorerConfig holds file explorer settings
type ExplorerConfig struct {
	MaxDepth   int      `mapstructure:"max_depth" yaml:"max_depth"`
	Ignore     []string `mapstructure:"ignore" yaml:"ignore"`
	ShowHidden bool     `mapstructure:"show_hidden" yaml:"show_hidden"`
	Watch      bool     `mapstructure:"watch" yaml:"watch"`
}

// EditorConfig holds text editing settings
type EditorConfig struct {
	AutoPair bool `mapstructure:"auto_pair" yaml:"auto_pair"`
}

// LogConfig holds log output settings
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			Posix:   CommandConfig{Program: "sh", Args: []string{"-c"}},
			Windows: CommandConfig{Program: "cmd", Args: []string{"/C"}},
		},
		Run:   RunConfig{Rules: []RuleConfig{}},
		Build: CommandConfig{Program: dispatch.DefaultBuild.Program, Args: dispatch.DefaultBuild.Args},
		Explorer: ExplorerConfig{
			MaxDepth: 3,
			Ignore:   []string{},
			Watch:    true,
		},
		Editor: EditorConfig{AutoPair: true},
		Log:    LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("shell.posix.program", d.Shell.Posix.Program)
	v.SetDefault("shell.posix.args", d.Shell.Posix.Args)
	v.SetDefault("shell.windows.program", d.Shell.Windows.Program)
	v.SetDefault("shell.windows.args", d.Shell.Windows.Args)
	v.SetDefault("run.rules", []map[string]any{})
	v.SetDefault("build.program", d.Build.Program)
	v.SetDefault("build.args", d.Build.Args)
	v.SetDefault("exec.timeout", d.Exec.Timeout)
	v.SetDefault("explorer.max_depth", d.Explorer.MaxDepth)
	v.SetDefault("explorer.ignore", d.Explorer.Ignore)
	v.SetDefault("explorer.show_hidden", d.Explorer.ShowHidden)
	v.SetDefault("explorer.watch", d.Explorer.Watch)
	v.SetDefault("editor.auto_pair", d.Editor.AutoPair)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads configuration. An explicit path must exist; otherwise quill.yml
// is searched in the working directory then $HOME/.config/quill, and a
// missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "quill"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		if cfg.File != "" {
			return nil, fmt.Errorf("%s: %w", cfg.File, err)
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and names the offending key
func (c *Config) Validate() error {
	if c.Shell.Posix.Program == "" {
		return fmt.Errorf("shell.posix.program: must not be empty")
	}
	if c.Shell.Windows.Program == "" {
		return fmt.Errorf("shell.windows.program: must not be empty")
	}
	if c.Build.Program == "" {
		return fmt.Errorf("build.program: must not be empty")
	}
	if c.Exec.Timeout < 0 {
		return fmt.Errorf("exec.timeout: must not be negative, got %s", c.Exec.Timeout)
	}
	if c.Explorer.MaxDepth < 0 {
		return fmt.Errorf("explorer.max_depth: must not be negative, got %d", c.Explorer.MaxDepth)
	}
	if _, err := filesystem.CompilePatterns(c.Explorer.Ignore); err != nil {
		return fmt.Errorf("explorer.ignore: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	for i, rule := range c.Run.Rules {
		if err := rule.toRule().Validate(); err != nil {
			return fmt.Errorf("run.rules[%d]: %w", i, err)
		}
	}
	return nil
}

// ShellFor returns the configured interpreter for goos
func (c *Config) ShellFor(goos string) exec.Shell {
	cmd := c.Shell.Posix
	if goos == "windows" {
		cmd = c.Shell.Windows
	}
	return exec.Shell{Program: cmd.Program, Args: cmd.Args}
}

// Rules returns the default run rules followed by the configured ones, so
// configured rules override defaults for the same extension.
func (c *Config) Rules() []dispatch.Rule {
	rules := dispatch.DefaultRules()
	for _, rc := range c.Run.Rules {
		rules = append(rules, rc.toRule())
	}
	return rules
}

// BuildStep returns the configured build command
func (c *Config) BuildStep() exec.Step {
	return c.Build.step()
}

// WalkOptions returns explorer traversal options
func (c *Config) WalkOptions() filesystem.WalkOptions {
	return filesystem.WalkOptions{
		IgnorePatterns: c.Explorer.Ignore,
		IncludeHidden:  c.Explorer.ShowHidden,
		MaxDepth:       c.Explorer.MaxDepth,
	}
}

func (cc CommandConfig) step() exec.Step {
	return exec.Step{Program: cc.Program, Args: cc.Args}
}

func (rc RuleConfig) toRule() dispatch.Rule {
	steps := make([]exec.Step, len(rc.Steps))
	for i, s := range rc.Steps {
		steps[i] = s.step()
	}
	return dispatch.Rule{Ext: rc.Ext, Steps: steps}
}

// Write serialises cfg as YAML at path, creating parent directories
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LogLevel returns the configured log level. Verbose mode always logs debug.
func (c *Config) LogLevel(verbose bool) logger.Level {
	if verbose {
		return logger.LevelDebug
	}
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
