package main

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/celestialexpressions/expressions"
	"github.com/celestialexpressions/expressions/modfile"
)

const (
	envConfigFile = "CELESTIAL_CONFIG_FILE"
	envLogLevel   = "CELESTIAL_LOG_LEVEL"
)

type config struct {
	Logging     loggerConfig         `yaml:"logging"`
	Server      serverConfig         `yaml:"server"`
	Modules     []modfile.Definition `yaml:"modules"`
	ModuleFiles []string             `yaml:"module_files"`
}

type loggerConfig struct {
	LogToFile       bool   `yaml:"log_to_file"`
	Filename        string `yaml:"filename"`
	MaxSize         int    `yaml:"max_size"`
	MaxAge          int    `yaml:"max_age"`
	MaxBackups      int    `yaml:"max_backups"`
	LogLevel        string `yaml:"log_level"`
	IncludeSrc      bool   `yaml:"include_src"`
	CompressOldLogs bool   `yaml:"compress_old_logs"`
}

type serverConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
	DebugMode    bool     `yaml:"debug_mode"`
}

// readConfig reads the configuration file at path, or the one named by
// $CELESTIAL_CONFIG_FILE if path is empty. With neither, it returns the
// defaults. Environment variables override the file.
func readConfig(path string) (config, error) {
	conf := config{Logging: loggerConfig{LogLevel: "info"}}
	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return conf, err
		}
		if err := yaml.UnmarshalStrict(data, &conf); err != nil {
			return conf, err
		}
	}
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		conf.Logging.LogLevel = lvl
	}
	return conf, nil
}

// registry builds a registry from the configured module files, in order,
// followed by the inline modules. Each file can use the modules before it.
func (conf *config) registry() (*expressions.Registry, error) {
	var mods []*expressions.Module
	for _, path := range conf.ModuleFiles {
		m, err := modfile.Load(path, mods...)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m...)
	}
	inline := modfile.File{Modules: conf.Modules}
	m, err := inline.Build(mods...)
	if err != nil {
		return nil, err
	}
	mods = append(mods, m...)

	r := expressions.NewRegistry()
	for _, m := range mods {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}
