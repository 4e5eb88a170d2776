// Package config holds the configuration surface for the door hacking
// tool: defaults, command-line flags and DOORHACK_* environment
// overrides, in that order of increasing precedence.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultArchive is the archive searched when none is given on the
// command line.
const DefaultArchive = "emergency_storage_key.zip"

const (
	ConfigArchive        = "archive"
	ConfigWorkers        = "workers"
	ConfigLog            = "log"
	ConfigLogLevel       = "log-level"
	ConfigReportEvery    = "report-every"
	ConfigReportInterval = "report-interval"
	ConfigTrace          = "trace"
	ConfigRateHistogram  = "rate-histogram"
	ConfigCredentialFile = "credential-file"
	ConfigExtractDir     = "extract-dir"
)

type Config struct {
	v *viper.Viper
}

func DefaultConfig() Config {
	v := viper.New()
	v.SetDefault(ConfigArchive, DefaultArchive)
	v.SetDefault(ConfigWorkers, runtime.NumCPU())
	v.SetDefault(ConfigLog, "doorhack.log")
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigReportEvery, 100000)
	v.SetDefault(ConfigReportInterval, 1.0)
	v.SetDefault(ConfigTrace, "")
	v.SetDefault(ConfigRateHistogram, false)
	v.SetDefault(ConfigCredentialFile, "password.txt")
	v.SetDefault(ConfigExtractDir, ".")
	v.SetEnvPrefix("doorhack")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return Config{v: v}
}

func (c *Config) init() {
	if c.v == nil {
		*c = DefaultConfig()
	}
}

// Load parses command-line arguments into the config. The single
// optional positional argument is the archive path.
func (c *Config) Load(args []string) error {
	c.init()
	fs := pflag.NewFlagSet("doorhack", pflag.ContinueOnError)
	fs.Int(ConfigWorkers, c.v.GetInt(ConfigWorkers), "number of concurrent search workers")
	fs.String(ConfigLog, c.v.GetString(ConfigLog), "log file; lines also go to the console")
	fs.String(ConfigLogLevel, c.v.GetString(ConfigLogLevel), "debug, info, warn or error")
	fs.Int(ConfigReportEvery, c.v.GetInt(ConfigReportEvery), "attempts a worker batches into one progress message")
	fs.Float64(ConfigReportInterval, c.v.GetFloat64(ConfigReportInterval), "seconds between progress lines")
	fs.String(ConfigTrace, c.v.GetString(ConfigTrace), "write a per-batch YAML search trace to this file")
	fs.Bool(ConfigRateHistogram, c.v.GetBool(ConfigRateHistogram), "print a histogram of attempt rates at the end")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		c.v.Set(ConfigArchive, rest[0])
	}
	return nil
}

func (c *Config) GetString(key string) string {
	c.init()
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	c.init()
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	c.init()
	return c.v.GetFloat64(key)
}

func (c *Config) GetBool(key string) bool {
	c.init()
	return c.v.GetBool(key)
}

func (c *Config) Set(key string, value any) {
	c.init()
	c.v.Set(key, value)
}

func (c *Config) AllSettings() map[string]any {
	c.init()
	return c.v.AllSettings()
}
