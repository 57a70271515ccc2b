// Package config loads the project-level harness configuration. Values come
// from gobench.yaml in the working directory, GOBENCH_* environment
// variables and an optional .env file, with built-in defaults applying when
// nothing is set.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved project configuration. Repeat, Number, Warmups and
// GarbageCollection are the global timing defaults that per-function
// overrides merge onto.
type Config struct {
	Benchpath         string
	Repeat            int
	Number            int
	Warmups           int
	GarbageCollection bool
	PartitionBy       []string
}

// Default returns the built-in configuration used when no project file or
// environment override is present.
func Default() Config {
	return Config{
		Benchpath:         "benchmarks",
		Repeat:            30,
		Number:            1,
		Warmups:           0,
		GarbageCollection: false,
		PartitionBy:       []string{"commit"},
	}
}

// Load reads the configuration from file and environment. A missing config
// file is not an error; defaults apply.
func Load(cfgFile string) (Config, error) {
	// explicit .env loading; absence is fine
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("gobench")
	}

	v.SetEnvPrefix("GOBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("benchpath", def.Benchpath)
	v.SetDefault("repeat", def.Repeat)
	v.SetDefault("number", def.Number)
	v.SetDefault("warmups", def.Warmups)
	v.SetDefault("garbage_collection", def.GarbageCollection)
	v.SetDefault("partition_by", def.PartitionBy)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	// Typed getters rather than Unmarshal: they cast env-sourced strings.
	cfg := Config{
		Benchpath:         v.GetString("benchpath"),
		Repeat:            v.GetInt("repeat"),
		Number:            v.GetInt("number"),
		Warmups:           v.GetInt("warmups"),
		GarbageCollection: v.GetBool("garbage_collection"),
		PartitionBy:       v.GetStringSlice("partition_by"),
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
