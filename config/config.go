// Package config holds the settings shared by every command. Values come
// from defaults, PENTASWAP_-prefixed environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigEngine          = "engine"
	ConfigSearchTime      = "search-time"
	ConfigSearchThreads   = "search-threads"
	ConfigTTFractionOfMem = "tt-fraction-of-mem"
	ConfigNatsURL         = "nats-url"
	ConfigNatsChannel     = "nats-channel"
	ConfigNatsTimeout     = "nats-timeout"
	ConfigLambdaFunction  = "lambda-function"
	ConfigLambdaReplies   = "lambda-nats-replies"
	ConfigLuaScript       = "lua-script"
	ConfigOpeningDB       = "opening-db"
	ConfigOpeningMinGames = "opening-min-games"
	ConfigOpeningFallback = "opening-fallback"
	ConfigAutoplayThreads = "autoplay-threads"
	ConfigAutoplayOutput  = "autoplay-output"
	ConfigCPUProfile      = "cpu-profile"
)

// Engine kinds understood by ConfigEngine.
const (
	EngineHasty   = "hasty"
	EngineNegamax = "negamax"
	EngineLua     = "lua"
	EngineNats    = "nats"
	EngineLambda  = "lambda"
	EngineOpening = "opening"
)

type Config struct {
	*viper.Viper
}

// secrets never show up in SanitizedSettings.
var secrets = []string{ConfigNatsURL}

func DefaultConfig() *Config {
	c := &Config{viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigEngine, EngineNegamax)
	c.SetDefault(ConfigSearchTime, 2*time.Second)
	c.SetDefault(ConfigSearchThreads, 1)
	c.SetDefault(ConfigTTFractionOfMem, 0.05)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigNatsChannel, "pentaswap.bot")
	c.SetDefault(ConfigNatsTimeout, 10*time.Second)
	c.SetDefault(ConfigLambdaFunction, "")
	c.SetDefault(ConfigLambdaReplies, false)
	c.SetDefault(ConfigLuaScript, "")
	c.SetDefault(ConfigOpeningDB, "./data/openings.db")
	c.SetDefault(ConfigOpeningMinGames, 20)
	c.SetDefault(ConfigOpeningFallback, EngineNegamax)
	c.SetDefault(ConfigAutoplayThreads, 1)
	c.SetDefault(ConfigAutoplayOutput, "/tmp/autoplay.txt")
	c.SetDefault(ConfigCPUProfile, "")

	c.SetEnvPrefix("PENTASWAP")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

// Load parses command-line style args (--key=value) on top of the
// defaults and environment.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("pentaswap", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	fs.String(ConfigEngine, c.GetString(ConfigEngine), "engine kind: hasty, negamax, lua, nats, lambda or opening")
	fs.Duration(ConfigSearchTime, c.GetDuration(ConfigSearchTime), "time budget per search")
	fs.Int(ConfigSearchThreads, c.GetInt(ConfigSearchThreads), "threads per search")
	fs.Float64(ConfigTTFractionOfMem, c.GetFloat64(ConfigTTFractionOfMem), "fraction of total memory for the transposition table")
	fs.String(ConfigNatsURL, c.GetString(ConfigNatsURL), "NATS server url")
	fs.String(ConfigNatsChannel, c.GetString(ConfigNatsChannel), "NATS subject the bot listens on")
	fs.Duration(ConfigNatsTimeout, c.GetDuration(ConfigNatsTimeout), "how long to wait for a bot reply")
	fs.String(ConfigLambdaFunction, c.GetString(ConfigLambdaFunction), "name of the Lambda function to invoke")
	fs.Bool(ConfigLambdaReplies, c.GetBool(ConfigLambdaReplies), "connect to NATS so the Lambda handler can send replies there")
	fs.String(ConfigLuaScript, c.GetString(ConfigLuaScript), "path of the Lua engine script")
	fs.String(ConfigOpeningDB, c.GetString(ConfigOpeningDB), "path of the sqlite opening table")
	fs.Int(ConfigOpeningMinGames, c.GetInt(ConfigOpeningMinGames), "games a table entry needs before it is trusted")
	fs.String(ConfigOpeningFallback, c.GetString(ConfigOpeningFallback), "engine kind used outside the opening table")
	fs.Int(ConfigAutoplayThreads, c.GetInt(ConfigAutoplayThreads), "concurrent autoplay games")
	fs.String(ConfigAutoplayOutput, c.GetString(ConfigAutoplayOutput), "autoplay log file")
	fs.String(ConfigCPUProfile, c.GetString(ConfigCPUProfile), "write a cpu profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.BindPFlags(fs)
}

// SanitizedSettings returns all settings, with secrets masked, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	for _, k := range secrets {
		if v, ok := settings[k]; ok && v != "" {
			settings[k] = "********"
		}
	}
	return settings
}
