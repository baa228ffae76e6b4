package util

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var envLogger = log.With().Str("logger_name", "util::environment").Logger()

type config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	PersistMethod string `env:"PERSIST_METHOD" envDefault:"memory"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPW       string `env:"REDIS_PW"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	NatsURL       string `env:"NATS_URL"`
	RestPort      int    `env:"REST_PORT" envDefault:"8080"`
	TableCount    int    `env:"TABLE_COUNT" envDefault:"1"`
	Ante          uint32 `env:"ANTE" envDefault:"0"`
}

type environment struct {
	cfg config
}

// Env is a helper object for accessing environment variables.
var Env = &environment{}

// LoadEnv reads the optional .env files and then the process environment.
// Variables already set in the process win over the files.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "Unable to load %s", f)
		}
		envLogger.Info().Msgf("Loaded environment from %s", f)
	}
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return errors.Wrap(err, "Unable to parse environment")
	}
	Env.cfg = cfg
	return nil
}

func (e *environment) GetPersistMethod() string {
	return e.cfg.PersistMethod
}

func (e *environment) GetRedisHost() string {
	return e.cfg.RedisHost
}

func (e *environment) GetRedisPort() int {
	return e.cfg.RedisPort
}

func (e *environment) GetRedisPW() string {
	return e.cfg.RedisPW
}

func (e *environment) GetRedisDB() int {
	return e.cfg.RedisDB
}

func (e *environment) GetNatsURL() string {
	return e.cfg.NatsURL
}

func (e *environment) GetRestPort() int {
	return e.cfg.RestPort
}

func (e *environment) GetTableCount() int {
	return e.cfg.TableCount
}

func (e *environment) GetAnte() uint32 {
	return e.cfg.Ante
}

func (e *environment) GetLogLevel() string {
	if e.cfg.LogLevel == "" {
		return "info"
	}
	return e.cfg.LogLevel
}

func (e *environment) GetZeroLogLogLevel() zerolog.Level {
	l := e.GetLogLevel()
	switch strings.ToLower(l) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		fallthrough
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		envLogger.Warn().Msgf("Unsupported LOG_LEVEL %s. Using info", l)
		return zerolog.InfoLevel
	}
}
