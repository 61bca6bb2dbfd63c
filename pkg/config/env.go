package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	perrors "github.com/matzehuels/puncta/pkg/errors"
)

// EnvPrefix starts every environment variable read by ApplyEnv.
const EnvPrefix = "PUNCTA_"

// Environment variables that override the config file. Secrets are usually
// supplied this way rather than written to puncta.toml.
const (
	EnvCacheBackend  = EnvPrefix + "CACHE_BACKEND"
	EnvRedisAddr     = EnvPrefix + "REDIS_ADDR"
	EnvRedisPassword = EnvPrefix + "REDIS_PASSWORD"
	EnvRedisDB       = EnvPrefix + "REDIS_DB"
	EnvStoreBackend  = EnvPrefix + "STORE_BACKEND"
	EnvMongoURI      = EnvPrefix + "MONGO_URI"
	EnvServerAddr    = EnvPrefix + "SERVER_ADDR"
	EnvLogFile       = EnvPrefix + "LOG_FILE"
)

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. An empty
// path loads ".env" from the working directory if it exists.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "env file %s", path)
		}
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse env file %s", path)
	}
	return nil
}

// ApplyEnv overrides c with the PUNCTA_* variables that are set.
func (c *Config) ApplyEnv() error {
	setString(&c.Cache.Backend, EnvCacheBackend)
	setString(&c.Cache.RedisAddr, EnvRedisAddr)
	setString(&c.Cache.RedisPassword, EnvRedisPassword)
	setString(&c.Store.Backend, EnvStoreBackend)
	setString(&c.Store.MongoURI, EnvMongoURI)
	setString(&c.Server.Addr, EnvServerAddr)
	setString(&c.Server.LogFile, EnvLogFile)

	if v, ok := os.LookupEnv(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return perrors.New(perrors.ErrCodeInvalidConfig, "%s=%q is not an integer", EnvRedisDB, v)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
