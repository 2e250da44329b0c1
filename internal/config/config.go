package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gvondra/StsfctryRecipes/internal/store"
)

const (
	defaultEnv      = "local"
	defaultDBPath   = "./stsfctry.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
	defaultS3Region = "us-east-1"
)

// Config holds application configuration sourced from flags, environment
// variables and an optional .env file, in that order of precedence.
type Config struct {
	Env         string
	StoreDriver string
	RecipesFile string
	DBPath      string
	S3          S3Config
	Port        string
	AdminToken  string
	LogLevel    string
}

// S3Config locates the recipe document when StoreDriver is "s3".
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"file":      "recipes_file",
	"driver":    "store_driver",
	"db":        "db_path",
	"log-level": "log_level",
	"port":      "port",
}

// Load reads the environment and returns a populated Config. Flags that were
// set on the command line win over the environment; flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	return LoadFile(".env", flags)
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(dotenvPath string, flags *pflag.FlagSet) (Config, error) {
	// Best-effort: a missing .env is normal outside local development.
	// godotenv never overwrites variables that are already set.
	_ = godotenv.Load(dotenvPath)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("store_driver", store.DriverJSON)
	v.SetDefault("recipes_file", store.DefaultFileName)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("admin_token", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.key", store.DefaultFileName)
	v.SetDefault("s3.region", defaultS3Region)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	cfg := Config{
		Env:         strings.TrimSpace(v.GetString("app_env")),
		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
		RecipesFile: v.GetString("recipes_file"),
		DBPath:      v.GetString("db_path"),
		Port:        strings.TrimPrefix(v.GetString("port"), ":"),
		AdminToken:  v.GetString("admin_token"),
		LogLevel:    v.GetString("log_level"),
		S3: S3Config{
			Bucket:          v.GetString("s3.bucket"),
			Key:             v.GetString("s3.key"),
			Region:          v.GetString("s3.region"),
			Endpoint:        v.GetString("s3.endpoint"),
			AccessKeyID:     v.GetString("aws_access_key_id"),
			SecretAccessKey: v.GetString("aws_secret_access_key"),
			PathStyle:       v.GetBool("s3.path_style"),
		},
	}
	return cfg, nil
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// StoreOptions translates the configuration into store driver options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:   c.StoreDriver,
		FilePath: c.RecipesFile,
		DBPath:   c.DBPath,
		S3: store.S3Config{
			Bucket:          c.S3.Bucket,
			Key:             c.S3.Key,
			Region:          c.S3.Region,
			Endpoint:        c.S3.Endpoint,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			PathStyle:       c.S3.PathStyle,
		},
	}
}
