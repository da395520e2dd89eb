package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	handlerConfig "github.com/iurnickita/debtreport/internal/handler/config"
	loggerConfig "github.com/iurnickita/debtreport/internal/logger/config"
	storeConfig "github.com/iurnickita/debtreport/internal/store/config"
)

const (
	DefaultPort     = "3005"
	DefaultDataFile = "db.json"
	DefaultLogLevel = "info"
)

// Ключи совпадают с именами переменных окружения в нижнем регистре.
const (
	keyPort        = "port"
	keyRunAddress  = "run_address"
	keyDataFile    = "data_file"
	keyDataURL     = "data_url"
	keyDatabaseURI = "database_uri"
	keyLogLevel    = "log_level"
)

type Config struct {
	Handler handlerConfig.Config
	Store   storeConfig.Config
	Logger  loggerConfig.Config
}

// RegisterFlags объявляет флаги командной строки.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", DefaultPort, "port to listen on")
	flags.StringP("address", "a", "", "address and port to run server, overrides port")
	flags.StringP("file", "f", DefaultDataFile, "dataset file")
	flags.StringP("url", "u", "", "dataset URL")
	flags.StringP("dsn", "d", "", "database DSN")
	flags.StringP("log-level", "l", DefaultLogLevel, "log level")
}

// GetConfig читает .env, затем собирает конфигурацию.
// Приоритет: флаг, переменная окружения, значение по умолчанию.
func GetConfig(flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return parse(flags)
}

// loadDotEnv: отсутствие файла - не ошибка, битый файл - ошибка.
func loadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func parse(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(keyPort, DefaultPort)
	v.SetDefault(keyDataFile, DefaultDataFile)
	v.SetDefault(keyLogLevel, DefaultLogLevel)

	bindings := map[string]string{
		keyPort:        "port",
		keyRunAddress:  "address",
		keyDataFile:    "file",
		keyDataURL:     "url",
		keyDatabaseURI: "dsn",
		keyLogLevel:    "log-level",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	cfg.Handler.ServerAddr = v.GetString(keyRunAddress)
	if cfg.Handler.ServerAddr == "" {
		cfg.Handler.ServerAddr = ":" + v.GetString(keyPort)
	}
	cfg.Store.DataFile = v.GetString(keyDataFile)
	cfg.Store.DataURL = v.GetString(keyDataURL)
	cfg.Store.DBDsn = v.GetString(keyDatabaseURI)
	cfg.Logger.LogLevel = v.GetString(keyLogLevel)

	return cfg, nil
}
