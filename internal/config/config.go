package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type DB struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN в формате, который понимает gorm.io/driver/postgres
func (d DB) DSN() string {
	return "host=" + d.Host + " user=" + d.User + " password=" + d.Password +
		" dbname=" + d.Name + " port=" + d.Port + " sslmode=" + d.SSLMode
}

type Config struct {
	HTTPAddr    string
	DB          DB
	AuthSecret  string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "cellar")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("auth.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.origins", []string{"http://localhost:3000"})
}

// New собирает viper: значения по умолчанию, файл конфигурации (если задан) и переменные окружения.
// db.host читается из DB_HOST, auth.secret из AUTH_SECRET и т.д.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("cellar")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cellar")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load читает Config из подготовленного viper
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPAddr: v.GetString("http.addr"),
		DB: DB{
			Host:     v.GetString("db.host"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			Port:     v.GetString("db.port"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		AuthSecret:  v.GetString("auth.secret"),
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
		CORSOrigins: v.GetStringSlice("cors.origins"),
	}
	if cfg.DB.Name == "" {
		return nil, errors.New("db.name must not be empty")
	}
	return cfg, nil
}
