package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tube-catalog/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	YouTube     YouTube     `json:"youtube"`
	RefData     RefData     `json:"refData"`
	App         App         `json:"app"`
}

type App struct {
	// RefreshIntervalSeconds drives the background channel refresh loop.
	// Zero disables the loop.
	RefreshIntervalSeconds int `json:"refreshIntervalSeconds"`
	// CacheBackend selects the API cache store: "postgres", "mssql" or "redis".
	CacheBackend string `json:"cacheBackend"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type YouTube struct {
	APIKey       string   `json:"apiKey"`
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	ChannelID    string   `json:"channelId"`
	Scopes       []string `json:"scopes"`
}

// RefData locates the bundled reference-data resources.
type RefData struct {
	Dir string `json:"dir"`
	// Categories maps a select-option category name to its bundle file.
	Categories map[string]string `json:"categories"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	// Optional MSSQL config via environment (Azure SQL in production)
	if v := os.Getenv("MSSQL_DB_NAME"); v != "" && C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = v
	}
	if v := os.Getenv("MSSQL_HOST"); v != "" && C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = v
	}
	if v := os.Getenv("MSSQL_USER"); v != "" && C.Database.Mssql.User == "" {
		C.Database.Mssql.User = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = v
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}

	if v := os.Getenv("MYSQL_DSN_HOST"); v != "" && C.Database.MySql.Host == "" {
		C.Database.MySql.Host = v
	}
	if C.Database.MySql.Port == "" {
		C.Database.MySql.Port = "3306"
	}
}

func initApp(C *Config) {
	if v := os.Getenv("REFRESH_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.App.RefreshIntervalSeconds = n
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		C.App.CacheBackend = v
	}
	if C.App.CacheBackend == "" {
		C.App.CacheBackend = "postgres"
	}
	if C.RefData.Dir == "" {
		C.RefData.Dir = "refdata"
	}
	if len(C.RefData.Categories) == 0 {
		C.RefData.Categories = map[string]string{
			"channel-type": "channel_types.properties",
			"event-type":   "event_types.properties",
			"language":     "languages.properties",
			"sort-order":   "sort_orders.properties",
			"safe-search":  "safe_searches.properties",
		}
	}
}

// RefreshInterval converts the configured seconds to a duration.
func (a App) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshIntervalSeconds) * time.Second
}
