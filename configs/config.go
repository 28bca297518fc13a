package configs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"picturedrive/pkg/validator"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

// DefaultSessionTimeout applies when session.timeout is 0
const DefaultSessionTimeout = 30 * time.Minute

// DefaultRequestTimeout applies when telegram.request_timeout is 0
const DefaultRequestTimeout = 30 * time.Second

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Storage  `mapstructure:"storage"`
	Postgres `mapstructure:"postgres"`
	MongoDB  `mapstructure:"mongodb"`
	Telegram `mapstructure:"telegram"`
	Line     `mapstructure:"line"`
	Session  `mapstructure:"session"`
	Auth     `mapstructure:"auth"`
}

// App struct
type App struct {
	Debug    bool   `mapstructure:"debug"`
	Env      string `mapstructure:"env"`
	Port     string `mapstructure:"port" validate:"required,numeric"`
	Timezone string `mapstructure:"timezone"`
}

// Storage struct
type Storage struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongodb memory"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// MongoDB struct
type MongoDB struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// Telegram struct
type Telegram struct {
	Token            string `mapstructure:"token" validate:"required"`
	StorageChannelID int64  `mapstructure:"storage_channel_id"`
	PollTimeout      int    `mapstructure:"poll_timeout" validate:"gte=0,lte=600"`
	RequestTimeout   int    `mapstructure:"request_timeout" validate:"gte=0,lte=600"`
	QueueSize        int    `mapstructure:"queue_size" validate:"gte=0"`
}

// Line struct
type Line struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelSecret string `mapstructure:"channel_secret" validate:"required_if=Enabled true"`
	ChannelToken  string `mapstructure:"channel_token" validate:"required_if=Enabled true"`
}

// Session struct - Timeout is in minutes
type Session struct {
	Timeout int `mapstructure:"timeout" validate:"gte=0"`
}

// Auth struct
type Auth struct {
	BcryptCost           int  `mapstructure:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
	EvictPreviousSession bool `mapstructure:"evict_previous_session"`
}

type postgresRequirements struct {
	Host   string `validate:"required"`
	Port   string `validate:"required,numeric"`
	DbName string `validate:"required"`
}

type mongoRequirements struct {
	URI      string `validate:"required"`
	Database string `validate:"required"`
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

// Validate checks the loaded config, including the section of the selected storage driver
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config %v: %w", validator.InvalidFields(err), err)
	}

	var section interface{}
	switch c.Storage.Driver {
	case DriverPostgres:
		section = postgresRequirements{Host: c.Postgres.Host, Port: c.Postgres.Port, DbName: c.Postgres.DbName}
	case DriverMongoDB:
		section = mongoRequirements{URI: c.MongoDB.URI, Database: c.MongoDB.Database}
	default:
		return nil
	}
	if err := v.ValidateStruct(section); err != nil {
		return fmt.Errorf("invalid %s config %v: %w", c.Storage.Driver, validator.InvalidFields(err), err)
	}
	return nil
}

// SessionTimeout returns how long a pending flow survives without input
func (c *Config) SessionTimeout() time.Duration {
	if c.Session.Timeout <= 0 {
		return DefaultSessionTimeout
	}
	return time.Duration(c.Session.Timeout) * time.Minute
}

// RequestTimeout bounds one Telegram API call or file download
func (c *Config) RequestTimeout() time.Duration {
	if c.Telegram.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.Telegram.RequestTimeout) * time.Second
}

// PollingClientTimeout bounds a long polling getUpdates call, which is held
// open by Telegram for up to poll_timeout seconds.
func (c *Config) PollingClientTimeout() time.Duration {
	return time.Duration(c.Telegram.PollTimeout)*time.Second + c.RequestTimeout()
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	if env != "" {
		viper.Set("app.env", env)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}
