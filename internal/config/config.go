package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	RemoteDB RemoteDBConfig
	Cache    CacheConfig
	MQTT     MQTTConfig
	Tracking TrackingConfig
	JWT      JWTConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

// RemoteDBConfig describes the Postgres store of record.
type RemoteDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CacheConfig describes the embedded SQLite mirror.
type CacheConfig struct {
	Path string
}

type MQTTConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	LocationTopic  string
	QoS            byte
	KeepAlive      int
	ConnectTimeout int
}

type TrackingConfig struct {
	MinDistanceMeters float64
	FixBufferSize     int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

const (
	defaultMinDistanceMeters = 20.0
	defaultFixBufferSize     = 256
	defaultCachePath         = "routesync.db"
)

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		RemoteDB: RemoteDBConfig{
			Host:     viper.GetString("REMOTE_DB_HOST"),
			Port:     viper.GetString("REMOTE_DB_PORT"),
			User:     viper.GetString("REMOTE_DB_USER"),
			Password: viper.GetString("REMOTE_DB_PASSWORD"),
			DBName:   viper.GetString("REMOTE_DB_NAME"),
			SSLMode:  viper.GetString("REMOTE_DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Path: viper.GetString("CACHE_PATH"),
		},
		MQTT: MQTTConfig{
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			LocationTopic:  viper.GetString("MQTT_LOCATION_TOPIC"),
			QoS:            byte(viper.GetUint("MQTT_QOS")),
			KeepAlive:      viper.GetInt("MQTT_KEEPALIVE"),
			ConnectTimeout: viper.GetInt("MQTT_CONNECT_TIMEOUT"),
		},
		Tracking: TrackingConfig{
			MinDistanceMeters: viper.GetFloat64("TRACKING_MIN_DISTANCE_METERS"),
			FixBufferSize:     viper.GetInt("TRACKING_FIX_BUFFER_SIZE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	if config.Tracking.MinDistanceMeters <= 0 {
		config.Tracking.MinDistanceMeters = defaultMinDistanceMeters
	}
	if config.Tracking.FixBufferSize <= 0 {
		config.Tracking.FixBufferSize = defaultFixBufferSize
	}
	if config.Cache.Path == "" {
		config.Cache.Path = defaultCachePath
	}

	return config, nil
}

func (c *RemoteDBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *MQTTConfig) KeepAliveDuration() time.Duration {
	if c.KeepAlive <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.KeepAlive) * time.Second
}
