// Package config загружает конфигурацию узла и удаленной стороны из YAML.
//
// Порядок применения: значения по умолчанию, затем YAML файл,
// затем переменные окружения FIELDLINK_*, затем валидация.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается при ошибке валидации конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// LoggingConfig настройки логирования
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Output string `yaml:"output"` // stdout, stderr
}

// MetricsConfig настройки эндпоинта Prometheus
type MetricsConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// NodeConfig корневая конфигурация узла (процесс рядом с контроллером)
type NodeConfig struct {
	Device     DeviceConfig     `yaml:"device"`
	Remote     RemoteLinkConfig `yaml:"remote"`
	Controller ControllerConfig `yaml:"controller"`
	Storage    StorageConfig    `yaml:"storage"`
	Display    DisplayConfig    `yaml:"display"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
	Sync       SyncConfig       `yaml:"sync"`
}

// DeviceConfig идентичность устройства
type DeviceConfig struct {
	UID            string `yaml:"uid"`
	ControllerKind string `yaml:"controller_kind"`
}

// RemoteLinkConfig адрес удаленной стороны и таймаут запроса
type RemoteLinkConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// SyncConfig параметры цикла синхронизации
type SyncConfig struct {
	// QueueLimit жесткий потолок длины очереди семплов
	QueueLimit int `yaml:"queue_limit"`
	// Frequency частота итераций цикла, Гц
	Frequency float64 `yaml:"frequency"`
	// ErrorLimit число подряд неудачных обменов до остановки (0 - без ограничения)
	ErrorLimit int `yaml:"error_limit"`
	// StartupDelay пауза перед первой итерацией (контроллер выставляет значения)
	StartupDelay time.Duration `yaml:"startup_delay"`
}

// Interval возвращает паузу между итерациями (1/frequency)
func (s SyncConfig) Interval() time.Duration {
	return time.Duration(float64(time.Second) / s.Frequency)
}

// ControllerConfig источник кадров контроллера
type ControllerConfig struct {
	// Path путь к устройству или файлу с кадрами ("-" для stdin)
	Path string `yaml:"path"`
	// MaxFrameSize максимальный размер одного кадра в байтах
	MaxFrameSize int `yaml:"max_frame_size"`
}

// StorageConfig локальное хранилище узла (BoltDB)
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DisplayConfig мост к панели отображения через MQTT
type DisplayConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         int    `yaml:"qos"`
	Enabled     bool   `yaml:"enabled"`
}

// RemoteConfig корневая конфигурация удаленной стороны
type RemoteConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	Addr         string          `yaml:"addr"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
}

// RateLimitConfig ограничение частоты запросов с одного адреса
type RateLimitConfig struct {
	Window  time.Duration `yaml:"window"`
	Rate    int           `yaml:"rate"`
	Enabled bool          `yaml:"enabled"`
}

// DatabaseConfig настройки SQLite
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// InfluxDBConfig зеркалирование принятых семплов в InfluxDB
type InfluxDBConfig struct {
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"` // миллисекунды
	Enabled       bool   `yaml:"enabled"`
}

// LoadNode читает конфигурацию узла.
// Пустой path означает "только значения по умолчанию и окружение".
// overrides (флаги командной строки) применяются после окружения, до проверки.
func LoadNode(path string, overrides ...func(*NodeConfig)) (*NodeConfig, error) {
	cfg := DefaultNodeConfig()

	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}

	applyNodeEnv(cfg)
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadRemote читает конфигурацию удаленной стороны
func LoadRemote(path string, overrides ...func(*RemoteConfig)) (*RemoteConfig, error) {
	cfg := DefaultRemoteConfig()

	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}

	applyRemoteEnv(cfg)
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func readYAML(path string, out any) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// DefaultNodeConfig значения по умолчанию для узла
func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		Device: DeviceConfig{
			ControllerKind: "v1",
		},
		Remote: RemoteLinkConfig{
			Addr:    "http://localhost:5000/",
			Timeout: 10 * time.Second,
		},
		Sync: SyncConfig{
			QueueLimit:   16,
			Frequency:    1,
			ErrorLimit:   0,
			StartupDelay: 5 * time.Second,
		},
		Controller: ControllerConfig{
			Path:         "-",
			MaxFrameSize: 4096,
		},
		Storage: StorageConfig{
			Path: "fieldlink-node.db",
		},
		Display: DisplayConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "fieldlink-node",
			TopicPrefix: "fieldlink",
			QoS:         1,
		},
		Metrics: MetricsConfig{
			Addr: ":9101",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// DefaultRemoteConfig значения по умолчанию для удаленной стороны
func DefaultRemoteConfig() *RemoteConfig {
	return &RemoteConfig{
		Server: ServerConfig{
			Addr:         ":5000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				Rate:    600,
				Window:  time.Minute,
			},
		},
		Database: DatabaseConfig{
			Path: "fieldlink-remote.db",
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func applyNodeEnv(cfg *NodeConfig) {
	if v := os.Getenv("FIELDLINK_UID"); v != "" {
		cfg.Device.UID = v
	}
	if v := os.Getenv("FIELDLINK_CONTROLLER_KIND"); v != "" {
		cfg.Device.ControllerKind = v
	}
	if v := os.Getenv("FIELDLINK_REMOTE_ADDR"); v != "" {
		cfg.Remote.Addr = v
	}
	if v := os.Getenv("FIELDLINK_QUEUE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.QueueLimit = n
		}
	}
	if v := os.Getenv("FIELDLINK_CONTROLLER_PATH"); v != "" {
		cfg.Controller.Path = v
	}
	if v := os.Getenv("FIELDLINK_DISPLAY_PASSWORD"); v != "" {
		cfg.Display.Password = v
	}
	if v := os.Getenv("FIELDLINK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyRemoteEnv(cfg *RemoteConfig) {
	if v := os.Getenv("FIELDLINK_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FIELDLINK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FIELDLINK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("FIELDLINK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate проверяет конфигурацию узла
func (c *NodeConfig) Validate() error {
	if c.Device.UID == "" {
		return fmt.Errorf("%w: device.uid is required", ErrInvalidConfig)
	}
	if c.Device.ControllerKind == "" {
		return fmt.Errorf("%w: device.controller_kind is required", ErrInvalidConfig)
	}
	if c.Remote.Addr == "" {
		return fmt.Errorf("%w: remote.addr is required", ErrInvalidConfig)
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("%w: remote.timeout must be positive", ErrInvalidConfig)
	}
	if c.Sync.QueueLimit < 1 {
		return fmt.Errorf("%w: sync.queue_limit must be at least 1", ErrInvalidConfig)
	}
	if c.Sync.Frequency <= 0 {
		return fmt.Errorf("%w: sync.frequency must be positive", ErrInvalidConfig)
	}
	if c.Sync.ErrorLimit < 0 {
		return fmt.Errorf("%w: sync.error_limit must not be negative", ErrInvalidConfig)
	}
	if c.Sync.StartupDelay < 0 {
		return fmt.Errorf("%w: sync.startup_delay must not be negative", ErrInvalidConfig)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required", ErrInvalidConfig)
	}
	if c.Display.Enabled && c.Display.Broker == "" {
		return fmt.Errorf("%w: display.broker is required when display is enabled", ErrInvalidConfig)
	}
	if c.Display.QoS < 0 || c.Display.QoS > 2 {
		return fmt.Errorf("%w: display.qos must be 0, 1 or 2", ErrInvalidConfig)
	}
	return nil
}

// Validate проверяет конфигурацию удаленной стороны
func (c *RemoteConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Rate <= 0 || c.Server.RateLimit.Window <= 0) {
		return fmt.Errorf("%w: server.rate_limit needs positive rate and window", ErrInvalidConfig)
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" || c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			return fmt.Errorf("%w: influxdb.url, org and bucket are required when enabled", ErrInvalidConfig)
		}
	}
	return nil
}
