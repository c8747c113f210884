// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultJWTSecret — встроенный ключ подписи на случай, если jwt_secret_key
// не задан. Использование в боевом окружении является ошибкой конфигурации,
// приложение пишет предупреждение при старте.
const DefaultJWTSecret = "auth-gateway-insecure-default-secret"

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SessionCookie           `yaml:"session_cookie"`
	Admission               `yaml:"admission"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"ADDRESS_HTTP" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает, что шлюз работает без redis и счётчики
// admission-контроля хранятся в памяти процесса.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"ADDRESS_REDIS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// SessionCookie структура для настройки сессионной cookie.
// По умолчанию срок жизни cookie совпадает со сроком жизни токена.
type SessionCookie struct {
	CookieName string        `yaml:"cookie_name" env-default:"token"`
	CookieTTL  time.Duration `yaml:"cookie_ttl" env-default:"1h"`
}

// Admission структура с лимитами admission-контроля по ролям:
// количество запросов на скользящее окно длиной Interval.
type Admission struct {
	GuestLimit int           `yaml:"guest_limit" env-default:"5"`
	UserLimit  int           `yaml:"user_limit" env-default:"10"`
	AdminLimit int           `yaml:"admin_limit" env-default:"20"`
	Interval   time.Duration `yaml:"interval" env-default:"1m"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// UsesDefaultSecret сообщает, что ключ подписи не задан и будет
// использован встроенный небезопасный ключ.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecretKey == ""
}

// SigningKey возвращает ключ подписи токенов с учётом дефолтного значения.
func (c *Config) SigningKey() string {
	if c.JWTSecretKey == "" {
		return DefaultJWTSecret
	}
	return c.JWTSecretKey
}

// IsProd сообщает, что приложение работает в боевом окружении.
// В этом режиме сессионная cookie выставляется с атрибутом Secure.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"SessionCookie:\n"+
			"  Name: %s\n"+
			"  TTL: %s\n"+
			"Admission:\n"+
			"  Guest: %d\n"+
			"  User: %d\n"+
			"  Admin: %d\n"+
			"  Interval: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.CookieName,
		c.CookieTTL,
		c.GuestLimit,
		c.UserLimit,
		c.AdminLimit,
		c.Interval,
	)
}
