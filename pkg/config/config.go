package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio (lectura vía Viper desde env y
// opcionalmente archivo .env).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Billing BillingConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido,
// si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres
// especiales en la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig configuración del cache de catálogo.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// CatalogTTL tiempo de vida del catálogo cacheado. El catálogo cambia
	// solo por eventos administrativos, así que un TTL corto es seguro.
	CatalogTTL time.Duration
}

// BillingConfig políticas del ciclo de vida de suscripciones y la pasarela.
type BillingConfig struct {
	// DefaultTrialDays días de trial si el request no especifica.
	DefaultTrialDays int
	// DefaultGraceDays período de gracia tras una renovación fallida.
	DefaultGraceDays int
	// SweepInterval intervalo del barrido de renovaciones del worker.
	SweepInterval time.Duration
	// SweepBatchSize máximo de suscripciones vencidas por ciclo de barrido.
	SweepBatchSize int
	// GatewayBaseURL endpoint de la pasarela de pagos.
	GatewayBaseURL string
	// GatewayTimeout límite de la llamada a la pasarela; al vencerse el
	// resultado se trata como desconocido, nunca como pago fallido.
	GatewayTimeout time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "phase7-billing"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "phase7_billing"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "phase7-billing"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:       getString(v, "REDIS_ADDR", "localhost:6379"),
			Password:   getString(v, "REDIS_PASSWORD", ""),
			DB:         getInt(v, "REDIS_DB", 0),
			CatalogTTL: getDuration(v, "CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Billing: BillingConfig{
			DefaultTrialDays: getInt(v, "BILLING_TRIAL_DAYS", 14),
			DefaultGraceDays: getInt(v, "BILLING_GRACE_DAYS", 7),
			SweepInterval:    getDuration(v, "BILLING_SWEEP_INTERVAL", time.Hour),
			SweepBatchSize:   getInt(v, "BILLING_SWEEP_BATCH", 100),
			GatewayBaseURL:   getString(v, "PAYMENT_GATEWAY_URL", ""),
			GatewayTimeout:   getDuration(v, "PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}
