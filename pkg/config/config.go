package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del BFF (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Upstream UpstreamConfig
	Drafts   DraftsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
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

// UpstreamConfig API REST de inventario Grão a Grão.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout duración del timeout por solicitud.
func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DraftsConfig vida de los borradores en memoria.
type DraftsConfig struct {
	IdleMinutes   int    // tras este tiempo sin actividad el borrador se descarta
	SweepSchedule string // expresión cron (robfig/cron), ej. "@every 1m"
}

// MaxIdle duración máxima de inactividad.
func (c DraftsConfig) MaxIdle() time.Duration {
	return time.Duration(c.IdleMinutes) * time.Minute
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, UPSTREAM_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "graoagrao-estoque"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimSuffix(getString(v, "UPSTREAM_BASE_URL", ""), "/"),
			TimeoutSeconds: getInt(v, "UPSTREAM_TIMEOUT_SECONDS", 15),
		},
		Drafts: DraftsConfig{
			IdleMinutes:   getInt(v, "DRAFT_IDLE_MINUTES", 120),
			SweepSchedule: getString(v, "DRAFT_SWEEP_SCHEDULE", "@every 1m"),
		},
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("config: UPSTREAM_BASE_URL es obligatorio")
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("config: UPSTREAM_TIMEOUT_SECONDS debe ser mayor que cero")
	}
	if cfg.Drafts.IdleMinutes <= 0 {
		return nil, fmt.Errorf("config: DRAFT_IDLE_MINUTES debe ser mayor que cero")
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
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
