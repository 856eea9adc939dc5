package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the browser-facing listener settings.
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the /metrics and /healthz listener.
	Backend    BackendConfig    `yaml:"backend"`    // Backend points at the employee REST API.
	Session    SessionConfig    `yaml:"session"`    // Session configures the browser cookie.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the session database configuration.
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type MonitoringConfig struct {
	Port int `yaml:"port"`
}

// BackendConfig struct holds the connection details of the employee backend.
type BackendConfig struct {
	URL     string        `yaml:"url"`     // URL is the backend base url, e.g. `http://localhost:3001`.
	Timeout time.Duration `yaml:"timeout"` // Timeout bounds every backend request.
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	Secure     bool   `yaml:"secure"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// An empty Host selects the in-memory session repository.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// MustLoad reads defaults, the optional YAML file at CONFIG_PATH and the environment,
// in that order of precedence, and panics on invalid values.
func MustLoad() *Config {
	vpr := viper.New()
	setDefaults(vpr)
	bindEnv(vpr)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	timeout := vpr.GetDuration("backend.timeout")
	if timeout <= 0 {
		panic("failed to parse backend timeout from configuration")
	}

	backendURL := strings.TrimRight(vpr.GetString("backend.url"), "/")
	if !validBackendURL(backendURL) {
		panic("backend url must be an absolute http(s) url")
	}

	return &Config{
		Env: vpr.GetString("env"),
		HTTP: HTTPConfig{
			Addr:         vpr.GetString("http.addr"),
			ReadTimeout:  vpr.GetDuration("http.read_timeout"),
			WriteTimeout: vpr.GetDuration("http.write_timeout"),
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
		Backend: BackendConfig{
			URL:     backendURL,
			Timeout: timeout,
		},
		Session: SessionConfig{
			CookieName: vpr.GetString("session.cookie_name"),
			Secure:     vpr.GetBool("session.secure"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
	}
}

func setDefaults(vpr *viper.Viper) {
	defReadTimeout := 5
	defWriteTimeout := 10
	defBackendTimeout := 8
	defMonitoringPort := 8080

	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.addr", ":3000")
	vpr.SetDefault("http.read_timeout", time.Duration(defReadTimeout)*time.Second)
	vpr.SetDefault("http.write_timeout", time.Duration(defWriteTimeout)*time.Second)
	vpr.SetDefault("monitoring.port", defMonitoringPort)
	vpr.SetDefault("backend.url", "http://localhost:3001")
	vpr.SetDefault("backend.timeout", time.Duration(defBackendTimeout)*time.Second)
	vpr.SetDefault("session.cookie_name", "athena_session")
	vpr.SetDefault("session.secure", false)
	vpr.SetDefault("postgres.port", "5432")
}

func bindEnv(vpr *viper.Viper) {
	envKeys := map[string]string{
		"env":                 "ATHENA_ENV",
		"http.addr":           "HTTP_ADDR",
		"monitoring.port":     "MONITORING_PORT",
		"backend.url":         "BACKEND_URL",
		"backend.timeout":     "BACKEND_TIMEOUT",
		"session.cookie_name": "SESSION_COOKIE_NAME",
		"session.secure":      "SESSION_SECURE",
		"postgres.host":       "DB_HOST",
		"postgres.port":       "DB_PORT",
		"postgres.user":       "DB_USERNAME",
		"postgres.password":   "DB_PASSWORD",
		"postgres.db_name":    "DB_NAME",
	}

	for key, env := range envKeys {
		_ = vpr.BindEnv(key, env)
	}
}

func validBackendURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
