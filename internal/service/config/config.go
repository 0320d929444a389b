package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DB struct {
	Host string `env:"HOST"`
	Port string `env:"PORT" envDefault:"5432"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	Name string `env:"NAME"`
}

type Redis struct {
	Endpoint string `env:"REDIS_ENDPOINT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Config struct {
	BackendURL    string `env:"BACKEND_URL" envDefault:":8080"`
	FrontendURL   string `env:"FRONTEND_URL"`
	DB            DB     `envPrefix:"DB_"`
	Redis         Redis
	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	LogDir        string        `env:"LOG_DIR" envDefault:"."`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// DSN собирает DSN строку для postgres, пустая строка если хост не задан
func (d DB) DSN() string {
	if d.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", d.Host, d.Port, d.User, d.Pass, d.Name)
}

type testDB struct {
	Host string `env:"DB_HOST_TEST"`
	Port string `env:"DB_PORT_TEST" envDefault:"5432"`
	User string `env:"DB_USER_TEST"`
	Pass string `env:"DB_PASS_TEST"`
	Name string `env:"DB_NAME_TEST"`
}

// TestDB reads the *_TEST database variables used by the e2e suites.
func TestDB(files ...string) (DB, error) {
	_ = godotenv.Load(files...)
	t, err := env.ParseAs[testDB]()
	if err != nil {
		return DB{}, fmt.Errorf("parsing environment: %w", err)
	}
	return DB(t), nil
}

// LoadDB reads only the DB_* variables, for tools that never serve sessions.
func LoadDB(files ...string) (DB, error) {
	_ = godotenv.Load(files...)
	d, err := env.ParseAsWithOptions[DB](env.Options{Prefix: "DB_"})
	if err != nil {
		return DB{}, fmt.Errorf("parsing environment: %w", err)
	}
	return d, nil
}
