package config

import (
	"fmt"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	HTTPPort       int      `yaml:"http_port" validate:"min=1,max=65535"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`

	JwtTTL              time.Duration `yaml:"jwt_ttl" validate:"required"`
	JwtRefreshThreshold time.Duration `yaml:"jwt_refresh_threshold"` // remaining lifetime below which a fresh token is issued

	ResetCodeLen    int           `yaml:"reset_code_len" validate:"min=4,max=12"`
	ResetCodeTTL    time.Duration `yaml:"reset_code_ttl"`
	MaxFailedLogins int           `yaml:"max_failed_logins"` // 0 disables account locking

	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	DefaultLanguage string `yaml:"default_language"`

	TextCacheRefreshInterval   time.Duration `yaml:"text_cache_refresh_interval"`
	StatusCacheRefreshInterval time.Duration `yaml:"status_cache_refresh_interval"`

	// Log rows older than LogRetention are pruned every LogPruneInterval
	LogRetention     time.Duration `yaml:"log_retention"`
	LogPruneInterval time.Duration `yaml:"log_prune_interval"`

	// Addresses notified about new therapist registrations
	AdminEmails []string `yaml:"admin_emails"`

	Database Database `yaml:"database"`
}

type Database struct {
	Dialect         string        `yaml:"dialect" validate:"oneof=mysql postgres"`
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"required"`
	Name            string        `yaml:"name" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type Private struct {
	JwtKey   string              `yaml:"jwt_key" env:"MG_JWT_KEY" validate:"required"`
	Database DatabaseCredentials `yaml:"database"`
	Email    Email               `yaml:"email"`
}

type DatabaseCredentials struct {
	User     string `yaml:"user" env:"MG_DB_USER" validate:"required"`
	Password string `yaml:"password" env:"MG_DB_PASSWORD"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server" env:"MG_SMTP_SERVER"`
	SMTPPort   int    `yaml:"smtp_port" env:"MG_SMTP_PORT"`
	Username   string `yaml:"username" env:"MG_SMTP_USERNAME"`
	Password   string `yaml:"password" env:"MG_SMTP_PASSWORD"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
	Disabled   bool   `yaml:"disabled" env:"MG_SMTP_DISABLED"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

// DSN builds the driver specific connection string for the configured dialect.
func (s *Config) DSN() string {
	db := s.Public.Database
	creds := s.Private.Database
	if db.Dialect == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			db.Host, db.Port, creds.User, creds.Password, db.Name)
	}
	mc := mysql.NewConfig()
	mc.User = creds.User
	mc.Passwd = creds.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
	mc.DBName = db.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	// RowsAffected counts matched rows, so unchanged updates are not "not found"
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func setDefaults(cfg *Config) {
	p := &cfg.Public
	if p.HTTPPort == 0 {
		p.HTTPPort = 8080
	}
	if p.MaxBodyBytes == 0 {
		p.MaxBodyBytes = 1 << 20
	}
	if p.JwtRefreshThreshold == 0 {
		p.JwtRefreshThreshold = p.JwtTTL / 4
	}
	if p.ResetCodeLen == 0 {
		p.ResetCodeLen = 6
	}
	if p.ResetCodeTTL == 0 {
		p.ResetCodeTTL = 30 * time.Minute
	}
	if p.DefaultPageSize == 0 {
		p.DefaultPageSize = 50
	}
	if p.MaxPageSize == 0 {
		p.MaxPageSize = 500
	}
	if p.DefaultLanguage == "" {
		p.DefaultLanguage = "de"
	}
	if p.TextCacheRefreshInterval == 0 {
		p.TextCacheRefreshInterval = 5 * time.Minute
	}
	if p.StatusCacheRefreshInterval == 0 {
		p.StatusCacheRefreshInterval = time.Minute
	}
	if p.LogRetention == 0 {
		p.LogRetention = 90 * 24 * time.Hour
	}
	if p.LogPruneInterval == 0 {
		p.LogPruneInterval = 6 * time.Hour
	}
	if p.Database.Dialect == "" {
		p.Database.Dialect = "mysql"
	}
	if p.Database.MaxOpenConns == 0 {
		p.Database.MaxOpenConns = 25
	}
	if p.Database.MaxIdleConns == 0 {
		p.Database.MaxIdleConns = 10
	}
	if p.Database.ConnMaxLifetime == 0 {
		p.Database.ConnMaxLifetime = 5 * time.Minute
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, overlays
// secrets from the environment and validates the result.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	// private.yaml is optional when every secret comes from the environment
	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		mustLoadPath(privatePath, &private)
	}
	if err := envdecode.Decode(&private); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		panic("can't decode environment: " + err.Error())
	}

	cfg := &Config{Public: public, Private: private}
	setDefaults(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
