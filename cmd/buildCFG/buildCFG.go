package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"eventsphere/internal/auth"
	"eventsphere/internal/mailer"
	"eventsphere/internal/storage"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, using default 8080")
	}
	return &ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	host := cfg.GetString("database.host")
	port := cfg.GetString("database.port")
	user := cfg.GetString("database.user")
	password := cfg.GetString("database.password")
	name := cfg.GetString("database.name")
	sslMode := cfg.GetString("database.sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	if host == "" || port == "" || user == "" || name == "" {
		return "", nil, nil, fmt.Errorf("incomplete database configuration")
	}

	masterDSN := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, name, sslMode,
	)

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("database.conn_max_lifetime_sec")) * time.Second,
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Str("host", host).Str("db", name).Msg("database configuration built")
	return masterDSN, nil, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	rc := &RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return nil, fmt.Errorf("rabbit.url is not set")
	}
	if rc.Exchange == "" {
		rc.Exchange = "registrations"
	}
	if rc.Queue == "" {
		rc.Queue = "registration-notices"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit configuration built")
	return rc, nil
}

func BuildRedisConfig(cfg *config.Config, log *zerolog.Logger) *RedisConfig {
	rc := &RedisConfig{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	}
	if rc.Addr == "" {
		rc.Addr = "localhost:6379"
		log.Warn().Msg("redis.addr not set, using default localhost:6379")
	}
	return rc
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (auth.Config, error) {
	ac := auth.Config{
		JWTSecret:     cfg.GetString("auth.jwt_secret"),
		Issuer:        cfg.GetString("auth.issuer"),
		SecureCookies: cfg.GetBool("auth.secure_cookies"),
	}
	if ac.JWTSecret == "" {
		return ac, fmt.Errorf("auth.jwt_secret is not set")
	}
	if ttl := cfg.GetInt("auth.access_ttl_min"); ttl > 0 {
		ac.AccessTTL = time.Duration(ttl) * time.Minute
	}
	if ttl := cfg.GetInt("auth.refresh_ttl_hours"); ttl > 0 {
		ac.RefreshTTL = time.Duration(ttl) * time.Hour
	}
	log.Info().Str("issuer", ac.Issuer).Msg("auth configuration built")
	return ac, nil
}

// BuildS3Config returns nil when no bucket is configured; image upload is
// then disabled instead of failing startup.
func BuildS3Config(cfg *config.Config, log *zerolog.Logger) *storage.Config {
	bucket := cfg.GetString("s3.bucket")
	if bucket == "" {
		log.Warn().Msg("s3.bucket not set, image storage disabled")
		return nil
	}
	return &storage.Config{
		Region:       cfg.GetString("s3.region"),
		Bucket:       bucket,
		Endpoint:     cfg.GetString("s3.endpoint"),
		AccessKey:    cfg.GetString("s3.access_key"),
		SecretKey:    cfg.GetString("s3.secret_key"),
		UsePathStyle: cfg.GetBool("s3.use_path_style"),
	}
}

// BuildSMTPConfig may return a disabled mailer config; the worker checks
// Enabled() before sending.
func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetString("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if mc.Host == "" {
		log.Warn().Msg("smtp.host not set, registration emails disabled")
	}
	return mc
}
