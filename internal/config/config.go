package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/ticket-sla/internal/analytics"
	"github.com/spec-kit/ticket-sla/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Jira     JiraConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	SLA      SLAConfig
	Report   ReportConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// JiraConfig holds issue tracker connection values.
type JiraConfig struct {
	BaseURL            string
	UserEmail          string
	APIToken           string
	JQL                string
	MaxResults         int
	TimeoutSeconds     int
	SourceField        string
	InvestigationField string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines API authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// SLAConfig carries the SLA policy and status vocabulary.
type SLAConfig struct {
	Budgets    analytics.BudgetTable
	Vocabulary analytics.Vocabulary
}

// ReportConfig controls batch report runs.
type ReportConfig struct {
	OutputPath    string
	Workers       int
	FailFast      bool
	StoreResults  bool
	ProgressEvery int
}

const (
	defaultRecognizedStatuses = "OPEN,WORK IN PROGRESS,IN REVIEW,COMPLETED,CANCELLED,CANCELED,CLOSED"
	defaultTerminalStatuses   = "COMPLETED,CANCELLED,CANCELED,CLOSED"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sla, err := loadSLA()
	if err != nil {
		return nil, err
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-sla-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Jira: JiraConfig{
			BaseURL:            strings.TrimRight(getEnv("JIRA_BASE_URL", "https://sierrawireless.atlassian.net"), "/"),
			UserEmail:          os.Getenv("JIRA_USER_EMAIL"),
			APIToken:           os.Getenv("JIRA_API_TOKEN"),
			JQL:                getEnv("JIRA_JQL", `project = GNOC AND issuetype = Incident AND created >= "2026-01-17"`),
			MaxResults:         getEnvAsInt("JIRA_MAX_RESULTS", 1000),
			TimeoutSeconds:     getEnvAsInt("JIRA_TIMEOUT_SECONDS", 60),
			SourceField:        getEnv("JIRA_SOURCE_FIELD", "customfield_10040"),
			InvestigationField: getEnv("JIRA_INVESTIGATION_FIELD", "customfield_10563"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "sla"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		SLA: sla,
		Report: ReportConfig{
			OutputPath:    getEnv("REPORT_OUTPUT_PATH", "data/GNOC_Incident_Time.csv"),
			Workers:       getEnvAsInt("REPORT_WORKERS", 4),
			FailFast:      getEnvAsBool("REPORT_FAIL_FAST", false),
			StoreResults:  getEnvAsBool("REPORT_STORE_RESULTS", true),
			ProgressEvery: getEnvAsInt("REPORT_PROGRESS_EVERY", 100),
		},
	}

	return cfg, nil
}

func loadSLA() (SLAConfig, error) {
	budgets := analytics.DefaultBudgetTable()
	if raw := os.Getenv("SLA_BUDGETS"); raw != "" {
		parsed, err := analytics.ParseBudgetTable(raw)
		if err != nil {
			return SLAConfig{}, fmt.Errorf("invalid SLA_BUDGETS: %w", err)
		}
		budgets = parsed
	}

	vocab, err := analytics.NewVocabulary(
		splitStatuses(getEnv("SLA_STATUSES", defaultRecognizedStatuses)),
		splitStatuses(getEnv("SLA_TERMINAL_STATUSES", defaultTerminalStatuses)),
	)
	if err != nil {
		return SLAConfig{}, fmt.Errorf("invalid SLA status vocabulary: %w", err)
	}

	return SLAConfig{Budgets: budgets, Vocabulary: vocab}, nil
}

func splitStatuses(raw string) []domain.StatusName {
	var out []domain.StatusName
	for _, part := range strings.Split(raw, ",") {
		if s := domain.NormalizeStatus(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the HTTP client timeout for tracker calls.
func (j JiraConfig) Timeout() time.Duration {
	if j.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(j.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
