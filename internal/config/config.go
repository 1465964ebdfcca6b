package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PayrollConfig holds the company-wide payroll rules.
type PayrollConfig struct {
	StandardTimeIn        attendance.ClockTime
	StandardTimeOut       attendance.ClockTime
	GraceMinutes          int
	FallbackMonthlySalary decimal.Decimal
	UnpaidLeaveType       string
	BatchConcurrency      int
	// Location is the company time zone the standard times are read in.
	Location *time.Location
}

// Load reads .env when present, then builds the configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Payroll configuration
	standardIn, err := attendance.ParseClockTime(getEnv("PAYROLL_STANDARD_TIME_IN", "08:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_STANDARD_TIME_IN: %w", err)
	}
	standardOut, err := attendance.ParseClockTime(getEnv("PAYROLL_STANDARD_TIME_OUT", "17:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_STANDARD_TIME_OUT: %w", err)
	}
	graceMinutes, err := getEnvInt("PAYROLL_GRACE_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	fallbackSalary, err := decimal.NewFromString(getEnv("PAYROLL_FALLBACK_MONTHLY_SALARY", "25000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_FALLBACK_MONTHLY_SALARY: %w", err)
	}
	batchConcurrency, err := getEnvInt("PAYROLL_BATCH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(getEnv("PAYROLL_TIMEZONE", "Asia/Manila"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TIMEZONE: %w", err)
	}

	config.Payroll = PayrollConfig{
		StandardTimeIn:        standardIn,
		StandardTimeOut:       standardOut,
		GraceMinutes:          graceMinutes,
		FallbackMonthlySalary: fallbackSalary,
		UnpaidLeaveType:       getEnv("PAYROLL_UNPAID_LEAVE_TYPE", "unpaid"),
		BatchConcurrency:      batchConcurrency,
		Location:              loc,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if !c.Payroll.StandardTimeIn.Before(c.Payroll.StandardTimeOut) {
		return fmt.Errorf("PAYROLL_STANDARD_TIME_IN must be before PAYROLL_STANDARD_TIME_OUT")
	}
	if c.Payroll.GraceMinutes < 0 {
		return fmt.Errorf("PAYROLL_GRACE_MINUTES must not be negative")
	}
	if !c.Payroll.FallbackMonthlySalary.IsPositive() {
		return fmt.Errorf("PAYROLL_FALLBACK_MONTHLY_SALARY must be positive")
	}
	if strings.TrimSpace(c.Payroll.UnpaidLeaveType) == "" {
		return fmt.Errorf("PAYROLL_UNPAID_LEAVE_TYPE is required")
	}
	if c.Payroll.BatchConcurrency < 1 {
		return fmt.Errorf("PAYROLL_BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
