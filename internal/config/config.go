// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "https://www.douyin.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/104.0.0.0 Safari/537.36"
	DefaultShortHost = "v.douyin.com"
)

type Config struct {
	BaseURL        string   `validate:"required,url"`
	UserAgent      string   `validate:"required"`
	Cookie         string
	ShortLinkHosts []string `validate:"min=1,dive,required"`
	ProxyURLs      []string `validate:"dive,url"`
	TLSFingerprint string   `validate:"oneof=chrome firefox safari edge none"`
	SignerURL      string   `validate:"omitempty,url"`

	RequestTimeout time.Duration `validate:"gt=0"`
	PageDelayMin   time.Duration `validate:"gte=0"`
	PageDelayMax   time.Duration `validate:"gtefield=PageDelayMin"`
	RateLimitRPS   float64       `validate:"gte=0"`
	RateLimitBurst int           `validate:"gte=1"`

	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	LogLevel  string
	LogFormat string `validate:"oneof=console json"`
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	proxyURLs, err := parseProxyURLs(os.Getenv("DOUYIN_PROXY_URLS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:        strings.TrimRight(getEnv("DOUYIN_BASE_URL", DefaultBaseURL), "/"),
		UserAgent:      getEnv("DOUYIN_USER_AGENT", DefaultUserAgent),
		Cookie:         strings.TrimSpace(os.Getenv("DOUYIN_COOKIE")),
		ShortLinkHosts: getEnvList("DOUYIN_SHORT_LINK_HOSTS", []string{DefaultShortHost}),
		ProxyURLs:      proxyURLs,
		TLSFingerprint: strings.ToLower(getEnv("TLS_FINGERPRINT", "chrome")),
		SignerURL:      os.Getenv("SIGNER_URL"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		PageDelayMin:   getEnvDuration("PAGE_DELAY_MIN", 1500*time.Millisecond),
		PageDelayMax:   getEnvDuration("PAGE_DELAY_MAX", 3*time.Second),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 1),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Minute),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseProxyURLs(raw string) ([]string, error) {
	var proxyURLs []string
	for _, proxy := range strings.Split(strings.TrimSpace(raw), ",") {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %s: %w", proxy, err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("invalid proxy URL format, must start with http://, https:// or socks5://: %s", proxy)
		}

		proxyURLs = append(proxyURLs, proxy)
	}
	return proxyURLs, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
