package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr       string
	APIBaseURL     string
	SessionFile    string
	RedisAddr      string
	RedisPassword  string
	RedisKey       string
	OTPTTL         time.Duration
	RequestTimeout time.Duration
	DevMode        bool
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8090"),
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:5000/api"),
		SessionFile:    getenv("SESSION_FILE", defaultSessionFile()),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		RedisKey:       getenv("REDIS_SESSION_KEY", "schooldesk:session"),
		OTPTTL:         getenvDuration("OTP_TTL", 300*time.Second),
		RequestTimeout: getenvDuration("REQUEST_TIMEOUT", 15*time.Second),
		DevMode:        getenv("DEV_MODE", "") == "true",
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "schooldesk-session.json"
	}
	return filepath.Join(dir, "schooldesk", "session.json")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
