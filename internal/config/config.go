// Package config читает настройки процесса из .env и переменных окружения.
// Настройки сервера и периферии хранятся в базе и сюда не входят.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

type Config struct {
	DBPath            string
	LogLevel          string
	ConfigReadTimeout time.Duration
	TerminalTimeout   time.Duration
	APITimeout        time.Duration
	PrinterTimeout    time.Duration
	MonitorInterval   time.Duration
	Locale            language.Tag
	SimAddr           string
}

// Load загружает .env (если есть) и окружение. Некорректные значения
// заменяются значениями по умолчанию.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)

	return Config{
		DBPath:            getEnv("POS_DB_PATH", "poslink.db"),
		LogLevel:          getEnv("POS_LOG_LEVEL", "info"),
		ConfigReadTimeout: getEnvMillis("POS_CONFIG_READ_TIMEOUT_MS", 2000),
		TerminalTimeout:   getEnvMillis("POS_TERMINAL_TIMEOUT_MS", 90000),
		APITimeout:        getEnvMillis("POS_API_TIMEOUT_MS", 10000),
		PrinterTimeout:    getEnvMillis("POS_PRINTER_TIMEOUT_MS", 5000),
		MonitorInterval:   getEnvMillis("POS_MONITOR_INTERVAL_MS", 30000),
		Locale:            getEnvLocale("POS_LOCALE", language.Spanish),
		SimAddr:           getEnv("POS_SIM_ADDR", ":8085"),
	}
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvMillis(key string, def int) time.Duration {
	n := getEnvInt(key, def)
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Millisecond
}

func getEnvLocale(key string, def language.Tag) language.Tag {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	tag, err := language.Parse(v)
	if err != nil {
		return def
	}
	return tag
}
