package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	JWT_SECRET        string
	TOKEN_TTL_MINUTES string
	KAFKA_ADDRESS     string
	HTTP_PORT         string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:           os.Getenv("DB_HOST"),
		DB_PORT:           os.Getenv("DB_PORT"),
		DB_USER:           os.Getenv("DB_USER"),
		DB_PASSWORD:       os.Getenv("DB_PASSWORD"),
		DB_NAME:           os.Getenv("DB_NAME"),
		ES_URL:            os.Getenv("ES_URL"),
		ES_USER:           os.Getenv("ES_USER"),
		ES_PASSWORD:       os.Getenv("ES_PASSWORD"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		TOKEN_TTL_MINUTES: os.Getenv("TOKEN_TTL_MINUTES"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		HTTP_PORT:         os.Getenv("HTTP_PORT"),
		LOG_LEVEL:         os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

// TokenTTL is the access token lifetime, fixed at startup.
func (c *Config) TokenTTL() time.Duration {
	if v, err := strconv.Atoi(c.TOKEN_TTL_MINUTES); err == nil && v > 0 {
		return time.Duration(v) * time.Minute
	}
	return 30 * time.Minute
}

func (c *Config) Addr() string {
	if c.HTTP_PORT == "" {
		return ":8080"
	}
	return ":" + c.HTTP_PORT
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
