package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret string

	LogLevel string
	Env      string
}

func Load() *Config {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080 // fallback
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 5432 // fallback
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-pro" // default model
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "SUPER_SECRET_KEY_CHANGE_ME"
	}

	return &Config{
		Port: port,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		// Absent key is allowed: every model call then fails and the
		// AI layer degrades to its fallback values.
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  model,

		JWTSecret: secret,

		LogLevel: os.Getenv("LOG_LEVEL"),
		Env:      os.Getenv("APP_ENV"),
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
