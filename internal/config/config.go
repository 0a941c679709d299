package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	RedisAddr        string
	RedisPassword    string
	RedisDB          string
	ConsulAddress    string
	JWTSecret        string
	ServiceID        string
	ServiceName      string
	ServiceAddress   string
	AllowedOrigins   string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "review_service"),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:    getEnvOrDefault("REDIS_PWD", ""),
		RedisDB:          getEnvOrDefault("REDIS_DB", "0"),
		ConsulAddress:    getEnvOrDefault("CONSUL_ADDR", ""),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "your-jwt-secret-key"),
		ServiceID:        getEnvOrDefault("SERVICE_ID", "review-service-1"),
		ServiceName:      getEnvOrDefault("SERVICE_NAME", "review-service"),
		ServiceAddress:   getEnvOrDefault("SERVICE_ADDRESS", "localhost"),
		AllowedOrigins:   getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
