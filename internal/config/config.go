package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// fallbackDefaultPassword is used for registrations without a password
// when DEFAULT_PASSWORD is unset
const fallbackDefaultPassword = "12345"

// Config holds the application configuration
type Config struct {
	AppPort         string   // Application port
	DBUser          string   // Database user
	DBPassword      string   // Database password
	DBHost          string   // Database host
	DBPort          string   // Database port
	DBName          string   // Database name
	JWTSecret       string   // JWT secret key
	RedisAddr       string   // Redis server address, empty disables caching
	RedisPass       string   // Redis password
	RedisDB         int      // Redis database number
	IsProd          bool     // Is production environment
	CORSOrigins     []string // Allowed browser origins
	DefaultPassword string   // Password for registrations that omit one
	BcryptCost      int      // bcrypt work factor, 0 means library default
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	bcryptCost, _ := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}
	defaultPassword := os.Getenv("DEFAULT_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = fallbackDefaultPassword
	}
	return &Config{
		AppPort:         appPort,                              // Application port
		DBUser:          os.Getenv("DB_USER"),                 // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),             // Database password
		DBHost:          os.Getenv("DB_HOST"),                 // Database host
		DBPort:          os.Getenv("DB_PORT"),                 // Database port
		DBName:          os.Getenv("DB_NAME"),                 // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),              // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),              // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),              // Redis password
		RedisDB:         redisDB,                              // Redis database number
		IsProd:          os.Getenv("IS_PROD") == "true",       // Is production environment
		CORSOrigins:     splitList(os.Getenv("CORS_ORIGINS")), // Allowed origins
		DefaultPassword: defaultPassword,                      // Default registration password
		BcryptCost:      bcryptCost,                           // bcrypt work factor
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true&loc=UTC"
}

// splitList parses a comma separated list, dropping blanks
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
