package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading an
// optional .env file first. Unset variables leave the current values
// untouched; malformed numeric values are ignored.
//
// Recognized variables:
//
//	ADDRESS             HTTP bind address
//	DATABASE_DSN        PostgreSQL DSN
//	SECRET_KEY          JWT HMAC secret
//	ACCESS_TOKEN_TTL    token lifetime, Go duration syntax ("2h", "30m")
//	PASSWORD_HASH_COST  bcrypt cost
func parseEnv(config *Config) {
	// missing .env is the normal case
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("PASSWORD_HASH_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.PasswordHashCost = n
		}
	}
}
