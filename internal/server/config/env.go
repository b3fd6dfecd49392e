package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset variables
// leave the current value untouched.
//
// Recognized variables:
//
//	ADDRESS               HTTP bind address (e.g., ":5000")
//	DATABASE_URL          PostgreSQL DSN
//	DATABASE_SSL          "true" to require TLS on the database connection
//	ACCESS_TOKEN_SECRET   HMAC secret for access tokens (required)
//	REFRESH_TOKEN_SECRET  HMAC secret for refresh tokens (required)
//	ACCESS_TOKEN_TTL      access token lifetime, Go duration (e.g., "1h")
//	REFRESH_TOKEN_TTL     refresh token lifetime, Go duration (e.g., "720h")
//	BCRYPT_COST           bcrypt work factor
//	S3_ROOT_USER          media storage credentials
//	S3_ROOT_PASSWORD      media storage credentials
//	S3_BUCKET             media storage bucket
//	S3_REGION             media storage region
//	S3_BASE_ENDPOINT      media storage endpoint (e.g., "http://127.0.0.1:9000/")
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.Address = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("DATABASE_SSL"); ok {
		config.DatabaseSSL = v == "true"
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_SECRET"); ok {
		config.AccessTokenSecret = v
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_SECRET"); ok {
		config.RefreshTokenSecret = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}
