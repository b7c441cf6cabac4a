package config

import "os"

// parseEnv overlays Config fields from environment variables. A variable
// that is unset or empty leaves the current value untouched, so the overlay
// order of LoadConfig is preserved.
//
// Recognized variables:
//
//	ADDRESS           HTTP bind address
//	DATABASE_DSN      PostgreSQL DSN
//	JWT_SECRET        token signing key
//	S3_ACCESS_KEY     object storage access key
//	S3_SECRET_KEY     object storage secret key
//	S3_BUCKET         object storage bucket
//	S3_REGION         object storage region
//	S3_BASE_ENDPOINT  object storage endpoint URL
func parseEnv(config *Config) {
	setIfPresent := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setIfPresent(&config.EndpointAddr, "ADDRESS")
	setIfPresent(&config.DatabaseDSN, "DATABASE_DSN")
	setIfPresent(&config.SecretKey, "JWT_SECRET")
	setIfPresent(&config.S3AccessKey, "S3_ACCESS_KEY")
	setIfPresent(&config.S3SecretKey, "S3_SECRET_KEY")
	setIfPresent(&config.S3Bucket, "S3_BUCKET")
	setIfPresent(&config.S3Region, "S3_REGION")
	setIfPresent(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
