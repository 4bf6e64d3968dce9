package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/jobassistant/internal/flagx"
	"github.com/dmitrijs2005/jobassistant/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell an
// absent key from a zero value, so a partial file only overrides what it
// names.
type JsonConfig struct {
	EndpointAddrGRPC  *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	SigningAlgorithm  *string         `json:"signing_algorithm"`
	AccessTokenTTL    *timex.Duration `json:"access_token_ttl"`
	RefreshTokenDays  *int            `json:"refresh_token_days"`
	StorageQuotaBytes *int64          `json:"storage_quota_bytes"`
	ProfileMaxBytes   *int            `json:"profile_max_bytes"`
	LogLevel          *string         `json:"log_level"`

	RateLimitEnabled   *bool `json:"rate_limit_enabled"`
	RateLimitPerMinute *int  `json:"rate_limit_per_minute"`

	GoogleClientID     *string `json:"google_client_id"`
	GoogleClientSecret *string `json:"google_client_secret"`
	GoogleRedirectURI  *string `json:"google_redirect_uri"`

	ArchiveEnabled *bool   `json:"archive_enabled"`
	S3RootUser     *string `json:"s3_root_user"`
	S3RootPassword *string `json:"s3_root_password"`
	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJSON overlays the file named by -c/-config onto config. No flag, no
// change.
func parseJSON(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	set(&config.RefreshTokenDays, c.RefreshTokenDays)
	set(&config.StorageQuotaBytes, c.StorageQuotaBytes)
	set(&config.ProfileMaxBytes, c.ProfileMaxBytes)
	set(&config.LogLevel, c.LogLevel)
	set(&config.RateLimitEnabled, c.RateLimitEnabled)
	set(&config.RateLimitPerMinute, c.RateLimitPerMinute)
	set(&config.GoogleClientID, c.GoogleClientID)
	set(&config.GoogleClientSecret, c.GoogleClientSecret)
	set(&config.GoogleRedirectURI, c.GoogleRedirectURI)
	set(&config.ArchiveEnabled, c.ArchiveEnabled)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	return nil
}
