package config

import "github.com/rs/zerolog/log"

const defaultArchivePrefix = "precipitation"

// ArchiveConfig controls mirroring of exported files to S3.
// An empty Bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (a *ArchiveConfig) Enabled() bool {
	return a != nil && a.Bucket != ""
}

// GetArchiveConfig reads the PRECIP_S3_* variables.
func GetArchiveConfig() *ArchiveConfig {
	config := &ArchiveConfig{
		Bucket:          getEnvOrDefault("PRECIP_S3_BUCKET", ""),
		Prefix:          getEnvOrDefault("PRECIP_S3_PREFIX", defaultArchivePrefix),
		Region:          getEnvOrDefault("PRECIP_S3_REGION", ""),
		Endpoint:        getEnvOrDefault("PRECIP_S3_ENDPOINT", ""),
		AccessKeyID:     getEnvOrDefault("PRECIP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnvOrDefault("PRECIP_S3_SECRET_ACCESS_KEY", ""),
	}

	log.Debug().
		Str("Bucket", config.Bucket).
		Str("Prefix", config.Prefix).
		Str("Endpoint", config.Endpoint).
		Bool("Enabled", config.Enabled()).
		Msg("Archive configuration loaded")

	return config
}
