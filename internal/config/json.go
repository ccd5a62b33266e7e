package config

import (
	"encoding/json"
	"os"

	"github.com/mkhramtsov/siteforms/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config struct.
type JsonConfig struct {
	DatabaseDSN             string   `json:"database_dsn"`
	S3RootUser              string   `json:"s3_root_user"`
	S3RootPassword          string   `json:"s3_root_password"`
	S3Bucket                string   `json:"s3_bucket"`
	S3Region                string   `json:"s3_region"`
	S3BaseEndpoint          string   `json:"s3_base_endpoint"`
	S3PathStyle             *bool    `json:"s3_path_style"`
	AllowedTypes            []string `json:"allowed_types"`
	MaxAttachmentBytes      int64    `json:"max_attachment_bytes"`
	MaxAttachmentsPerRecord int      `json:"max_attachments_per_record"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// Only fields present in the file override the current values; zero-valued
// fields are left untouched so defaults survive a partial overlay.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3PathStyle != nil {
		config.S3PathStyle = *c.S3PathStyle
	}
	if len(c.AllowedTypes) > 0 {
		config.AllowedTypes = c.AllowedTypes
	}
	if c.MaxAttachmentBytes > 0 {
		config.MaxAttachmentBytes = c.MaxAttachmentBytes
	}
	if c.MaxAttachmentsPerRecord > 0 {
		config.MaxAttachmentsPerRecord = c.MaxAttachmentsPerRecord
	}
}
