package config

import (
	"flag"
	"os"
	"strings"

	"github.com/mkhramtsov/siteforms/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-y          use path-style object URLs
//	-t string   allowed MIME types, comma-separated
//	-l int      max attachment size, bytes
//	-n int      max attachments per record
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-u", "-p", "-b", "-g", "-e", "-y", "-t", "-l", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3PathStyle, "y", config.S3PathStyle, "use path-style object URLs")

	allowedTypes := fs.String("t", strings.Join(config.AllowedTypes, ","), "allowed MIME types (comma-separated)")
	fs.Int64Var(&config.MaxAttachmentBytes, "l", config.MaxAttachmentBytes, "max attachment size in bytes")
	fs.IntVar(&config.MaxAttachmentsPerRecord, "n", config.MaxAttachmentsPerRecord, "max attachments per record")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *allowedTypes != "" {
		parts := strings.Split(*allowedTypes, ",")
		config.AllowedTypes = make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				config.AllowedTypes = append(config.AllowedTypes, p)
			}
		}
	}
}
