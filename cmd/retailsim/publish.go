package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/andresuchdata/retailsim/internal/config"
	"github.com/andresuchdata/retailsim/internal/pipeline"
	"github.com/andresuchdata/retailsim/internal/storage"
	"github.com/andresuchdata/retailsim/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	targetS3    = "s3"
	targetDrive = "drive"
)

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Upload the files of an output directory to S3-compatible storage or Google Drive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "target",
				Usage: "Destination: s3 or drive",
				Value: targetS3,
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory holding the generated files",
				EnvVars: []string{"OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "Object key prefix; the run id is appended when a manifest is present",
				EnvVars: []string{"S3_PREFIX"},
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads",
				Value: 4,
			},
			&cli.StringFlag{
				Name:    "s3-endpoint",
				Usage:   "S3 endpoint (host:port or URL)",
				EnvVars: []string{"S3_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "s3-bucket",
				Usage:   "S3 bucket",
				EnvVars: []string{"S3_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "drive-folder",
				Usage:   "Drive folder ID or path",
				EnvVars: []string{"DRIVE_FOLDER_ID"},
			},
			&cli.StringFlag{
				Name:    "drive-credentials-file",
				Usage:   "Path to a service account JSON key (overrides DRIVE_CREDENTIALS_JSON)",
				EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
			},
		},
		Action: runPublish,
	}
}

func newObjectStorage(c *cli.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch strings.ToLower(c.String("target")) {
	case targetS3:
		s3cfg := storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		}
		if c.IsSet("s3-endpoint") {
			s3cfg.Endpoint = c.String("s3-endpoint")
		}
		if c.IsSet("s3-bucket") {
			s3cfg.Bucket = c.String("s3-bucket")
		}

		client, err := storage.NewS3Client(s3cfg)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(c.Context); err != nil {
			return nil, err
		}
		return client, nil

	case targetDrive:
		creds := cfg.Drive.CredentialsJSON
		if path := c.String("drive-credentials-file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read drive credentials: %w", err)
			}
			creds = string(data)
		}
		if creds == "" {
			return nil, fmt.Errorf("drive credentials must be provided")
		}

		folder := cfg.Drive.FolderID
		if c.IsSet("drive-folder") {
			folder = c.String("drive-folder")
		}
		return storage.NewDriveClient(c.Context, creds, folder)

	default:
		return nil, fmt.Errorf("unknown publish target %q", c.String("target"))
	}
}

func runPublish(c *cli.Context) error {
	cfg := configFrom(c)
	log := logger.Component("publish")

	dir := cfg.Output.Dir
	if c.IsSet("output-dir") {
		dir = c.String("output-dir")
	}

	prefix := cfg.Storage.Prefix
	if c.IsSet("prefix") {
		prefix = c.String("prefix")
	}
	if m, err := pipeline.ReadManifest(dir); err == nil {
		if m.Status != pipeline.StatusCompleted {
			return fmt.Errorf("refusing to publish run %s with status %s", m.RunID, m.Status)
		}
		prefix = storage.ObjectKey(prefix, m.RunID)
	} else {
		log.Warn().Err(err).Str("dir", dir).Msg("no manifest found, publishing without run id")
	}

	store, err := newObjectStorage(c, cfg)
	if err != nil {
		return err
	}

	p := storage.NewPublisher(store, c.Int("workers"), logger.Log)
	objects, err := p.Publish(c.Context, dir, prefix)
	if err != nil {
		return err
	}
	if err := p.Verify(c.Context, prefix, objects); err != nil {
		return err
	}

	for _, o := range objects {
		fmt.Fprintln(c.App.Writer, o.Key)
	}
	return nil
}
