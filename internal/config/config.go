package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

type Config struct {
	Version  kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
	LogLevel string           `kong:"short='l',default='info',enum='debug,info,warn,error,silent',help='Log level',env='STREAMCLONE_LOG_LEVEL'"`
	Pretty   bool             `kong:"help='Indent the JSON report',env='STREAMCLONE_PRETTY'"`

	Snapshot SnapshotCmd `kong:"cmd,help='Copy the rest of a file from a position into a sink through a clone of the open file.'"`
	Fanout   FanoutCmd   `kong:"cmd,help='Read a file through several clones concurrently and check they agree.'"`
	Split    SplitCmd    `kong:"cmd,help='Split the rest of a file from a position into parts through a clone.'"`

	Dev DevFlag `kong:"group='dev',embed,prefix='dev.'"`
}

// Source is the file every command clones.
type Source struct {
	File   string `kong:"arg,type='existingfile',help='Source file'"`
	Offset int64  `kong:"short='o',default='0',help='Position of the source when it is cloned'"`
}

type SnapshotCmd struct {
	Source `kong:"embed"`

	Name          string `kong:"short='n',help='Object name. A random name is used when empty.'"`
	Sink          string `kong:"short='s',default='disk',enum='disk,s3,azblob',help='Sink to store the snapshot in',env='STREAMCLONE_SINK'"`
	Dir           string `kong:"short='d',optional,help='Directory of the disk sink',env='STREAMCLONE_DIR'"`
	Compress      bool   `kong:"short='z',help='Compress the snapshot with zstd',env='STREAMCLONE_COMPRESS'"`
	CompressLevel int    `kong:"default='0',help='zstd level, 0 for the default level',env='STREAMCLONE_COMPRESS_LEVEL'"`
	S3            struct {
		Region          string `kong:"help='AWS region',env='STREAMCLONE_S3_REGION'"`
		Bucket          string `kong:"help='S3 bucket name',env='STREAMCLONE_S3_BUCKET'"`
		Prefix          string `kong:"help='Prefix of object keys',env='STREAMCLONE_S3_PREFIX'"`
		AccessKey       string `kong:"help='AWS access key',env='STREAMCLONE_S3_ACCESS_KEY'"`
		SecretAccessKey string `kong:"help='AWS secret access key',env='STREAMCLONE_S3_SECRET_ACCESS_KEY'"`
		Endpoint        string `kong:"help='S3 endpoint',env='STREAMCLONE_S3_ENDPOINT',default='s3.amazonaws.com'"`
		DisableSSL      bool   `kong:"help='Disable SSL for S3 connection',env='STREAMCLONE_S3_DISABLE_SSL'"`
		UsePathStyle    bool   `kong:"help='Use path style for S3 connection',env='STREAMCLONE_S3_USE_PATH_STYLE'"`
	} `kong:"optional,group='s3',embed,prefix='s3.'"`
	Azure struct {
		ContainerURL string `kong:"help='Container URL including a SAS token',env='STREAMCLONE_AZURE_CONTAINER_URL'"`
	} `kong:"optional,group='azure',embed,prefix='azure.'"`
}

type FanoutCmd struct {
	Source `kong:"embed"`

	Clones int `kong:"short='c',default='4',help='Number of clones'"`
}

type SplitCmd struct {
	Source `kong:"embed"`

	Parts int    `kong:"short='p',default='2',help='Number of parts'"`
	Dir   string `kong:"short='d',required,type='path',help='Directory to write the parts to'"`
}

type Version struct {
	Version  string
	Revision string
}

// Load parses args and returns the configuration and the selected command.
func Load(version Version, args []string) (*Config, string, error) {
	config := &Config{}

	var configPaths []string
	if wd, err := os.Getwd(); err == nil {
		configPaths = append(configPaths, filepath.Join(wd, ".streamclone.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".streamclone.json"))
	}

	parser, err := kong.New(config,
		kong.Name("streamclone"),
		kong.Description("Clone open files without disturbing their readers"),
		kong.Configuration(kong.JSON, configPaths...),
		kong.Vars{"version": fmt.Sprintf("%s (%s)", version.Version, version.Revision)},
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create parser: %w", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if err := config.validate(ctx.Command()); err != nil {
		return nil, "", err
	}

	return config, ctx.Command(), nil
}

func (c *Config) validate(command string) error {
	switch command {
	case "snapshot <file>":
		// If directory is not specified, use cache directory
		if c.Snapshot.Sink == "disk" && c.Snapshot.Dir == "" {
			cacheDir, err := os.UserCacheDir()
			if err == nil {
				c.Snapshot.Dir = filepath.Join(cacheDir, "streamclone")
			}
			if c.Snapshot.Dir == "" {
				return fmt.Errorf("snapshot directory is not specified. please specify using the --dir flag or config file")
			}
		}
		if c.Snapshot.Offset < 0 {
			return fmt.Errorf("offset must not be negative: %d", c.Snapshot.Offset)
		}
	case "fanout <file>":
		if c.Fanout.Clones < 1 {
			return fmt.Errorf("clones must be positive: %d", c.Fanout.Clones)
		}
		if c.Fanout.Offset < 0 {
			return fmt.Errorf("offset must not be negative: %d", c.Fanout.Offset)
		}
	case "split <file>":
		if c.Split.Parts < 1 {
			return fmt.Errorf("parts must be positive: %d", c.Split.Parts)
		}
		if c.Split.Offset < 0 {
			return fmt.Errorf("offset must not be negative: %d", c.Split.Offset)
		}
	}

	return nil
}
