package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mazrean/streamclone/internal"
	"github.com/mazrean/streamclone/internal/config"
	"github.com/mazrean/streamclone/internal/pkg/json"
	mylog "github.com/mazrean/streamclone/internal/pkg/log"
	"github.com/mazrean/streamclone/internal/sink"
	"github.com/mazrean/streamclone/log"
	"github.com/mazrean/streamclone/stream"
)

var (
	version  = "dev"
	revision = "none"
)

func createSink(logger log.Logger, cfg *config.SnapshotCmd) (sink.Sink, error) {
	var (
		s   sink.Sink
		err error
	)
	switch cfg.Sink {
	case "disk":
		s, err = sink.NewDisk(logger, cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("create disk sink: %w", err)
		}
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, errors.New("S3 bucket is not specified. please specify using the --s3.bucket flag or config file")
		}

		s, err = sink.NewS3(
			logger,
			cfg.S3.Endpoint,
			cfg.S3.Region,
			cfg.S3.AccessKey,
			cfg.S3.SecretAccessKey,
			cfg.S3.Bucket,
			cfg.S3.Prefix,
			!cfg.S3.DisableSSL,
			cfg.S3.UsePathStyle,
		)
		if err != nil {
			return nil, fmt.Errorf("create S3 sink: %w", err)
		}
	case "azblob":
		s, err = sink.NewAzureBlob(logger, cfg.Azure.ContainerURL)
		if err != nil {
			return nil, fmt.Errorf("create Azure Blob sink: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid sink: %s", cfg.Sink)
	}

	if cfg.Compress {
		s = sink.NewZstd(s, cfg.CompressLevel)
	}

	return s, nil
}

func run(ctx context.Context, logger log.Logger, cfg *config.Config, command string) (any, error) {
	app := internal.NewApp(logger, stream.NewCloner(stream.WithLogger(logger)))
	defer app.Close()

	switch command {
	case "snapshot <file>":
		s, err := createSink(logger, &cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := s.Close(); err != nil {
				logger.Warnf("failed to close sink: %v", err)
			}
		}()

		return app.Snapshot(ctx, s, cfg.Snapshot.File, cfg.Snapshot.Offset, cfg.Snapshot.Name)
	case "fanout <file>":
		return app.Fanout(ctx, cfg.Fanout.File, cfg.Fanout.Offset, cfg.Fanout.Clones)
	case "split <file>":
		return app.Split(cfg.Split.File, cfg.Split.Offset, cfg.Split.Parts, cfg.Split.Dir)
	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func main() {
	logger := log.DefaultLogger

	cfg, command, err := config.Load(config.Version{Version: version, Revision: revision}, os.Args[1:])
	if err != nil {
		logger.Errorf("invalid configuration: %v", err)
		os.Exit(2)
	}

	level, err := mylog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("%v. ignore and use default info level instead", err)
	} else if level != mylog.Info {
		logger = mylog.NewLogger(level)
	}

	if err := cfg.Dev.StartProfiling(); err != nil {
		logger.Warnf("failed to start profiling: %v", err)
	}

	logger.Debugf("configuration: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	report, err := run(ctx, logger, cfg, command)
	stop()
	cfg.Dev.StopProfiling()
	if err != nil {
		logger.Errorf("%s: %v", command, err)
		os.Exit(1)
	}

	if err := json.NewEncoder(os.Stdout, cfg.Pretty).Encode(report); err != nil {
		logger.Errorf("failed to write report: %v", err)
		os.Exit(1)
	}
}
