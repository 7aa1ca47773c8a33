// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, builds the clients it needs and
// drives the reconciliation engine. Commands in the commands package only
// bind flags and delegate here.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/sagerec/internal/checkpoint"
	"github.com/imamik/sagerec/internal/config"
	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/platform/awsconfig"
	s3platform "github.com/imamik/sagerec/internal/platform/s3"
	smplatform "github.com/imamik/sagerec/internal/platform/sagemaker"
	"github.com/imamik/sagerec/internal/resources"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath      string
	Verbose         bool
	JSON            bool
	MetricsTextfile string
}

// Runtime bundles the configuration and clients of one command run.
type Runtime struct {
	Config   *config.Config
	Registry *resources.Registry
	Store    checkpoint.Store
	// ensureStore prepares the checkpoint location before the first save.
	ensureStore func(ctx context.Context) error
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig loads the configuration file, falling back to defaults.
	loadConfig = config.Load

	// loadAWS resolves the AWS configuration.
	loadAWS = awsconfig.Load

	// newRuntime builds the registry and checkpoint store.
	newRuntime = buildRuntime

	// newSTS returns the STS client used by doctor.
	newSTS = func(awsCfg aws.Config) awsconfig.STSAPI { return awsconfig.NewSTS(awsCfg) }

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// SetupLogging installs the process logger. Verbose switches to development
// mode which also enables debug output.
func SetupLogging(verbose bool) {
	log.SetLogger(zap.New(zap.UseDevMode(verbose), zap.WriteTo(os.Stderr)))
}

func buildRuntime(ctx context.Context, cfg *config.Config, metrics bool) (*Runtime, error) {
	awsCfg, err := loadAWS(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := smplatform.NewClient(awsCfg, cfg.Endpoint)
	registry, err := resources.NewRegistry(client, smplatform.NewTagger(client),
		engine.WithPolicies(cfg.Policies()),
		engine.WithSink(engine.LogSink{}),
		engine.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Registry: registry}
	rt.Store, rt.ensureStore = storeFor(awsCfg, cfg)
	return rt, nil
}

// openStore returns the checkpoint store of cfg. The file store needs no
// AWS configuration.
func openStore(ctx context.Context, cfg *config.Config) (checkpoint.Store, error) {
	if cfg.Checkpoint.Bucket == "" {
		return checkpoint.NewFileStore(cfg.Checkpoint.Dir), nil
	}
	awsCfg, err := loadAWS(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, _ := storeFor(awsCfg, cfg)
	return store, nil
}

func storeFor(awsCfg aws.Config, cfg *config.Config) (checkpoint.Store, func(context.Context) error) {
	if cfg.Checkpoint.Bucket == "" {
		return checkpoint.NewFileStore(cfg.Checkpoint.Dir), nil
	}
	client := s3platform.NewClient(awsCfg, "")
	bucket := cfg.Checkpoint.Bucket
	ensure := func(ctx context.Context) error {
		if err := client.EnsureBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to prepare checkpoint bucket: %w", err)
		}
		return nil
	}
	return checkpoint.NewS3Store(client, bucket, cfg.Checkpoint.Prefix), ensure
}

func (r *Runtime) prepareStore(ctx context.Context) error {
	if r.ensureStore == nil {
		return nil
	}
	return r.ensureStore(ctx)
}

// metricsPath returns the metrics textfile, the flag winning over the
// configuration file.
func metricsPath(opts *Options, cfg *config.Config) string {
	if opts.MetricsTextfile != "" {
		return opts.MetricsTextfile
	}
	return cfg.Metrics.Textfile
}

func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, ctrlmetrics.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func commandContext(ctx context.Context) context.Context {
	return logr.NewContext(ctx, log.Log.WithName("sagerec"))
}
