package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/sagerec/internal/config"
	"github.com/imamik/sagerec/internal/platform/awsconfig"
	"github.com/imamik/sagerec/internal/util/async"
)

// DoctorStatus is the diagnostic report of the doctor command.
type DoctorStatus struct {
	ConfigValid bool   `json:"configValid"`
	ConfigError string `json:"configError,omitempty"`
	Region      string `json:"region,omitempty"`

	Identity      *awsconfig.Identity `json:"identity,omitempty"`
	IdentityError string              `json:"identityError,omitempty"`

	Store              string   `json:"store"`
	StoreReachable     bool     `json:"storeReachable"`
	StoreError         string   `json:"storeError,omitempty"`
	PendingCheckpoints []string `json:"pendingCheckpoints,omitempty"`
}

// Doctor checks the configuration, credentials and checkpoint store.
func Doctor(ctx context.Context, opts *Options) error {
	status := &DoctorStatus{}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		status.ConfigError = err.Error()
		return renderDoctor(status, opts.JSON)
	}
	status.ConfigValid = true
	status.Region = cfg.Region
	status.Store = storeLocation(cfg)

	tasks := []async.Task{
		{Name: "credentials", Func: func(ctx context.Context) error {
			awsCfg, err := loadAWS(ctx, cfg)
			if err != nil {
				status.IdentityError = err.Error()
				return nil
			}
			if awsCfg.Region != "" {
				status.Region = awsCfg.Region
			}
			id, err := awsconfig.CallerIdentity(ctx, newSTS(awsCfg))
			if err != nil {
				status.IdentityError = err.Error()
				return nil
			}
			status.Identity = id
			return nil
		}},
		{Name: "checkpoints", Func: func(ctx context.Context) error {
			store, err := openStore(ctx, cfg)
			if err == nil {
				status.PendingCheckpoints, err = store.List(ctx)
			}
			if err != nil {
				status.StoreError = err.Error()
				return nil
			}
			status.StoreReachable = true
			return nil
		}},
	}
	if err := async.RunParallel(ctx, tasks, 0); err != nil {
		return err
	}

	return renderDoctor(status, opts.JSON)
}

func storeLocation(cfg *config.Config) string {
	if cfg.Checkpoint.Bucket == "" {
		return cfg.Checkpoint.Dir
	}
	if cfg.Checkpoint.Prefix == "" {
		return "s3://" + cfg.Checkpoint.Bucket
	}
	return "s3://" + cfg.Checkpoint.Bucket + "/" + cfg.Checkpoint.Prefix
}

func renderDoctor(status *DoctorStatus, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(status)
	}

	header := "sagerec doctor"
	if isInteractiveTTY() {
		header = titleStyle.Render(header)
	}
	fmt.Fprintln(stdout, header)

	printRow("Config", status.ConfigValid, status.ConfigError)
	if !status.ConfigValid {
		return nil
	}
	if status.Region != "" {
		printRow("Region", true, status.Region)
	}
	if status.Identity != nil {
		printRow("Credentials", true, status.Identity.ARN)
	} else {
		printRow("Credentials", false, status.IdentityError)
	}
	if status.StoreReachable {
		printRow("Checkpoints", true, fmt.Sprintf("%s (%d pending)", status.Store, len(status.PendingCheckpoints)))
		for _, key := range status.PendingCheckpoints {
			fmt.Fprintf(stdout, "       %s\n", key)
		}
	} else {
		printRow("Checkpoints", false, status.StoreError)
	}
	return nil
}
