package config

import (
	"time"

	"github.com/imamik/sagerec/internal/backoff"
	"github.com/imamik/sagerec/internal/resource"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "sagerec.yaml"

// Config is the sagerec configuration file.
type Config struct {
	Region   string `yaml:"region,omitempty"`
	Profile  string `yaml:"profile,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	Credentials   Credentials   `yaml:"credentials,omitempty"`
	Stabilization Stabilization `yaml:"stabilization,omitempty"`
	Checkpoint    Checkpoint    `yaml:"checkpoint,omitempty"`
	Metrics       Metrics       `yaml:"metrics,omitempty"`
}

// Credentials are static AWS credentials. Empty means the default chain.
type Credentials struct {
	AccessKeyID     string `yaml:"accessKeyID,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
	SessionToken    string `yaml:"sessionToken,omitempty"`
}

// Static reports whether static credentials are configured.
func (c Credentials) Static() bool {
	return c.AccessKeyID != "" || c.SecretAccessKey != ""
}

// Stabilization holds the polling budget per mutating operation.
type Stabilization struct {
	Create Window `yaml:"create,omitempty"`
	Update Window `yaml:"update,omitempty"`
	Delete Window `yaml:"delete,omitempty"`
}

// Window is a stabilization timeout and the delay between polls.
type Window struct {
	Timeout Duration `yaml:"timeout,omitempty"`
	Delay   Duration `yaml:"delay,omitempty"`
}

// Checkpoint selects where in-progress operations are persisted. Bucket
// takes precedence over Dir.
type Checkpoint struct {
	Dir    string `yaml:"dir,omitempty"`
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// Metrics configures metric export.
type Metrics struct {
	// Textfile is a path the CLI writes prometheus metrics to on exit.
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a config with the default stabilization windows.
func Default() *Config {
	w := Window{Timeout: Duration(backoff.DefaultTimeout), Delay: Duration(backoff.DefaultDelay)}
	return &Config{
		Stabilization: Stabilization{Create: w, Update: w, Delete: w},
		Checkpoint:    Checkpoint{Dir: ".sagerec"},
	}
}

// Window returns the stabilization window of op. Read and list fall back to
// the create window.
func (s Stabilization) Window(op resource.Operation) Window {
	switch op {
	case resource.OperationUpdate:
		return s.Update
	case resource.OperationDelete:
		return s.Delete
	default:
		return s.Create
	}
}

// Policies returns constant delay backoff policies built from the
// stabilization windows.
func (c *Config) Policies() backoff.Policies {
	policy := func(w Window) backoff.Policy {
		return backoff.NewConstant(w.Delay.Duration(), w.Timeout.Duration())
	}
	return backoff.Policies{
		Create: policy(c.Stabilization.Create),
		Update: policy(c.Stabilization.Update),
		Delete: policy(c.Stabilization.Delete),
	}
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
