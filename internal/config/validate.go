package config

import (
	"fmt"
	"regexp"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Region != "" && !regionPattern.MatchString(c.Region) {
		errs = append(errs, fmt.Errorf("region %q is not a valid AWS region", c.Region))
	}
	if c.Credentials.Static() && (c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "") {
		errs = append(errs, fmt.Errorf("credentials need both accessKeyID and secretAccessKey"))
	}
	if c.Credentials.Static() && c.Profile != "" {
		errs = append(errs, fmt.Errorf("profile and static credentials are mutually exclusive"))
	}

	errs = append(errs, c.Stabilization.Create.validate("stabilization.create")...)
	errs = append(errs, c.Stabilization.Update.validate("stabilization.update")...)
	errs = append(errs, c.Stabilization.Delete.validate("stabilization.delete")...)

	if c.Checkpoint.Prefix != "" && c.Checkpoint.Bucket == "" {
		errs = append(errs, fmt.Errorf("checkpoint.prefix requires checkpoint.bucket"))
	}

	return utilerrors.NewAggregate(errs)
}

func (w Window) validate(path string) []error {
	var errs []error
	if w.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s.timeout must be positive, got %s", path, w.Timeout))
	}
	if w.Delay <= 0 {
		errs = append(errs, fmt.Errorf("%s.delay must be positive, got %s", path, w.Delay))
	}
	if w.Delay > 0 && w.Timeout > 0 && w.Delay > w.Timeout {
		errs = append(errs, fmt.Errorf("%s.delay %s exceeds timeout %s", path, w.Delay, w.Timeout))
	}
	return errs
}
