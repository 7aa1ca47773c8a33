package config

import (
	"os"
	"time"
)

// ApplyEnv overrides cfg with environment variables. Unset or unparsable
// variables leave the current value in place.
//
// Environment Variables:
//   - AWS_REGION, AWS_PROFILE
//   - SAGEREC_ENDPOINT
//   - SAGEREC_CREATE_TIMEOUT, SAGEREC_CREATE_DELAY
//   - SAGEREC_UPDATE_TIMEOUT, SAGEREC_UPDATE_DELAY
//   - SAGEREC_DELETE_TIMEOUT, SAGEREC_DELETE_DELAY
//   - SAGEREC_CHECKPOINT_DIR, SAGEREC_CHECKPOINT_BUCKET
func ApplyEnv(cfg *Config) {
	cfg.Region = parseString("AWS_REGION", cfg.Region)
	cfg.Profile = parseString("AWS_PROFILE", cfg.Profile)
	cfg.Endpoint = parseString("SAGEREC_ENDPOINT", cfg.Endpoint)

	applyWindow(&cfg.Stabilization.Create, "CREATE")
	applyWindow(&cfg.Stabilization.Update, "UPDATE")
	applyWindow(&cfg.Stabilization.Delete, "DELETE")

	cfg.Checkpoint.Dir = parseString("SAGEREC_CHECKPOINT_DIR", cfg.Checkpoint.Dir)
	cfg.Checkpoint.Bucket = parseString("SAGEREC_CHECKPOINT_BUCKET", cfg.Checkpoint.Bucket)
}

func applyWindow(w *Window, op string) {
	w.Timeout = Duration(parseDuration("SAGEREC_"+op+"_TIMEOUT", w.Timeout.Duration()))
	w.Delay = Duration(parseDuration("SAGEREC_"+op+"_DELAY", w.Delay.Duration()))
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}
