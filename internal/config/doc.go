// Package config loads sagerec settings.
//
// Settings come from a YAML file (default [DefaultFile]) and can be
// overridden per field by environment variables. The stabilization section
// is turned into [backoff.Policies] for the engine by [Config.Policies].
package config
