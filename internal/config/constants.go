package config

// EnvPrefix is the prefix for all environment variables
const EnvPrefix = "HIMAL"

// DefaultConfigFile is the config file looked up when HIMAL_CONFIG_FILE is unset
const DefaultConfigFile = "config.yaml"

// Application identity
const (
	AppName = "Himalayan Expedition Analytics"
	Version = "v1.2.0"
)
