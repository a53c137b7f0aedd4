package config

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const configFileEnvVar = "CONFIG_FILE"

type Config interface {
	EnvConfig
	CorsConfig
	CredentialsConfig
	EndpointsConfig
	UpstreamConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Credentials
	Endpoints
	Upstream
}

// FileConfig mirrors config.json. Field names match the files already deployed
// next to the desktop check-in stations.
type FileConfig struct {
	WSKey            string `json:"wskey"`
	Secret           string `json:"secret"`
	Scope            string `json:"scope"`
	OAuthServerToken string `json:"oauth_server_token"`
	DiscoveryAPIURL  string `json:"discovery_api_url"`
	InstitutionID    string `json:"institution_id"`
	RegistryID       string `json:"registry_id"`
	NCIPAPIURL       string `json:"ncip_api_url"`
}

// New returns a Config backed by environment variables only.
func New() Config {
	return newMainConfig(&FileConfig{})
}

// Load reads the optional config file at path (or $CONFIG_FILE, or ./config.json) and
// layers environment variables on top of it. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = GetEnv(configFileEnvVar, "config.json")
	}

	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newMainConfig(file), nil
}

// ReadFile decodes a config.json file. It returns an empty FileConfig if path does not exist.
func ReadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("No config file found, using environment only")
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[config.ReadFile] reading %s", path)
	}

	var fc FileConfig
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "[config.ReadFile] %s contains invalid JSON", path)
	}
	log.Info().Str("path", path).Msg("Using config file")
	return &fc, nil
}

func newMainConfig(file *FileConfig) mainConfig {
	return mainConfig{
		Credentials: Credentials{file: file},
		Endpoints:   Endpoints{file: file},
	}
}
