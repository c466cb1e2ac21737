package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is read from the working directory when no --config is given.
	DefaultConfigFile = "resumeapp-client.yaml"

	placeholderURL = "https://YOUR_API_ENDPOINT.com"
	minURLLength   = 16
)

var ErrBadBaseURL = errors.New("bad web service url")

// Config is the client side configuration.
//
// WebService: base URL of the API, key client.webservice.
// Token:      optional bearer token sent with every request.
// OutputDir:  where downloaded resumes are written.
type Config struct {
	WebService string
	Token      string
	OutputDir  string
}

// NewViper returns a viper instance for the client config file. Variables
// such as RESUMEAPP_CLIENT_WEBSERVICE override file values.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("RESUMEAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("client.output-dir", ".")
	return v
}

// LoadConfig reads path (DefaultConfigFile when empty) into v and validates
// the base URL. The returned warnings are meant for the user, not errors.
func LoadConfig(v *viper.Viper, path string) (*Config, []string, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("config file '%s': %w", path, err)
	}

	baseURL, warnings, err := NormalizeBaseURL(v.GetString("client.webservice"))
	if err != nil {
		return nil, warnings, err
	}
	return &Config{
		WebService: baseURL,
		Token:      v.GetString("client.token"),
		OutputDir:  v.GetString("client.output-dir"),
	}, warnings, nil
}

// NormalizeBaseURL applies the base URL checks: too short or still the
// placeholder is an error, plain http is a warning, a trailing slash is dropped.
func NormalizeBaseURL(raw string) (string, []string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < minURLLength {
		return "", nil, fmt.Errorf("%w: baseurl '%s' is not nearly long enough", ErrBadBaseURL, raw)
	}
	if raw == placeholderURL {
		return "", nil, fmt.Errorf("%w: update config file with your API endpoint", ErrBadBaseURL)
	}

	var warnings []string
	if strings.HasPrefix(raw, "http:") {
		warnings = append(warnings, "your URL starts with 'http', it should start with 'https' for security")
	}
	return strings.TrimSuffix(raw, "/"), warnings, nil
}
