package embedding

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Variant identifies how the embeddings API is hosted. It decides the URL
// shape, the auth header and which configuration fields are required.
type Variant string

const (
	// VariantHosted is the vendor-hosted public API (Bearer auth, /v1/embeddings).
	VariantHosted Variant = "hosted"

	// VariantGateway is an enterprise gateway addressing named deployments
	// (api-key header, api-version query parameter).
	VariantGateway Variant = "gateway"

	// VariantSelfHosted is a self-hosted server speaking the same REST contract
	// as the hosted API.
	VariantSelfHosted Variant = "self_hosted"
)

// Defaults applied during resolution when the caller leaves a field unset.
const (
	DefaultHostedEndpoint    = "https://api.openai.com"
	DefaultHostedModel       = "text-embedding-ada-002"
	DefaultGatewayAPIVersion = "2023-05-15"
	DefaultTimeout           = 30 * time.Second

	// UserAgent identifies this client on every request unless the caller
	// overrides the User-Agent header.
	UserAgent = "embeddings-go/1.0"
)

// DefaultRetryDelays is the wait schedule used when Common.RetryDelays is nil.
// Entry n is waited after the n-th consecutive 429 response.
var DefaultRetryDelays = []time.Duration{2 * time.Second, 5 * time.Second}

// Common holds the settings shared by all variants.
type Common struct {
	// RetryDelays is consumed in order across consecutive rate-limited attempts.
	// nil selects DefaultRetryDelays; an empty non-nil slice disables retries.
	RetryDelays []time.Duration `yaml:"retry_delays"`

	// LogRequests logs every physical attempt at info level instead of debug.
	LogRequests bool `yaml:"log_requests"`

	// Headers are set on every request. They win over the default Content-Type
	// and User-Agent, but never over the variant's auth headers.
	Headers map[string]string `yaml:"headers"`

	// Timeout bounds a single physical attempt. Zero selects DefaultTimeout.
	Timeout time.Duration `yaml:"timeout"`
}

// Options is the single, loosely shaped construction surface. Fields of all
// three variants live side by side; Resolve picks the variant.
type Options struct {
	// Hosted variant; APIKey and Organization are also used by the self-hosted variant.
	APIKey       string `yaml:"api_key"`
	Organization string `yaml:"organization"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`

	// Gateway variant.
	GatewayAPIKey   string `yaml:"gateway_api_key"`
	GatewayEndpoint string `yaml:"gateway_endpoint"`
	Deployment      string `yaml:"deployment"`
	APIVersion      string `yaml:"api_version"`

	// Self-hosted variant.
	SelfHostedModel    string `yaml:"self_hosted_model"`
	SelfHostedEndpoint string `yaml:"self_hosted_endpoint"`

	Common `yaml:",inline"`
}

// HostedOptions configures the vendor-hosted API.
type HostedOptions struct {
	APIKey       string
	Organization string
	Model        string // defaults to DefaultHostedModel
	BaseURL      string // defaults to DefaultHostedEndpoint
	Common
}

// GatewayOptions configures an enterprise gateway deployment.
type GatewayOptions struct {
	APIKey     string
	Deployment string
	Endpoint   string
	APIVersion string // defaults to DefaultGatewayAPIVersion
	Common
}

// SelfHostedOptions configures a self-hosted server. APIKey is optional.
type SelfHostedOptions struct {
	Model        string
	Endpoint     string
	APIKey       string
	Organization string
	Common
}

// Config is the resolved, validated configuration of a Client.
//
// Values are produced by Resolve or the New*Config constructors and are never
// modified afterwards; the client keeps its own deep copy.
type Config struct {
	Variant      Variant
	APIKey       string
	Organization string
	Model        string // hosted and self-hosted
	Deployment   string // gateway
	Endpoint     string // https base URL without trailing slash
	APIVersion   string // gateway
	Common
}

// modelID is the value sent in the request body's "model" field.
func (c Config) modelID() string {
	if c.Variant == VariantGateway {
		return c.Deployment
	}
	return c.Model
}

func (c Config) clone() Config {
	out := c
	if c.RetryDelays != nil {
		out.RetryDelays = append(make([]time.Duration, 0, len(c.RetryDelays)), c.RetryDelays...)
	}
	out.Headers = cloneHeaders(c.Headers)
	return out
}

func cloneHeaders(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// NewOptionsFromEnv reads Options from EMBEDDING_* environment variables.
//
//	EMBEDDING_API_KEY, EMBEDDING_ORGANIZATION, EMBEDDING_MODEL, EMBEDDING_BASE_URL
//	EMBEDDING_GATEWAY_API_KEY, EMBEDDING_GATEWAY_ENDPOINT,
//	EMBEDDING_GATEWAY_DEPLOYMENT, EMBEDDING_GATEWAY_API_VERSION
//	EMBEDDING_SELF_HOSTED_MODEL, EMBEDDING_SELF_HOSTED_ENDPOINT
//	EMBEDDING_RETRY_DELAYS           comma separated durations, e.g. "2s,5s"
//	EMBEDDING_LOG_REQUESTS           bool
//	EMBEDDING_HTTP_TIMEOUT_SECONDS   int
func NewOptionsFromEnv() (Options, error) {
	opts := Options{
		APIKey:             os.Getenv("EMBEDDING_API_KEY"),
		Organization:       os.Getenv("EMBEDDING_ORGANIZATION"),
		Model:              os.Getenv("EMBEDDING_MODEL"),
		BaseURL:            os.Getenv("EMBEDDING_BASE_URL"),
		GatewayAPIKey:      os.Getenv("EMBEDDING_GATEWAY_API_KEY"),
		GatewayEndpoint:    os.Getenv("EMBEDDING_GATEWAY_ENDPOINT"),
		Deployment:         os.Getenv("EMBEDDING_GATEWAY_DEPLOYMENT"),
		APIVersion:         os.Getenv("EMBEDDING_GATEWAY_API_VERSION"),
		SelfHostedModel:    os.Getenv("EMBEDDING_SELF_HOSTED_MODEL"),
		SelfHostedEndpoint: os.Getenv("EMBEDDING_SELF_HOSTED_ENDPOINT"),
	}

	if v := os.Getenv("EMBEDDING_RETRY_DELAYS"); v != "" {
		delays, err := parseDelays(v)
		if err != nil {
			return Options{}, fmt.Errorf("%w: EMBEDDING_RETRY_DELAYS: %w", ErrInvalidConfig, err)
		}
		opts.RetryDelays = delays
	}

	if v := os.Getenv("EMBEDDING_LOG_REQUESTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, fmt.Errorf("%w: EMBEDDING_LOG_REQUESTS: %w", ErrInvalidConfig, err)
		}
		opts.LogRequests = b
	}

	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Options{}, fmt.Errorf("%w: EMBEDDING_HTTP_TIMEOUT_SECONDS must be a positive integer, got %q", ErrInvalidConfig, v)
		}
		opts.Timeout = time.Duration(n) * time.Second
	}

	return opts, nil
}

// parseDelays parses "2s, 5s". The literal "none" yields an empty, non-nil
// schedule, which disables retries.
func parseDelays(v string) ([]time.Duration, error) {
	if strings.EqualFold(strings.TrimSpace(v), "none") {
		return []time.Duration{}, nil
	}
	parts := strings.Split(v, ",")
	delays := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		delays = append(delays, d)
	}
	return delays, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path (".env" when empty) into the
// process environment. Variables that are already set are left untouched and
// a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("embedding: load env file %s: %w", path, err)
	}
	return nil
}

// LoadOptionsFile reads Options from a YAML file.
//
//	gateway_api_key: "..."
//	gateway_endpoint: https://my-gateway.example.com
//	deployment: embeddings-large
//	retry_delays: [500ms, 2s, 8s]
//	timeout: 10s
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("embedding: read options file: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}
	return opts, nil
}
