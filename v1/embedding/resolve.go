package embedding

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Resolve selects exactly one variant from opts and returns its validated
// configuration. The first matching rule wins:
//
//  1. GatewayAPIKey is set → VariantGateway
//  2. SelfHostedModel is set → VariantSelfHosted
//  3. otherwise → VariantHosted
//
// opts is not modified.
func Resolve(opts Options) (Config, error) {
	switch {
	case opts.GatewayAPIKey != "":
		return NewGatewayConfig(GatewayOptions{
			APIKey:     opts.GatewayAPIKey,
			Deployment: opts.Deployment,
			Endpoint:   opts.GatewayEndpoint,
			APIVersion: opts.APIVersion,
			Common:     opts.Common,
		})
	case opts.SelfHostedModel != "":
		return NewSelfHostedConfig(SelfHostedOptions{
			Model:        opts.SelfHostedModel,
			Endpoint:     opts.SelfHostedEndpoint,
			APIKey:       opts.APIKey,
			Organization: opts.Organization,
			Common:       opts.Common,
		})
	default:
		return NewHostedConfig(HostedOptions{
			APIKey:       opts.APIKey,
			Organization: opts.Organization,
			Model:        opts.Model,
			BaseURL:      opts.BaseURL,
			Common:       opts.Common,
		})
	}
}

// NewHostedConfig validates opts for the vendor-hosted API and applies defaults.
func NewHostedConfig(opts HostedOptions) (Config, error) {
	if opts.APIKey == "" {
		return Config{}, invalidConfig(VariantHosted, "api key is required")
	}

	endpoint := DefaultHostedEndpoint
	if strings.TrimSpace(opts.BaseURL) != "" {
		var err error
		if endpoint, err = normalizeEndpoint(opts.BaseURL); err != nil {
			return Config{}, invalidConfig(VariantHosted, "base url: %v", err)
		}
	}

	common, err := resolveCommon(opts.Common)
	if err != nil {
		return Config{}, invalidConfig(VariantHosted, "%v", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultHostedModel
	}

	return Config{
		Variant:      VariantHosted,
		APIKey:       opts.APIKey,
		Organization: opts.Organization,
		Model:        model,
		Endpoint:     endpoint,
		Common:       common,
	}, nil
}

// NewGatewayConfig validates opts for an enterprise gateway and applies defaults.
func NewGatewayConfig(opts GatewayOptions) (Config, error) {
	if opts.APIKey == "" {
		return Config{}, invalidConfig(VariantGateway, "api key is required")
	}
	if opts.Deployment == "" {
		return Config{}, invalidConfig(VariantGateway, "deployment name is required")
	}
	endpoint, err := normalizeEndpoint(opts.Endpoint)
	if err != nil {
		return Config{}, invalidConfig(VariantGateway, "endpoint: %v", err)
	}

	common, err := resolveCommon(opts.Common)
	if err != nil {
		return Config{}, invalidConfig(VariantGateway, "%v", err)
	}

	version := opts.APIVersion
	if version == "" {
		version = DefaultGatewayAPIVersion
	}

	return Config{
		Variant:    VariantGateway,
		APIKey:     opts.APIKey,
		Deployment: opts.Deployment,
		Endpoint:   endpoint,
		APIVersion: version,
		Common:     common,
	}, nil
}

// NewSelfHostedConfig validates opts for a self-hosted server.
func NewSelfHostedConfig(opts SelfHostedOptions) (Config, error) {
	if opts.Model == "" {
		return Config{}, invalidConfig(VariantSelfHosted, "model name is required")
	}
	endpoint, err := normalizeEndpoint(opts.Endpoint)
	if err != nil {
		return Config{}, invalidConfig(VariantSelfHosted, "endpoint: %v", err)
	}

	common, err := resolveCommon(opts.Common)
	if err != nil {
		return Config{}, invalidConfig(VariantSelfHosted, "%v", err)
	}

	return Config{
		Variant:      VariantSelfHosted,
		APIKey:       opts.APIKey,
		Organization: opts.Organization,
		Model:        opts.Model,
		Endpoint:     endpoint,
		Common:       common,
	}, nil
}

// validate re-resolves an already built Config through its variant
// constructor. Resolution is idempotent, so a Config produced by this package
// comes back unchanged, while a hand-assembled one is normalized or rejected.
func (c Config) validate() (Config, error) {
	switch c.Variant {
	case VariantHosted:
		return NewHostedConfig(HostedOptions{
			APIKey:       c.APIKey,
			Organization: c.Organization,
			Model:        c.Model,
			BaseURL:      c.Endpoint,
			Common:       c.Common,
		})
	case VariantGateway:
		return NewGatewayConfig(GatewayOptions{
			APIKey:     c.APIKey,
			Deployment: c.Deployment,
			Endpoint:   c.Endpoint,
			APIVersion: c.APIVersion,
			Common:     c.Common,
		})
	case VariantSelfHosted:
		return NewSelfHostedConfig(SelfHostedOptions{
			Model:        c.Model,
			Endpoint:     c.Endpoint,
			APIKey:       c.APIKey,
			Organization: c.Organization,
			Common:       c.Common,
		})
	default:
		return Config{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
}

func resolveCommon(in Common) (Common, error) {
	out := Common{
		LogRequests: in.LogRequests,
		Headers:     cloneHeaders(in.Headers),
		Timeout:     in.Timeout,
	}

	if in.RetryDelays == nil {
		out.RetryDelays = append([]time.Duration(nil), DefaultRetryDelays...)
	} else {
		out.RetryDelays = make([]time.Duration, 0, len(in.RetryDelays))
		for i, d := range in.RetryDelays {
			if d < 0 {
				return Common{}, fmt.Errorf("retry delay %d is negative (%s)", i, d)
			}
			out.RetryDelays = append(out.RetryDelays, d)
		}
	}

	if out.Timeout < 0 {
		return Common{}, fmt.Errorf("timeout is negative (%s)", out.Timeout)
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	return out, nil
}

// normalizeEndpoint trims whitespace and one trailing slash and requires an
// https URL with a host and no query or fragment.
func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return "", errors.New("is required")
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	if !strings.HasPrefix(strings.ToLower(endpoint), "https://") {
		return "", fmt.Errorf("%q must use https", raw)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%q is not a valid URL: %v", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%q has no host", raw)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", fmt.Errorf("%q must not carry a query or fragment", raw)
	}
	return endpoint, nil
}

func invalidConfig(v Variant, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, v, fmt.Sprintf(format, args...))
}
