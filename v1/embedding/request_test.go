package embedding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, opts Options) Config {
	t.Helper()
	cfg, err := Resolve(opts)
	require.NoError(t, err)
	return cfg
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "hosted default",
			opts: Options{APIKey: "sk"},
			want: "https://api.openai.com/v1/embeddings",
		},
		{
			name: "hosted custom base",
			opts: Options{APIKey: "sk", BaseURL: "https://proxy.example.com/"},
			want: "https://proxy.example.com/v1/embeddings",
		},
		{
			name: "gateway",
			opts: Options{GatewayAPIKey: "k", GatewayEndpoint: "https://gw.example.com/", Deployment: "emb large", APIVersion: "2024-02-01"},
			want: "https://gw.example.com/openai/deployments/emb%20large/embeddings?api-version=2024-02-01",
		},
		{
			name: "self-hosted",
			opts: Options{SelfHostedModel: "bge", SelfHostedEndpoint: "https://self.example.com"},
			want: "https://self.example.com/v1/embeddings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(mustResolve(t, tt.opts)))
		})
	}
}

func TestBuildRequestBody(t *testing.T) {
	t.Run("single text is a string", func(t *testing.T) {
		cfg := mustResolve(t, Options{APIKey: "sk"})
		_, body, err := buildRequest(cfg, Text("hello"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"input":"hello","model":"text-embedding-ada-002"}`, string(body))
	})

	t.Run("batch is an array", func(t *testing.T) {
		cfg := mustResolve(t, Options{SelfHostedModel: "bge", SelfHostedEndpoint: "https://self.example.com"})
		_, body, err := buildRequest(cfg, Texts("a", "b"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"input":["a","b"],"model":"bge"}`, string(body))
	})

	t.Run("one element batch stays an array", func(t *testing.T) {
		cfg := mustResolve(t, Options{APIKey: "sk"})
		_, body, err := buildRequest(cfg, Texts("a"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"input":["a"],"model":"text-embedding-ada-002"}`, string(body))
	})

	t.Run("gateway model is the deployment", func(t *testing.T) {
		cfg := mustResolve(t, Options{GatewayAPIKey: "k", GatewayEndpoint: "https://gw.example.com", Deployment: "emb"})
		target, body, err := buildRequest(cfg, Text("x"))
		require.NoError(t, err)
		assert.Equal(t, "https://gw.example.com/openai/deployments/emb/embeddings?api-version=2023-05-15", target)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "emb", decoded["model"])
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		cfg := mustResolve(t, Options{APIKey: "sk"})
		_, _, err := buildRequest(cfg, Texts())
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestInputValuesAreCopies(t *testing.T) {
	src := []string{"a", "b"}
	in := Texts(src...)
	src[0] = "changed"

	values := in.Values()
	values[1] = "changed"

	assert.Equal(t, []string{"a", "b"}, in.Values())
	assert.Equal(t, 2, in.Len())
	assert.Equal(t, 1, Text("x").Len())
}
