package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/types"
)

func newTestClient(baseURL string) *Client {
	return New(Config{BaseURL: baseURL, APIKey: "test-key"}, zap.NewNop())
}

func TestClient_Submit_Success(t *testing.T) {
	t.Parallel()

	var gotPrompt, gotVariance, gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotPrompt = r.PostFormValue("prompt")
		gotVariance = r.PostFormValue("variance")
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"download_url":"https://cdn.mehsif.ai/m/abc.glb","rate_limit":{"hourly_remaining":41,"burst_remaining":3}}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Submit(context.Background(), "a futuristic spaceship", 0.2)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "https://cdn.mehsif.ai/m/abc.glb", result.DownloadURL)
	assert.Equal(t, 41, result.RateLimit.HourlyRemaining)
	assert.Equal(t, 3, result.RateLimit.BurstRemaining)

	assert.Equal(t, "a futuristic spaceship", gotPrompt)
	assert.Equal(t, "0.2", gotVariance)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestClient_Submit_ClampsVariance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		variance float64
		expected string
	}{
		{name: "below range", variance: -0.5, expected: "0.0"},
		{name: "above range", variance: 1.7, expected: "1.0"},
		{name: "in range", variance: 0.3, expected: "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				got = r.PostFormValue("variance")
				w.Write([]byte(`{"success":true,"download_url":"u","rate_limit":{"hourly_remaining":1,"burst_remaining":1}}`))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Submit(context.Background(), "prompt", tt.variance)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_Submit_EmptyPromptMakesNoCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	for _, prompt := range []string{"", "   ", "\t\n"} {
		_, err := newTestClient(srv.URL).Submit(context.Background(), prompt, 0.2)
		require.Error(t, err)
		assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_Submit_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Submit(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	assert.Equal(t, types.ErrTransport, types.GetErrorCode(err))
	assert.False(t, types.IsRetryable(err))

	var structured *types.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, http.StatusTooManyRequests, structured.HTTPStatus)
	assert.Contains(t, structured.Message, "quota exhausted")
}

func TestClient_Submit_ServerErrorIsRetryable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Submit(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	assert.Equal(t, types.ErrTransport, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestClient_Submit_ParseError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": not-json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Submit(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	assert.Equal(t, types.ErrParse, types.GetErrorCode(err))
}

func TestClient_Submit_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestClient(srv.URL).Submit(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	assert.Equal(t, types.ErrTransport, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestClient_Download_Success(t *testing.T) {
	t.Parallel()

	payload := []byte("glTF-binary-container-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL).Download(context.Background(), srv.URL+"/m/abc.glb")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestClient_Download_ZeroLengthBodyIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL).Download(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestClient_Download_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://unused").Download(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))
}

func TestClient_Download_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, types.ErrTransport, types.GetErrorCode(err))
}

func TestClient_DefaultsApplied(t *testing.T) {
	t.Parallel()

	c := New(Config{}, nil)
	require.NotNil(t, c)
	assert.Equal(t, DefaultConfig().BaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultConfig().Timeout, c.cfg.Timeout)
	assert.Nil(t, c.limiter)

	throttled := New(Config{RequestsPerMinute: 30}, zap.NewNop())
	assert.NotNil(t, throttled.limiter)
}
