package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/config"
)

func testConfig(chatURL string) *config.AIConfig {
	return &config.AIConfig{
		APIKey:           "test-key",
		BaseURL:          chatURL,
		RealtimeURL:      chatURL,
		Models:           config.AIModels{Analysis: "m"},
		ChatTimeoutMS:    2000,
		SessionTimeoutMS: 2000,
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	content, err := client.Complete(context.Background(), ChatRequest{
		Model:    "m",
		Messages: []map[string]string{{"role": "user", "content": "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}

func TestCompleteUpstreamStatusForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindUpstreamStatus, appErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)
	assert.NotNil(t, appErr.Details, "upstream body must be forwarded")
}

func TestCompleteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamMalformed))
	assert.Equal(t, http.StatusBadGateway, apperr.From(err).Status)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamMalformed))
}

func TestCompleteTransportError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamTransport))
	assert.Equal(t, http.StatusBadGateway, apperr.From(err).Status)
}

func TestCompleteTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	cfg := testConfig(srv.URL)
	cfg.ChatTimeoutMS = 50
	client := NewClient(cfg, zap.NewNop())

	_, err := client.Complete(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, apperr.From(err).Status)
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"sess_1","model":"rt","client_secret":{"value":"cs_abc"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	session, err := client.CreateSession(context.Background(), map[string]interface{}{"model": "rt"})
	require.NoError(t, err)
	assert.Equal(t, "sess_1", session["id"])
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here you go: ```json\n{\"a\":1}\n```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}
