package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name   string
	result Result
	delay  time.Duration
	calls  int
	last   Request
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, req Request) Result {
	f.calls++
	f.last = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return failure(FailureTransport, ctx.Err())
		}
	}
	return f.result
}

func TestAskWithoutProviders(t *testing.T) {
	g := NewGatewayWithProviders(Config{Preferred: "openai"})

	ans := g.Ask(context.Background(), "¿qué me recomiendas?", "ctx", 100)
	assert.Equal(t, ReplyNoProvider, ans.Text)
	assert.Equal(t, FailureNoProvider, ans.Failure)
	assert.False(t, g.Configured())
}

func TestAskUsesPreferredProvider(t *testing.T) {
	openai := &fakeProvider{name: "openai", result: success("desde openai")}
	grok := &fakeProvider{name: "grok", result: success("desde grok")}
	g := NewGatewayWithProviders(Config{Preferred: "grok", Temperature: 0.7}, openai, grok)

	ans := g.Ask(context.Background(), "hola?", "Productos: 3", 200)
	assert.Equal(t, "desde grok", ans.Text)
	assert.Equal(t, "grok", ans.Provider)
	assert.Zero(t, openai.calls)
	assert.Equal(t, 200, grok.last.MaxTokens)
	assert.Equal(t, 0.7, grok.last.Temperature)
	assert.Contains(t, grok.last.System, "Eres PapelBot")
	assert.Contains(t, grok.last.System, "Productos: 3")
}

func TestAskFallsBackToFixedOrderWhenPreferredMissing(t *testing.T) {
	anthropic := &fakeProvider{name: "anthropic", result: success("claude")}
	grok := &fakeProvider{name: "grok", result: success("grok")}
	g := NewGatewayWithProviders(Config{Preferred: "openai"}, anthropic, grok)

	ans := g.Ask(context.Background(), "q", "", 0)
	assert.Equal(t, "grok", ans.Provider)
	assert.Equal(t, 400, grok.last.MaxTokens)
}

func TestAskFailureDoesNotFallThroughByDefault(t *testing.T) {
	openai := &fakeProvider{name: "openai", result: failure(FailureTransport, errors.New("503"))}
	grok := &fakeProvider{name: "grok", result: success("grok")}
	g := NewGatewayWithProviders(Config{Preferred: "openai"}, openai, grok)

	ans := g.Ask(context.Background(), "q", "", 0)
	assert.Equal(t, ReplyTechnical, ans.Text)
	assert.Equal(t, FailureTransport, ans.Failure)
	assert.Zero(t, grok.calls)
}

func TestAskFallthroughTriesNextProvider(t *testing.T) {
	openai := &fakeProvider{name: "openai", result: failure(FailureMalformed, errors.New("bad json"))}
	grok := &fakeProvider{name: "grok", result: success("grok al rescate")}
	g := NewGatewayWithProviders(Config{Preferred: "openai", Fallthrough: true}, openai, grok)

	ans := g.Ask(context.Background(), "q", "", 0)
	assert.Equal(t, "grok al rescate", ans.Text)
	assert.Equal(t, 1, openai.calls)
}

func TestAskTimeoutIsTransportFailure(t *testing.T) {
	slow := &fakeProvider{name: "openai", result: success("tarde"), delay: time.Second}
	g := NewGatewayWithProviders(Config{Preferred: "openai", Timeout: 20 * time.Millisecond}, slow)

	start := time.Now()
	ans := g.Ask(context.Background(), "q", "", 0)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, ReplyTechnical, ans.Text)
	assert.Equal(t, FailureTransport, ans.Failure)
}

func TestAskTreatsBlankTextAsMalformed(t *testing.T) {
	blank := &fakeProvider{name: "openai", result: success("   ")}
	g := NewGatewayWithProviders(Config{Preferred: "openai"}, blank)

	ans := g.Ask(context.Background(), "q", "", 0)
	assert.Equal(t, ReplyTechnical, ans.Text)
	assert.Equal(t, FailureMalformed, ans.Failure)
}

func TestAvailable(t *testing.T) {
	g := NewGateway(Config{Preferred: "anthropic", Anthropic: ProviderConfig{APIKey: "k"}}, nil)

	status := g.Available()
	require.Len(t, status, 3)
	assert.Equal(t, ProviderStatus{Name: "openai"}, status[0])
	assert.Equal(t, ProviderStatus{Name: "anthropic", Configured: true, Preferred: true}, status[2])
}

func TestChatCompletionsProvider(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Sí, tenemos cuadernos 📓  "}}]}`))
	}))
	defer srv.Close()

	p := NewChatCompletions("grok", "sk-test", "grok-beta", srv.URL, srv.Client())
	res := p.Complete(context.Background(), Request{System: "sys", Question: "q", MaxTokens: 50, Temperature: 0.7})

	require.True(t, res.OK(), res.Err)
	assert.Equal(t, "Sí, tenemos cuadernos 📓", res.Text)
	assert.Equal(t, "grok-beta", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, 50, got.MaxTokens)
}

func TestChatCompletionsFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		kind   FailureKind
	}{
		"server error": {status: 500, body: `{"error":"down"}`, kind: FailureTransport},
		"unauthorized": {status: 401, body: `{"error":"bad key"}`, kind: FailureTransport},
		"not json":     {status: 200, body: `<html>`, kind: FailureMalformed},
		"no choices":   {status: 200, body: `{"choices":[]}`, kind: FailureMalformed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			res := NewChatCompletions("openai", "k", "m", srv.URL, srv.Client()).Complete(context.Background(), Request{})
			assert.Equal(t, tc.kind, res.Failure)
			assert.Error(t, res.Err)
		})
	}
}

func TestChatCompletionsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewChatCompletions("openai", "k", "m", url, nil).Complete(context.Background(), Request{})
	assert.Equal(t, FailureTransport, res.Failure)
}

func TestAnthropicProvider(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hola desde Claude"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic("ak", "claude-3-haiku-20240307", srv.URL, srv.Client())
	res := p.Complete(context.Background(), Request{System: "persona", Question: "q"})

	require.True(t, res.OK(), res.Err)
	assert.Equal(t, "Hola desde Claude", res.Text)
	assert.Equal(t, "persona", got.System)
	assert.Equal(t, 400, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	res := NewAnthropic("ak", "m", srv.URL, srv.Client()).Complete(context.Background(), Request{})
	assert.Equal(t, FailureMalformed, res.Failure)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt("")
	assert.True(t, strings.HasPrefix(p, "Eres PapelBot"))
	assert.Contains(t, p, "sin datos de inventario")
}
