package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// fixed order used when the preferred provider is missing
var providerOrder = []string{"openai", "grok", "anthropic"}

type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Config struct {
	Preferred   string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Fallthrough bool // try the remaining providers after a failure
	OpenAI      ProviderConfig
	Grok        ProviderConfig
	Anthropic   ProviderConfig
}

// Answer is what the gateway hands back. Text is never empty.
type Answer struct {
	Text     string      `json:"text"`
	Provider string      `json:"provider,omitempty"`
	Failure  FailureKind `json:"-"`
}

type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Preferred  bool   `json:"preferred"`
}

type Gateway struct {
	providers   map[string]Provider
	preferred   string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	fallThrough bool
}

// NewGateway builds one provider per configured credential. A missing
// key disables that provider without failing.
func NewGateway(cfg Config, client *http.Client) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	var providers []Provider
	if cfg.OpenAI.APIKey != "" {
		providers = append(providers, NewChatCompletions("openai", cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, client))
	}
	if cfg.Grok.APIKey != "" {
		providers = append(providers, NewChatCompletions("grok", cfg.Grok.APIKey, cfg.Grok.Model, cfg.Grok.BaseURL, client))
	}
	if cfg.Anthropic.APIKey != "" {
		providers = append(providers, NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL, client))
	}
	return NewGatewayWithProviders(cfg, providers...)
}

// NewGatewayWithProviders wires explicit providers, keyed by Name().
func NewGatewayWithProviders(cfg Config, providers ...Provider) *Gateway {
	g := &Gateway{
		providers:   make(map[string]Provider, len(providers)),
		preferred:   strings.ToLower(strings.TrimSpace(cfg.Preferred)),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		fallThrough: cfg.Fallthrough,
	}
	if g.maxTokens <= 0 {
		g.maxTokens = 400
	}
	if g.timeout <= 0 {
		g.timeout = 8 * time.Second
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

// candidates lists providers to try: the preferred one if configured,
// otherwise the first configured in fixed order. With fallthrough the
// rest follow.
func (g *Gateway) candidates() []Provider {
	var out []Provider
	if p, ok := g.providers[g.preferred]; ok {
		out = append(out, p)
	}
	for _, name := range providerOrder {
		if name == g.preferred {
			continue
		}
		if p, ok := g.providers[name]; ok {
			out = append(out, p)
		}
	}
	if !g.fallThrough && len(out) > 1 {
		out = out[:1]
	}
	return out
}

// Ask never fails; every failure becomes a canned reply and a log line.
func (g *Gateway) Ask(ctx context.Context, question, storeContext string, maxTokens int) Answer {
	candidates := g.candidates()
	if len(candidates) == 0 {
		log.Warn().Msg("No AI provider configured")
		return Answer{Text: ReplyNoProvider, Failure: FailureNoProvider}
	}
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	req := Request{
		System:      SystemPrompt(storeContext),
		Question:    question,
		MaxTokens:   maxTokens,
		Temperature: g.temperature,
	}

	last := FailureTransport
	for _, p := range candidates {
		res := g.call(ctx, p, req)
		if res.OK() {
			return Answer{Text: res.Text, Provider: p.Name()}
		}
		last = res.Failure
		log.Error().Err(res.Err).
			Str("provider", p.Name()).
			Str("failure", res.Failure.String()).
			Msg("AI provider call failed")
	}
	return Answer{Text: ReplyTechnical, Failure: last}
}

func (g *Gateway) call(ctx context.Context, p Provider, req Request) (res Result) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("provider", p.Name()).Msg("AI provider panicked")
			res = failure(FailureMalformed, nil)
		}
	}()

	res = p.Complete(ctx, req)
	if res.OK() && strings.TrimSpace(res.Text) == "" {
		res = failure(FailureMalformed, nil)
	}
	return res
}

// Available reports every known provider and whether it has credentials.
func (g *Gateway) Available() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(providerOrder))
	for _, name := range providerOrder {
		_, ok := g.providers[name]
		out = append(out, ProviderStatus{Name: name, Configured: ok, Preferred: name == g.preferred})
	}
	return out
}

// Configured reports whether at least one provider can be called.
func (g *Gateway) Configured() bool {
	return len(g.providers) > 0
}
