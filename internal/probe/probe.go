// Package probe performs the single end-to-end check of an API key against
// the Anthropic Messages API and classifies its outcome.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	Model     = "claude-sonnet-4-20250514"
	MaxTokens = 100
	Prompt    = "Hello, please respond with 'API test successful!'"
)

// Outcome tags a Result.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeAuthFailure  Outcome = "auth_failure"
	OutcomeOtherFailure Outcome = "other_failure"
)

// Result is one of Success(Text), AuthFailure(Detail) or
// OtherFailure(Kind, Detail). Build it with the constructors below.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Text    string  `json:"text,omitempty"`
	Kind    string  `json:"kind,omitempty"`
	Detail  string  `json:"detail,omitempty"`
}

func Success(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

func AuthFailure(detail string) Result {
	return Result{Outcome: OutcomeAuthFailure, Kind: KindAuthentication, Detail: detail}
}

func OtherFailure(kind, detail string) Result {
	return Result{Outcome: OutcomeOtherFailure, Kind: kind, Detail: detail}
}

// Prober runs one probe with the given key. Implementations never return
// an error; every failure is a Result.
type Prober interface {
	Probe(ctx context.Context, key string) Result
}

// AnthropicProber probes through the official SDK. A fresh client is built
// per call. The SDK's ambient auth token header is stripped so the key under
// test is the only credential sent.
type AnthropicProber struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*AnthropicProber)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(p *AnthropicProber) {
		p.baseURL = u
	}
}

// WithHTTPClient sets the transport. By default the SDK's client is used.
func WithHTTPClient(c *http.Client) Option {
	return func(p *AnthropicProber) {
		p.httpClient = c
	}
}

func NewAnthropicProber(opts ...Option) *AnthropicProber {
	p := &AnthropicProber{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AnthropicProber) Probe(ctx context.Context, key string) Result {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		// NewClient reads ANTHROPIC_AUTH_TOKEN into a bearer header.
		option.WithHeaderDel("authorization"),
		// One outbound call per trigger.
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(p.httpClient))
	}

	client := anthropic.NewClient(reqOpts...)
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(Model),
		MaxTokens: MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt)),
		},
	})
	if err != nil {
		return Classify(err)
	}
	if len(msg.Content) == 0 {
		return OtherFailure(KindEmptyContent, "response contained no content blocks")
	}
	return Success(msg.Content[0].Text)
}

// Safe runs p.Probe and turns a panic into an OtherFailure. It also
// reports how long the call took.
func Safe(ctx context.Context, p Prober, key string) (res Result, took time.Duration) {
	start := time.Now()
	defer func() {
		took = time.Since(start)
		if r := recover(); r != nil {
			res = OtherFailure(KindPanic, fmt.Sprint(r))
		}
	}()
	return p.Probe(ctx, key), 0
}

// Classify maps an error from the Messages API to a Result. Only a 401
// counts as an authentication failure.
func Classify(err error) Result {
	if err == nil {
		return OtherFailure(KindUnknown, "nil error")
	}
	kind := ErrorKind(err)
	if kind == KindAuthentication {
		return AuthFailure(err.Error())
	}
	return OtherFailure(kind, err.Error())
}

// StatusCode returns the HTTP status carried by an API error, or 0.
func StatusCode(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
