package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/okian/sackigami/pkg/metrics"
)

// Default X client configuration constants.
const (
	DefaultEndpoint = "https://api.twitter.com/2/tweets"

	defaultTimeout = 30 * time.Second
	errBodyLimit   = 2048
)

// Credentials are the OAuth 1.0a user-context keys of the posting account.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Validate reports missing keys.
func (c Credentials) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.APISecret == "" {
		missing = append(missing, "api_secret")
	}
	if c.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if c.AccessSecret == "" {
		missing = append(missing, "access_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCreds, strings.Join(missing, ", "))
	}
	return nil
}

// XOption applies a configuration option to X.
type XOption func(*xOptions)

type xOptions struct {
	endpoint string
	base     *http.Client
	timeout  time.Duration
}

// WithEndpoint sets the create-post endpoint.
func WithEndpoint(url string) XOption {
	return func(o *xOptions) {
		if url != "" {
			o.endpoint = url
		}
	}
}

// WithBaseClient sets the client whose transport carries the signed requests.
func WithBaseClient(c *http.Client) XOption {
	return func(o *xOptions) {
		if c != nil {
			o.base = c
		}
	}
}

// WithTimeout sets the per-post timeout.
func WithTimeout(d time.Duration) XOption {
	return func(o *xOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// X posts through the X API v2 with OAuth 1.0a user context.
type X struct {
	endpoint string
	client   *http.Client
}

// NewX creates the X poster.
func NewX(creds Credentials, opts ...XOption) (*X, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	o := xOptions{endpoint: DefaultEndpoint, base: http.DefaultClient, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, o.base)

	client := config.Client(ctx, token)
	client.Timeout = o.timeout
	return &X{endpoint: o.endpoint, client: client}, nil
}

type createRequest struct {
	Text string `json:"text"`
}

type createResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Post implements Poster.
func (x *X) Post(ctx context.Context, text string) (Response, error) {
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyPostText
	}
	start := time.Now()
	defer func() { metrics.RecordPostingLatency(time.Since(start)) }()

	payload, err := json.Marshal(createRequest{Text: text})
	if err != nil {
		return Response{}, fmt.Errorf("%w: encode: %w", ErrPosting, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrPosting, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrPosting, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return Response{}, fmt.Errorf("%w: %s (%s)", ErrPosting, resp.Status, strings.TrimSpace(string(b)))
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("%w: decode response: %w", ErrPosting, err)
	}
	return Response{ID: out.Data.ID, Text: out.Data.Text}, nil
}
