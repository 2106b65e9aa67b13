// Package client talks to the REST backend. One Client serves every collection endpoint:
// it attaches the bearer token, maps failures onto core's error taxonomy and normalizes
// the response envelopes into records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var nowFunc = time.Now // mockable

type (
	Client struct {
		baseURL string
		http    *http.Client
		tokens  TokenSource
		logger  core.Logger
	}

	Option func(*Client)
)

// WithHTTPClient replaces the default http.Client (which has no timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a Client for the API rooted at baseURL (the API_URL setting).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  StaticToken(""),
		logger:  core.NopLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// List fetches a collection.
func (c *Client) List(ctx context.Context, endpoint string, query map[string]string) ([]core.Record, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, err
	}
	recs, _, err := NormalizeList(body)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", endpoint)
	}
	return recs, nil
}

// Create posts a new record and returns the server's canonical version of it.
func (c *Client) Create(ctx context.Context, endpoint string, body core.Record) (core.Record, error) {
	resp, err := c.do(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return nil, err
	}
	rec, _, err := NormalizeOne(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", endpoint)
	}
	return rec, nil
}

// Update puts a patch to `endpoint/id` and returns the updated record.
func (c *Client) Update(ctx context.Context, endpoint, id string, body core.Record) (core.Record, error) {
	path := itemPath(endpoint, id)
	resp, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return nil, err
	}
	rec, _, err := NormalizeOne(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "PUT %s", path)
	}
	return rec, nil
}

// Remove deletes `endpoint/id`. The response body is ignored.
func (c *Client) Remove(ctx context.Context, endpoint, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(endpoint, id), nil, nil)
	return err
}

// Post calls an action endpoint. An empty response body yields an empty record.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (core.Record, error) {
	resp, err := c.do(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp)) == 0 {
		return core.Record{}, nil
	}
	rec, _, err := NormalizeOne(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", endpoint)
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, query map[string]string, body interface{}) ([]byte, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if qs := EncodeQuery(query); qs != "" {
		u += "?" + qs
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, &core.NetworkError{Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &core.HTTPError{Status: res.StatusCode, Message: errorMessage(data, res.StatusCode)}
	}
	return data, nil
}

// bearer never fails the request: without a token the backend answers 401.
func (c *Client) bearer() string {
	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Warn("reading session token", err)
		return ""
	}
	if token == "" {
		return ""
	}
	if exp, ok := TokenExpiry(token); ok && nowFunc().After(exp) {
		c.logger.Warn("session token expired", map[string]interface{}{"expiredAt": exp})
	}
	return token
}

func itemPath(endpoint, id string) string {
	return strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(id)
}

func errorMessage(body []byte, status int) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg := serverMessage(obj); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}
