package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"openrate/core"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	headerKeyRequestID = "X-Request-Id"
	headerKeyCaller    = "X-Caller-ID"
)

// Error api error response
type Error struct {
	Status int    `json:"-"`
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %d %s", e.Status, e.Code, e.Msg)
}

// Unwrap ledger error code of the response, nil for transport level errors
func (e *Error) Unwrap() error {
	code := core.ErrorCode(e.Code)
	if code.String() == code.Code() {
		return nil
	}

	return code
}

// Client openrate api client
type Client struct {
	rest *resty.Client
}

// New new api client, caller is sent as the authenticated identity
func New(endpoint, caller string) *Client {
	rest := resty.New().
		SetHostURL(strings.TrimSuffix(endpoint, "/")+"/api").
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(10 * time.Second)

	if caller != "" {
		rest.SetHeader(headerKeyCaller, caller)
	}

	return &Client{rest: rest}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.rest.R().SetContext(ctx)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		r.SetHeader(headerKeyRequestID, id)
	}

	return r
}

type requestIDKey struct{}

// WithRequestID context carrying the request id sent with every call
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func (c *Client) execute(ctx context.Context, method, url string, query map[string]string, body, resp interface{}) error {
	request := c.request(ctx)
	if len(query) > 0 {
		request.SetQueryParams(query)
	}

	if body != nil {
		request.SetBody(body)
	}

	r, err := request.Execute(method, url)
	if err != nil {
		return err
	}

	logrus.Debugf("%s %s: %s", method, url, r.Status())
	return parseResponse(r, resp)
}

func parseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		e := &Error{Status: r.StatusCode()}
		if err := json.Unmarshal(r.Body(), e); err != nil || e.Code == 0 {
			e.Code, e.Msg = r.StatusCode(), string(r.Body())
		}

		return e
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}

func (c *Client) get(ctx context.Context, url string, query map[string]string, resp interface{}) error {
	return c.execute(ctx, http.MethodGet, url, query, nil, resp)
}

func (c *Client) post(ctx context.Context, url string, body, resp interface{}) error {
	return c.execute(ctx, http.MethodPost, url, nil, body, resp)
}
