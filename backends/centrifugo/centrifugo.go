// Package centrifugo publishes to a Centrifugo server through its HTTP API
package centrifugo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	BackendName = "centrifugo"

	DefaultTimeout = 5 * time.Second
)

var (
	ErrMissingAPIURL   = errors.New("you must specify the --centrifugo-api-url flag")
	ErrMissingAPIKey   = errors.New("you must specify the --centrifugo-api-key flag")
	ErrUnknownResponse = errors.New("unknown response from centrifugo")
)

type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

type Centrifugo struct {
	*Config

	client     *http.Client
	authHeader string
	log        *logrus.Entry
}

// APIError is an error reported by Centrifugo in a 2xx response body
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("centrifugo error %d: %s", e.Code, e.Message)
}

type publishRequest struct {
	Method string        `json:"method"`
	Params publishParams `json:"params"`
}

type publishParams struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

func New(cfg *Config) (*Centrifugo, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	return &Centrifugo{
		Config:     cfg,
		client:     &http.Client{Timeout: cfg.Timeout},
		authHeader: "apikey " + cfg.APIKey,
		log:        logrus.WithField("backend", BackendName),
	}, nil
}

func (c *Centrifugo) Name() string {
	return BackendName
}

func (c *Centrifugo) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Publish calls the "publish" API method. Non-2xx statuses, Centrifugo errors
// and unrecognized bodies are all failures.
func (c *Centrifugo) Publish(ctx context.Context, channel string, data interface{}) error {
	body, err := json.Marshal(&publishRequest{
		Method: "publish",
		Params: publishParams{
			Channel: channel,
			Data:    data,
		},
	})
	if err != nil {
		return errors.Wrap(err, "unable to marshal publish request")
	}

	c.log.Debugf("publish request: %s", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "unable to create request")
	}

	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "unable to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	return parseResponse(respBody)
}

func parseResponse(body []byte) error {
	if !gjson.ValidBytes(body) {
		return errors.Wrap(ErrUnknownResponse, "invalid JSON")
	}

	res := gjson.ParseBytes(body)

	if apiErr := res.Get("error"); apiErr.Exists() {
		return &APIError{
			Code:    apiErr.Get("code").Int(),
			Message: apiErr.Get("message").String(),
		}
	}

	if res.Get("result").IsObject() {
		return nil
	}

	return ErrUnknownResponse
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.APIURL == "" {
		return ErrMissingAPIURL
	}

	if cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
