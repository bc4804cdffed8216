package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// Probe asks a local server listening on listenAddress for its health. It
// succeeds iff the server answers /health with a 2xx status.
func Probe(ctx context.Context, listenAddress string) error {
	_, port, err := net.SplitHostPort(listenAddress)
	if err != nil {
		return errors.Wrap(err, "unable to parse listen address")
	}

	url := fmt.Sprintf("http://%s/health", net.JoinHostPort("127.0.0.1", port))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "unable to create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request error")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "error getting response body")
	}

	return fmt.Errorf("unhealthy (status %d): %s", resp.StatusCode, body)
}
