package it600

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// transport posts framed bodies to the gateway's /deviceid endpoints.
type transport struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

func newTransport(client *http.Client, host string, port int, timeout time.Duration) *transport {
	return &transport{
		client:  client,
		baseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
	}
}

func (t *transport) send(ctx context.Context, command string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/deviceid/%s", t.baseURL, command), bytes.NewReader(body))
	if err != nil {
		return nil, connectionError("could not build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, connectionError("gateway request timeout", err)
		}
		return nil, connectionError("error communicating with gateway", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionError("error reading gateway response", err)
	}
	return payload, nil
}

// probe issues a bare GET against the gateway. Any HTTP answer means the host is reachable.
func (t *transport) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
