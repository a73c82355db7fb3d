package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/metrics"

	"github.com/google/uuid"
)

const (
	ServiceCommon = "common"
	ServiceObject = "object"
)

var (
	ErrEmptyResult = errors.New("response carries no result")
)

// ServerFault структурная ошибка Odoo вместо результата
type ServerFault struct {
	Message string
	Debug   string
}

func (f *ServerFault) Error() string {
	if f.Message != "" {
		return "rpc fault: " + f.Message
	}
	return "rpc fault"
}

type envelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  params `json:"params"`
	ID      int    `json:"id"`
}

type params struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *responseError  `json:"error"`
}

type responseError struct {
	Message string `json:"message"`
	Data    struct {
		Debug string `json:"debug"`
	} `json:"data"`
}

type Client struct {
	log  *slog.Logger
	http *http.Client
}

// New создает транспорт JSON-RPC без повторов и backoff.
func New(log *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		log:  log,
		http: &http.Client{Timeout: timeout},
	}
}

// Call отправляет один конверт JSON-RPC на <baseURL>/jsonrpc и возвращает
// сырое поле result. Ответ без result — ErrEmptyResult.
func (c *Client) Call(ctx context.Context, baseURL, service, method string, args []any) (json.RawMessage, error) {
	const op = "rpc.Client.Call"

	log := c.log.With(
		slog.String("op", op),
		slog.String("service", service),
		slog.String("method", method),
		slog.String("call_id", uuid.NewString()),
	)

	start := time.Now()
	raw, err := c.call(ctx, baseURL, service, method, args)
	metrics.RPCCallDuration.WithLabelValues(service, method).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		log.Warn("rpc call failed", sl.Err(err))
	}
	metrics.RPCCallsTotal.WithLabelValues(service, method, outcome).Inc()

	return raw, err
}

func (c *Client) call(ctx context.Context, baseURL, service, method string, args []any) (json.RawMessage, error) {
	const op = "rpc.Client.call"

	if args == nil {
		args = []any{}
	}

	body, err := json.Marshal(envelope{
		JSONRPC: "2.0",
		Method:  "call",
		Params: params{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: rand.IntN(1001),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/jsonrpc", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if decoded.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, &ServerFault{
			Message: decoded.Error.Message,
			Debug:   decoded.Error.Data.Debug,
		})
	}

	if decoded.Result == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResult)
	}

	return decoded.Result, nil
}
