package executor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"rag-chat-be/internal/pkg/logger"
)

const (
	CreateOrder    = "create_order"
	CancelOrder    = "cancel_order"
	CollectPayment = "collect_payment"
	ViewInvoice    = "view_invoice"
)

const (
	// DegradedMessage replaces the remote answer when the action endpoint is unusable.
	DegradedMessage = "Need API Key to call, to perform the action. "
	NoActionMessage = "No action taken."
)

var suffixes = map[string]string{
	CreateOrder:    " Order created successfully.",
	CancelOrder:    " Order cancelled successfully.",
	CollectPayment: " Payment collected successfully.",
	ViewInvoice:    " Here is your invoice.",
}

// Actions lists the supported action names in classification order.
func Actions() []string {
	return []string{CreateOrder, CancelOrder, CollectPayment, ViewInvoice}
}

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// ActionExecutor calls the action endpoint and turns the outcome into a
// confirmation sentence. Remote failures never propagate.
type ActionExecutor struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	logger   logger.ILogger
}

func NewActionExecutor(cfg Config, log logger.ILogger) *ActionExecutor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ActionExecutor{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		client:   &http.Client{},
		logger:   log,
	}
}

func (e *ActionExecutor) Actions() []string {
	return Actions()
}

func (e *ActionExecutor) Execute(ctx context.Context, action string) string {
	suffix, ok := suffixes[action]
	if !ok {
		return NoActionMessage
	}
	return e.callEndpoint(ctx, action) + suffix
}

type endpointResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *ActionExecutor) callEndpoint(ctx context.Context, action string) string {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	target, err := url.Parse(e.endpoint)
	if err != nil {
		return e.degrade(action, err.Error())
	}
	q := target.Query()
	q.Set("query", e.apiKey)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return e.degrade(action, err.Error())
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return e.degrade(action, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return e.degrade(action, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return e.degrade(action, "status "+resp.Status)
	}

	var res endpointResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return e.degrade(action, "malformed response")
	}
	if res.Status != "success" {
		return e.degrade(action, "status field "+res.Status)
	}
	return res.Message
}

func (e *ActionExecutor) degrade(action, reason string) string {
	e.logger.Warn("ActionExecutor", "action endpoint unavailable", map[string]interface{}{
		"action": action,
		"reason": reason,
	})
	return DegradedMessage
}
