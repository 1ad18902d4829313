package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rag-chat-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newExecutor(endpoint string) *ActionExecutor {
	return NewActionExecutor(Config{Endpoint: endpoint, APIKey: "secret", Timeout: time.Second}, logger.NewNopLogger())
}

func TestExecute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"status":"success","message":"Order #17 accepted."}`))
	}))
	defer srv.Close()

	tests := []struct {
		action string
		want   string
	}{
		{CreateOrder, "Order #17 accepted. Order created successfully."},
		{CancelOrder, "Order #17 accepted. Order cancelled successfully."},
		{CollectPayment, "Order #17 accepted. Payment collected successfully."},
		{ViewInvoice, "Order #17 accepted. Here is your invoice."},
	}

	e := newExecutor(srv.URL)
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Execute(context.Background(), tt.action))
		})
	}
}

func TestExecute_Degraded(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"not json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) }},
		{"failure status", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","message":"invalid key"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := newExecutor(srv.URL).Execute(context.Background(), CreateOrder)
			assert.Equal(t, DegradedMessage+" Order created successfully.", got)
		})
	}
}

func TestExecute_DegradedKeepsSeparatorSpace(t *testing.T) {
	got := newExecutor("http://127.0.0.1:1/api").Execute(context.Background(), CreateOrder)

	assert.Equal(t, "Need API Key to call, to perform the action.  Order created successfully.", got)
}

func TestExecute_UnreachableEndpoint(t *testing.T) {
	got := newExecutor("http://127.0.0.1:1/api").Execute(context.Background(), ViewInvoice)

	assert.True(t, strings.HasPrefix(got, DegradedMessage))
	assert.True(t, strings.HasSuffix(got, "Here is your invoice."))
}

func TestExecute_UnknownAction(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	assert.Equal(t, NoActionMessage, newExecutor(srv.URL).Execute(context.Background(), "refund_order"))
	assert.False(t, called)
}

func TestActions_Order(t *testing.T) {
	assert.Equal(t, []string{"create_order", "cancel_order", "collect_payment", "view_invoice"}, Actions())
}
