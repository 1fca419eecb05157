package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/webship/pkg/controller/http"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/domain/types"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(
		context.Background(),
		&mockWebhookUseCase{},
		controller.WithAddr("localhost:0"),
	)
	gt.NoError(t, err)

	t.Run("reports service and version", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, controller.HealthPath, nil))

		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/json")

		var status model.HealthStatus
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		gt.Equal(t, status, model.HealthStatus{
			Status:  "healthy",
			Service: "webship",
			Version: types.Version,
		})
	})

	t.Run("rejects other methods", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, controller.HealthPath, nil))
		gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
	})
}

func TestNewServer_EmptyAddr(t *testing.T) {
	_, err := controller.NewServer(context.Background(), &mockWebhookUseCase{}, controller.WithAddr(""))
	gt.Error(t, err)
}

func TestNewServer_WithoutSecret(t *testing.T) {
	ctx, capture := ctxlog.NewCapture(context.Background())
	server, err := controller.NewServer(ctx, &mockWebhookUseCase{}, controller.WithAddr("localhost:0"))
	gt.NoError(t, err)

	gt.A(t, capture.Messages()).Has("No webhook secret configured, webhook endpoint disabled")

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, controller.WebhookPath, nil))
	gt.Equal(t, w.Code, http.StatusNotFound)
}
