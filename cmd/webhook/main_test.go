package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
)

func TestWebhookSecretToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var handled int
	router := newRouter("s3cret", "test", func(context.Context, tgbotapi.Update) {
		handled++
	})

	body := `{"update_id":1,"message":{"message_id":1,"text":"/help","from":{"id":7},"chat":{"id":7}}}`

	tests := []struct {
		name       string
		secret     string
		wantStatus int
		wantCalls  int
	}{
		{"valid secret", "s3cret", http.StatusOK, 1},
		{"wrong secret", "nope", http.StatusForbidden, 0},
		{"missing secret", "", http.StatusForbidden, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handled = 0
			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			if tc.secret != "" {
				req.Header.Set("X-Telegram-Bot-Api-Secret-Token", tc.secret)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if handled != tc.wantCalls {
				t.Errorf("handler calls = %d, want %d", handled, tc.wantCalls)
			}
		})
	}
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRouter("s3cret", "test", func(context.Context, tgbotapi.Update) {
		t.Fatal("handler should not run for malformed body")
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRouter("s3cret", "v42", func(context.Context, tgbotapi.Update) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "v42") {
		t.Errorf("body missing version: %s", w.Body.String())
	}
}
