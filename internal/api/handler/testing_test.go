package handler_test

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/api"
	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// WithTestTenant はリクエストにテナントIDを設定する
func WithTestTenant(req *http.Request, tenantID string) *http.Request {
	return req.WithContext(tenant.WithTenant(req.Context(), tenantID))
}
