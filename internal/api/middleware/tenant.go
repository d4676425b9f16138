package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

// TenantHeader はテナントIDを受け取るHTTPヘッダー名
const TenantHeader = "X-Tenant-ID"

// TenantContext はリクエストヘッダーのテナントIDをコンテキストに載せる
// ヘッダーが無いリクエストは 400 で拒否する
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := c.Request().Header.Get(TenantHeader)
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "テナントIDヘッダーは必須です")
			}
			ctx := tenant.WithTenant(c.Request().Context(), tenantID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
