package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/logging"
)

// TransactionResponse is the envelope every mutation endpoint answers with.
type TransactionResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
}

func transaction(c echo.Context, code int, detail string) error {
	return c.JSON(code, TransactionResponse{
		StatusCode:  code,
		Transaction: detail,
	})
}

// publish sends a domain event best-effort: a broker outage is logged and
// never fails the request.
func publish(c echo.Context, p events.Publisher, topic string, key any, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "err", err)
	}
}
