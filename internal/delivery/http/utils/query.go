package utils

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// ReadQuery привязывает параметры запроса (path, query, тело) к структуре v
func ReadQuery(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return fmt.Errorf("ошибка привязки параметров запроса: %w", err)
	}
	return nil
}
