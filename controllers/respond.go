package controllers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "storefront/common/errors"
	"storefront/common/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses. Business and
// not-found errors carry their own status; anything unexpected is
// logged and surfaced as a generic 500 so storage error text never
// reaches the client.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	var oos *apperrors.OutOfStockError
	if errors.As(err, &oos) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock for product: " + oos.Product})
		return
	}

	var declined *apperrors.PaymentDeclinedError
	if errors.As(err, &declined) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          declined.Reason,
			"order_id":       declined.OrderID,
			"transaction_id": declined.TransactionID,
		})
		return
	}

	logger.Error(c, "unexpected error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// pageParams reads page/limit query parameters with sane defaults.
func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func intQuery(c *gin.Context, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
