// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// apiError is the JSON body of every failed request
type apiError struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Available *int   `json:"available,omitempty"`
}

var statusByError = []struct {
	err    error
	status int
	code   string
}{
	{user.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
	{user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{user.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{user.ErrPasswordMismatch, http.StatusBadRequest, "password_mismatch"},
	{user.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{cart.ErrMergeTooLarge, http.StatusBadRequest, "merge_too_large"},
	{catalog.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{catalog.ErrDuplicateSKU, http.StatusConflict, "duplicate_sku"},
	{catalog.ErrInvalidProduct, http.StatusBadRequest, "invalid_product"},
	{order.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{order.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

var statusByKind = map[ledger.Kind]int{
	ledger.KindInvalidReference:  http.StatusBadRequest,
	ledger.KindInvalidQuantity:   http.StatusBadRequest,
	ledger.KindProductNotFound:   http.StatusNotFound,
	ledger.KindItemNotFound:      http.StatusNotFound,
	ledger.KindInsufficientStock: http.StatusConflict,
	ledger.KindDuplicateEntry:    http.StatusConflict,
}

// respondError writes the status and body for err. Unknown errors are logged
// and reported as 500 without their message.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	_ = c.Error(err)

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apiError{Error: err.Error(), Code: m.code})
			return
		}
	}

	kind := ledger.KindOf(err)
	if status, ok := statusByKind[kind]; ok {
		body := apiError{Error: err.Error(), Code: string(kind)}
		var stockErr *ledger.StockError
		if errors.As(err, &stockErr) {
			available := stockErr.Remaining()
			body.Available = &available
		}
		c.JSON(status, body)
		return
	}

	logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, apiError{Error: "Internal server error", Code: string(ledger.KindInternal)})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"code":    "invalid_request",
		"details": err.Error(),
	})
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated", "code": "unauthenticated"})
		return "", false
	}
	return userID, true
}
