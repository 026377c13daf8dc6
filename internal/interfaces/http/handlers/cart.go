// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts  *cart.Service
	logger logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, "Cart retrieved successfully")(h.carts.Get(c.Request.Context(), userID))
}

// GetCount handles GET /cart/count
func (h *CartHandler) GetCount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.carts.Count(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    count,
	})
}

// AddToCart handles POST /cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req cart.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.respond(c, "Item added to cart successfully")(h.carts.Add(c.Request.Context(), userID, &req))
}

// UpdateCartItem handles PUT /cart/item/:ref. The reference may be a product
// reference or an entry id.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.respond(c, "Cart item updated successfully")(h.carts.SetQuantity(c.Request.Context(), userID, c.Param("ref"), *req.Quantity))
}

// RemoveFromCart handles DELETE /cart/item/:ref
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, "Item removed from cart successfully")(h.carts.Remove(c.Request.Context(), userID, c.Param("ref")))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, "Cart cleared successfully")(h.carts.Clear(c.Request.Context(), userID))
}

// MergeCart handles POST /cart/merge. Retries carrying the same Idempotency-Key
// are applied once.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req cart.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.carts.Merge(c.Request.Context(), userID, req.Items, strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Guest cart merged successfully",
		"data":    result,
	})
}

// ValidateCart handles POST /cart/validate
func (h *CartHandler) ValidateCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.carts.Validate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart validated",
		"data":    result,
	})
}

func (h *CartHandler) respond(c *gin.Context, message string) func(*cart.View, error) {
	return func(view *cart.View, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": message,
			"data":    view,
		})
	}
}
