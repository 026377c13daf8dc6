// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlists *wishlist.Service
	logger    logrus.FieldLogger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists *wishlist.Service, logger logrus.FieldLogger) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, logger: logger}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, "Wishlist retrieved successfully")(h.wishlists.Get(c.Request.Context(), userID))
}

// AddToWishlist handles POST /wishlist/add
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req wishlist.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, "Item added to wishlist successfully")(h.wishlists.Add(c.Request.Context(), userID, &req))
}

// ToggleWishlist handles POST /wishlist/toggle
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req wishlist.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.wishlists.Toggle(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist toggled successfully",
		"data":    result,
	})
}

// RemoveFromWishlist handles DELETE /wishlist/item/:ref
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, "Item removed from wishlist successfully")(h.wishlists.Remove(c.Request.Context(), userID, c.Param("ref")))
}

// ClearWishlist handles DELETE /wishlist/all
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, "Wishlist cleared successfully")(h.wishlists.Clear(c.Request.Context(), userID))
}

// MergeWishlist handles POST /wishlist/merge
func (h *WishlistHandler) MergeWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req wishlist.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.wishlists.Merge(c.Request.Context(), userID, req.Items, strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Guest wishlist merged successfully",
		"data":    result,
	})
}

// CheckWishlist handles GET /wishlist/check/:ref
func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.wishlists.Check(c.Request.Context(), userID, c.Param("ref"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status retrieved successfully",
		"data":    result,
	})
}

// MoveToCart handles POST /wishlist/move-to-cart/:ref. The body is optional.
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req wishlist.MoveToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	result, err := h.wishlists.MoveToCart(c.Request.Context(), userID, c.Param("ref"), req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Item moved to cart successfully",
		"data":    result,
	})
}

func (h *WishlistHandler) respond(c *gin.Context, status int, message string) func(*wishlist.View, error) {
	return func(view *wishlist.View, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(status, gin.H{
			"message": message,
			"data":    view,
		})
	}
}
