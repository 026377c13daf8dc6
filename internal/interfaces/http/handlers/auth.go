// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
)

// HeaderIdempotencyKey identifies a guest merge batch across retries
const HeaderIdempotencyKey = "Idempotency-Key"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users     *user.Service
	carts     *cart.Service
	wishlists *wishlist.Service
	logger    logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service, carts *cart.Service, wishlists *wishlist.Service, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{users: users, carts: carts, wishlists: wishlists, logger: logger}
}

// LoginResponse is the login result plus the outcome of folding in guest items
type LoginResponse struct {
	*user.AuthResponse
	CartMerge     *ledger.MergeReport `json:"cart_merge,omitempty"`
	WishlistMerge *ledger.MergeReport `json:"wishlist_merge,omitempty"`
	MergeErrors   []string            `json:"merge_errors,omitempty"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    response,
	})
}

// Login authenticates the user and merges the guest cart and wishlist sent with
// the credentials. A failed merge does not fail the login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	response, err := h.users.Login(ctx, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := LoginResponse{AuthResponse: response}
	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	log := h.logger.WithField("user_id", response.User.ID)

	if len(req.GuestCart) > 0 {
		res, err := h.carts.Merge(ctx, response.User.ID, req.GuestCart, key)
		if err != nil {
			log.WithError(err).Warn("guest cart merge failed at login")
			out.MergeErrors = append(out.MergeErrors, "cart: "+err.Error())
		} else {
			out.CartMerge = &res.Report
		}
	}
	if len(req.GuestWishlist) > 0 {
		res, err := h.wishlists.Merge(ctx, response.User.ID, req.GuestWishlist, key)
		if err != nil {
			log.WithError(err).Warn("guest wishlist merge failed at login")
			out.MergeErrors = append(out.MergeErrors, "wishlist: "+err.Error())
		} else {
			out.WishlistMerge = &res.Report
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    out,
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    response,
	})
}

// GetProfile gets current user profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}
