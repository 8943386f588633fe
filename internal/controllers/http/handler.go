package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const ordersCacheTTL = 10 * time.Second

type Handler struct {
	cart     *services.CartService
	checkout *services.CheckoutService
	orders   *services.OrderService
	fees     *services.FeeCalculator
	settings *services.StoreSettings
	identity infra.IdentityClientInterface
	rdb      *redis.Client

	quoteTrackers quoteTrackerRegistry
}

func NewHandler(
	cart *services.CartService,
	checkout *services.CheckoutService,
	orders *services.OrderService,
	fees *services.FeeCalculator,
	settings *services.StoreSettings,
	identity infra.IdentityClientInterface,
	rdb *redis.Client,
) *Handler {
	return &Handler{
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		fees:     fees,
		settings: settings,
		identity: identity,
		rdb:      rdb,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/store/config", h.GetStoreConfig)

	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:id", h.SetCartItemQuantity)
	r.DELETE("/cart/items/:id", h.RemoveCartItem)
	r.DELETE("/cart", h.ClearCart)

	r.POST("/checkout/quote", h.QuoteFee)
	r.POST("/checkout", h.SubmitCheckout)

	r.GET("/orders", h.ListOwnOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/confirm-payment", h.ConfirmPayment)

	r.GET("/admin/orders", h.AdminListOrders)
	r.PATCH("/admin/orders/:id/status", h.AdminUpdateStatus)
	r.PUT("/admin/store/config", h.AdminUpdateStoreConfig)
}

// sessionID identifies the browsing session that owns the cart; the
// client generates it once and sends it on every request.
func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-Id")
}

// sessionAccount resolves the bearer token to an account, or nil for
// guests. Identity-service hiccups degrade to guest rather than failing
// the request.
func (h *Handler) sessionAccount(c *gin.Context) *domain.Account {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		return nil
	}

	acc, err := h.identity.GetSession(c.Request.Context(), token)
	if err != nil {
		log.Printf("http: session lookup failed: %v", err)
		return nil
	}
	return acc
}

func (h *Handler) GetStoreConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get())
}

func (h *Handler) GetCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}
	c.JSON(http.StatusOK, h.cart.Get(c.Request.Context(), sid))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.cart.Add(c.Request.Context(), sid, req.ProductID, req.Quantity, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrProductUnavailable), errors.Is(err, services.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not look up product"})
		}
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := h.cart.SetQuantity(c.Request.Context(), sid, c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}
	c.JSON(http.StatusOK, h.cart.Remove(c.Request.Context(), sid, c.Param("id")))
}

func (h *Handler) ClearCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}
	h.cart.Clear(c.Request.Context(), sid)
	c.Status(http.StatusNoContent)
}

// QuoteFee recomputes the fee for the current address snapshot. Results
// are applied through a per-session tracker so a slow geocode for an old
// address cannot overwrite the quote for a newer one.
func (h *Handler) QuoteFee(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tracker := h.quoteTrackers.get(sid, time.Now())

	snapshot := string(req.DeliveryMethod) + "|" + req.Address.Line()
	token := tracker.Begin(snapshot)

	quote := h.fees.ComputeFee(c.Request.Context(), h.settings.Get(), req.DeliveryMethod, req.Address)
	tracker.Apply(token, quote)

	c.JSON(http.StatusOK, tracker.Current())
}

func (h *Handler) SubmitCheckout(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-Id required"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := h.sessionAccount(c)

	// The fee is quoted server-side inside the submission pipeline; the
	// client's displayed quote is advisory only.
	result, err := h.checkout.Submit(c.Request.Context(), sid, account, h.settings.Get(), req.toDraft())
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	h.invalidateOwnOrders(result.Order.OwnerAccountID)

	c.JSON(http.StatusCreated, CheckoutResponse{
		Order:       result.Order,
		RedirectURL: result.RedirectURL,
	})
}

func (h *Handler) writeCheckoutError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var fErr *services.FeeBlockedError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
	case errors.As(err, &fErr):
		c.JSON(http.StatusConflict, gin.H{"error": fErr.Error(), "reason": fErr.Reason})
	case errors.Is(err, services.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCartEmpty), errors.Is(err, services.ErrNoFulfillmentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPaymentIntent),
		errors.Is(err, services.ErrIdentityUnavailable),
		errors.Is(err, services.ErrOrderPersist):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) ListOwnOrders(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	cacheKey := "orders:account:" + account.ID
	ctx := context.Background()
	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if orders, ok := decodeCachedOrders([]byte(b)); ok {
				c.JSON(http.StatusOK, orders)
				return
			}
		}
	}

	orders, err := h.orders.ListOwnOrders(c.Request.Context(), account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(ctx, cacheKey, data, ordersCacheTTL)
		}
	}
	c.JSON(http.StatusOK, orders)
}

// decodeCachedOrders rejects a corrupt cache blob so the read falls
// through to the repository instead of serving a broken payload.
func decodeCachedOrders(b []byte) ([]domain.Order, bool) {
	var orders []domain.Order
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, false
	}
	return orders, true
}

func (h *Handler) invalidateOwnOrders(accountID string) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), "orders:account:"+accountID)
	}
}

func (h *Handler) GetOrder(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), account.ID, id)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.ConfirmPayment(c.Request.Context(), account.ID, id)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	h.invalidateOwnOrders(order.OwnerAccountID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	filter := repository.OrderFilter{
		OwnerAccountID: c.Query("account"),
		Status:         domain.OrderStatus(c.Query("status")),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), account.ID, filter)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), account.ID, id, req.Status)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	h.invalidateOwnOrders(order.OwnerAccountID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminUpdateStoreConfig(c *gin.Context) {
	account := h.sessionAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	if err := h.orders.RequireAdmin(account.ID); err != nil {
		h.writeOrderError(c, err)
		return
	}

	var cfg domain.StoreConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.settings.Update(cfg)
	c.JSON(http.StatusOK, h.settings.Get())
}

func (h *Handler) writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrNotAwaiting):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
