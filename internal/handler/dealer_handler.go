package handler

import (
	"net/http"

	"paintflow-api/internal/middleware"
	"paintflow-api/internal/service"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DealerHandler serves the dealer-facing dashboard, recommendation, and order
// endpoints. Every route resolves the dealer from the authenticated user, so
// a dealer can only ever see their own data.
type DealerHandler struct {
	dealers *service.DealerService
	orders  *service.OrderService
}

// NewDealerHandler creates the dealer handler
func NewDealerHandler(dealers *service.DealerService, orders *service.OrderService) *DealerHandler {
	return &DealerHandler{dealers: dealers, orders: orders}
}

func (h *DealerHandler) dealerID(c echo.Context) (uint, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return 0, service.ErrNotFound
	}
	return h.dealers.DealerIDForUser(userID)
}

// Dashboard returns the dealer's summary metrics
func (h *DealerHandler) Dashboard(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	dashboard, err := h.dealers.GetDashboard(dealerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// SmartOrders returns AI reorder recommendations for the dealer
func (h *DealerHandler) SmartOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	recommendations, err := h.dealers.SmartOrders(c.Request().Context(), dealerID)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecommendationsServedCounter.Inc()
	log.Info("Smart orders served",
		zap.Uint("dealer_id", dealerID),
		zap.Int("count", len(recommendations)))
	return c.JSON(http.StatusOK, echo.Map{"recommendations": recommendations})
}

// Alerts returns the dealer's stockout and trending alerts
func (h *DealerHandler) Alerts(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	alerts, err := h.dealers.GetAlerts(dealerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

// HealthScore returns the dealer's inventory health score
func (h *DealerHandler) HealthScore(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	score, err := h.dealers.HealthScore(dealerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"health_score": score})
}

// AcceptBundle places orders for every critical and recommended suggestion
func (h *DealerHandler) AcceptBundle(c echo.Context) error {
	log := logger.FromEcho(c)

	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.dealers.AcceptBundle(c.Request().Context(), dealerID)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.BundleOrdersCounter.Inc()
	log.Info("Bundle accepted",
		zap.Uint("dealer_id", dealerID),
		zap.Int("orders_placed", result.OrdersPlaced))
	return c.JSON(http.StatusOK, result)
}

type placeOrderRequest struct {
	SKUID    uint `json:"sku_id"`
	Quantity int  `json:"quantity"`
}

// PlaceOrder records a manual order for the dealer
func (h *DealerHandler) PlaceOrder(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SKUID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku_id is required"})
	}

	result, err := h.orders.Place(dealerID, req.SKUID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// SearchOrders lists the dealer's orders with optional status filter
func (h *DealerHandler) SearchOrders(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.orders.Search(dealerID,
		c.QueryParam("status"),
		queryInt(c, "page", 1),
		queryInt(c, "per_page", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// OrderDetail returns one of the dealer's orders
func (h *DealerHandler) OrderDetail(c echo.Context) error {
	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	orderID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	detail, err := h.orders.Detail(orderID, dealerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves one of the dealer's orders through its lifecycle
func (h *DealerHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	dealerID, err := h.dealerID(c)
	if err != nil {
		return respondError(c, err)
	}

	orderID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	result, err := h.orders.UpdateStatus(orderID, dealerID, req.Status)
	if err != nil {
		log.Warn("Order status update rejected",
			zap.Uint("order_id", orderID),
			zap.String("status", req.Status),
			zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Order status updated",
		zap.Uint("order_id", orderID),
		zap.String("old_status", result.OldStatus),
		zap.String("new_status", result.NewStatus))
	return c.JSON(http.StatusOK, result)
}
