package handler

import (
	"net/http"
	"time"

	"paintflow-api/internal/service"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InventoryHandler serves the admin stock ledger endpoints
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler creates the inventory handler
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

type adjustRequest struct {
	WarehouseID uint   `json:"warehouse_id"`
	SKUID       uint   `json:"sku_id"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason"`
}

// Adjust applies a signed stock delta to one warehouse/SKU ledger row
func (h *InventoryHandler) Adjust(c echo.Context) error {
	log := logger.FromEcho(c)

	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.WarehouseID == 0 || req.SKUID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "warehouse_id and sku_id are required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	result, err := h.inventory.Adjust(req.WarehouseID, req.SKUID, req.Delta, req.Reason)
	if err != nil {
		log.Warn("Stock adjustment rejected",
			zap.Uint("warehouse_id", req.WarehouseID),
			zap.Uint("sku_id", req.SKUID),
			zap.Int("delta", req.Delta),
			zap.Error(err))
		prometheus.StockAdjustmentsCounter.WithLabelValues("error").Inc()
		return respondError(c, err)
	}

	prometheus.StockAdjustmentsCounter.WithLabelValues("success").Inc()
	log.Info("Stock adjusted",
		zap.Uint("warehouse_id", req.WarehouseID),
		zap.Uint("sku_id", req.SKUID),
		zap.Int("delta", req.Delta),
		zap.Int("new_stock", result.NewStock))
	return c.JSON(http.StatusOK, result)
}

// Level returns one ledger row
func (h *InventoryHandler) Level(c echo.Context) error {
	warehouseID, ok := paramUint(c, "warehouse_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse_id"})
	}
	skuID, ok := paramUint(c, "sku_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku_id"})
	}

	level, err := h.inventory.Level(warehouseID, skuID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

// WarehouseMap returns the aggregate network map view
func (h *InventoryHandler) WarehouseMap(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())

	entries, err := h.inventory.WarehouseMapData()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"warehouses": entries})
}

// WarehouseInventory returns detailed stock rows for one warehouse
func (h *InventoryHandler) WarehouseInventory(c echo.Context) error {
	warehouseID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
	}

	rows, err := h.inventory.WarehouseInventory(warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"inventory": rows})
}

// DeadStock lists excess inventory across the network
func (h *InventoryHandler) DeadStock(c echo.Context) error {
	rows, err := h.inventory.DeadStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dead_stock": rows})
}
