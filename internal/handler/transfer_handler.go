package handler

import (
	"net/http"

	"paintflow-api/internal/service"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TransferHandler serves the admin inter-warehouse transfer endpoints
type TransferHandler struct {
	transfers *service.TransferService
}

// NewTransferHandler creates the transfer handler
func NewTransferHandler(transfers *service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type createTransferRequest struct {
	FromWarehouseID uint   `json:"from_warehouse_id"`
	ToWarehouseID   uint   `json:"to_warehouse_id"`
	SKUID           uint   `json:"sku_id"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
}

// Create records a new pending transfer
func (h *TransferHandler) Create(c echo.Context) error {
	var req createTransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.FromWarehouseID == 0 || req.ToWarehouseID == 0 || req.SKUID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from_warehouse_id, to_warehouse_id and sku_id are required"})
	}

	result, err := h.transfers.Create(req.FromWarehouseID, req.ToWarehouseID, req.SKUID, req.Quantity, req.Reason)
	if err != nil {
		prometheus.RecordTransferOperation("create", "error")
		return respondError(c, err)
	}

	prometheus.RecordTransferOperation("create", "success")
	return c.JSON(http.StatusCreated, result)
}

// List returns every transfer that is not yet terminal
func (h *TransferHandler) List(c echo.Context) error {
	rows, err := h.transfers.Recommended()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transfers": rows})
}

// Approve moves the stock and marks the transfer in transit
func (h *TransferHandler) Approve(c echo.Context) error {
	log := logger.FromEcho(c)

	transferID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transfer id"})
	}

	result, err := h.transfers.Approve(transferID)
	if err != nil {
		log.Warn("Transfer approval rejected", zap.Uint("transfer_id", transferID), zap.Error(err))
		prometheus.RecordTransferOperation("approve", "error")
		return respondError(c, err)
	}

	prometheus.RecordTransferOperation("approve", "success")
	log.Info("Transfer approved", zap.Uint("transfer_id", transferID))
	return c.JSON(http.StatusOK, result)
}

// Complete marks an in-transit transfer as received
func (h *TransferHandler) Complete(c echo.Context) error {
	transferID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transfer id"})
	}

	if err := h.transfers.Complete(transferID); err != nil {
		prometheus.RecordTransferOperation("complete", "error")
		return respondError(c, err)
	}

	prometheus.RecordTransferOperation("complete", "success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Transfer completed"})
}

// Reject rejects a pending transfer
func (h *TransferHandler) Reject(c echo.Context) error {
	transferID, ok := paramUint(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transfer id"})
	}

	if err := h.transfers.Reject(transferID); err != nil {
		prometheus.RecordTransferOperation("reject", "error")
		return respondError(c, err)
	}

	prometheus.RecordTransferOperation("reject", "success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Transfer rejected"})
}
