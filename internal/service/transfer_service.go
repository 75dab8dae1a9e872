package service

import (
	"errors"
	"fmt"

	"paintflow-api/internal/model"
	"paintflow-api/internal/notify"
	"paintflow-api/pkg/clock"

	"gorm.io/gorm"
)

// TransferService owns the transfer state machine:
//
//	PENDING -> APPROVED | IN_TRANSIT -> COMPLETED
//	PENDING -> REJECTED
//
// Stock moves at approval time, not completion. That trades physical-transit
// accuracy for dashboards that are consistent the moment an admin clicks
// approve, and it means Complete never touches the ledger.
type TransferService struct {
	db       *gorm.DB
	clock    clock.Clock
	notifier notify.Notifier
}

// NewTransferService creates the transfer manager
func NewTransferService(db *gorm.DB, clk clock.Clock, notifier notify.Notifier) *TransferService {
	return &TransferService{db: db, clock: clk, notifier: notifier}
}

// CreateResult is the outcome of creating a transfer
type CreateResult struct {
	TransferID uint   `json:"transfer_id"`
	Message    string `json:"message"`
}

// Create records a new PENDING transfer. No stock is moved yet.
func (s *TransferService) Create(fromWarehouseID, toWarehouseID, skuID uint, quantity int, reason string) (*CreateResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: transfer quantity must be positive", ErrInvalidQuantity)
	}

	transfer := model.Transfer{
		FromWarehouseID: fromWarehouseID,
		ToWarehouseID:   toWarehouseID,
		SKUID:           skuID,
		Quantity:        quantity,
		Status:          model.TransferPending,
		Reason:          reason,
		RecommendedAt:   s.clock.Now(),
	}
	if err := s.db.Create(&transfer).Error; err != nil {
		return nil, err
	}

	return &CreateResult{TransferID: transfer.ID, Message: "Transfer created"}, nil
}

// ApproveResult is the outcome of approving a transfer
type ApproveResult struct {
	TransferID uint   `json:"transfer_id"`
	Message    string `json:"message"`
}

// Approve moves the stock and flips the transfer to IN_TRANSIT in one
// transaction. The source row is read under a row lock so two concurrent
// approvals against the same (warehouse, sku) cannot both pass the
// insufficient-stock check. Either both ledger rows and the status change
// commit, or none do.
func (s *TransferService) Approve(transferID uint) (*ApproveResult, error) {
	var transfer model.Transfer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transfer", ErrNotFound)
			}
			return err
		}
		if transfer.Status != model.TransferPending && transfer.Status != model.TransferApproved {
			return fmt.Errorf("%w: transfer cannot be approved from status '%s'", ErrInvalidState, transfer.Status)
		}
		if transfer.Quantity <= 0 {
			return fmt.Errorf("%w: transfer quantity must be positive", ErrInvalidQuantity)
		}

		var fromLevel model.StockLevel
		err := forUpdate(tx).
			Where("warehouse_id = ? AND sku_id = ?", transfer.FromWarehouseID, transfer.SKUID).
			First(&fromLevel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: source warehouse inventory record", ErrNotFound)
		}
		if err != nil {
			return err
		}
		if fromLevel.CurrentStock < transfer.Quantity {
			return fmt.Errorf("%w: %d available in source warehouse", ErrInsufficientStock, fromLevel.CurrentStock)
		}

		now := s.clock.Now()
		qtyPer30 := float64(transfer.Quantity) / 30
		if qtyPer30 < 1 {
			qtyPer30 = 1
		}

		fromLevel.CurrentStock -= transfer.Quantity
		fromLevel.DaysOfCover = round1(float64(fromLevel.CurrentStock) / qtyPer30)
		fromLevel.LastUpdated = now

		// Both legs of a self-transfer land on the same ledger row, so the
		// net movement is zero and only the cover estimate changes.
		if transfer.FromWarehouseID == transfer.ToWarehouseID {
			fromLevel.CurrentStock += transfer.Quantity
			fromLevel.DaysOfCover = round1(float64(fromLevel.CurrentStock) / qtyPer30)
			transfer.Status = model.TransferInTransit
			if err := tx.Save(&fromLevel).Error; err != nil {
				return err
			}
			return tx.Save(&transfer).Error
		}

		var toLevel model.StockLevel
		err = forUpdate(tx).
			Where("warehouse_id = ? AND sku_id = ?", transfer.ToWarehouseID, transfer.SKUID).
			First(&toLevel).Error
		toMissing := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !toMissing {
			return err
		}

		if toMissing {
			reorderPoint := fromLevel.ReorderPoint
			if reorderPoint < 1 {
				reorderPoint = 1
			}
			maxCapacity := fromLevel.MaxCapacity
			if maxCapacity < transfer.Quantity*2 {
				maxCapacity = transfer.Quantity * 2
			}
			toLevel = model.StockLevel{
				WarehouseID:  transfer.ToWarehouseID,
				SKUID:        transfer.SKUID,
				CurrentStock: 0,
				ReorderPoint: reorderPoint,
				MaxCapacity:  maxCapacity,
				DaysOfCover:  0,
				LastUpdated:  now,
			}
		}

		toLevel.CurrentStock += transfer.Quantity
		toLevel.DaysOfCover = round1(float64(toLevel.CurrentStock) / qtyPer30)
		toLevel.LastUpdated = now

		transfer.Status = model.TransferInTransit

		if err := tx.Save(&fromLevel).Error; err != nil {
			return err
		}
		if err := tx.Save(&toLevel).Error; err != nil {
			return err
		}
		return tx.Save(&transfer).Error
	})
	if err != nil {
		return nil, err
	}

	shadeName, fromCity, toCity := s.transferContext(&transfer)
	s.notifyTransferApproved(&transfer, shadeName, fromCity, toCity)

	return &ApproveResult{
		TransferID: transfer.ID,
		Message: fmt.Sprintf("Transfer approved. %d units of %s moving from %s to %s. ETA: 2 days.",
			transfer.Quantity, shadeName, fromCity, toCity),
	}, nil
}

// Complete marks an approved or in-transit transfer as received. The stock
// already moved at approval.
func (s *TransferService) Complete(transferID uint) error {
	return s.transition(transferID, model.TransferCompleted,
		model.TransferApproved, model.TransferInTransit)
}

// Reject rejects a pending transfer
func (s *TransferService) Reject(transferID uint) error {
	return s.transition(transferID, model.TransferRejected, model.TransferPending)
}

func (s *TransferService) transition(transferID uint, target string, allowed ...string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var transfer model.Transfer
		if err := forUpdate(tx).First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transfer", ErrNotFound)
			}
			return err
		}

		ok := false
		for _, status := range allowed {
			if transfer.Status == status {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: cannot move transfer from '%s' to '%s'", ErrInvalidState, transfer.Status, target)
		}

		transfer.Status = target
		return tx.Save(&transfer).Error
	})
}

// TransferRow is one transfer with resolved warehouse and SKU detail
type TransferRow struct {
	ID            uint              `json:"id"`
	FromWarehouse *TransferEndpoint `json:"from_warehouse"`
	ToWarehouse   *TransferEndpoint `json:"to_warehouse"`
	SKUCode       string            `json:"sku_code"`
	ShadeName     string            `json:"shade_name"`
	ShadeHex      string            `json:"shade_hex"`
	Quantity      int               `json:"quantity"`
	Status        string            `json:"status"`
	Reason        string            `json:"reason"`
	RecommendedAt string            `json:"recommended_at"`
}

// TransferEndpoint describes a warehouse on either end of a transfer
type TransferEndpoint struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	City  string  `json:"city"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Recommended lists every transfer that is not yet terminal
func (s *TransferService) Recommended() ([]TransferRow, error) {
	var transfers []model.Transfer
	err := s.db.
		Where("status IN ?", []string{model.TransferPending, model.TransferApproved, model.TransferInTransit}).
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}

	result := make([]TransferRow, 0, len(transfers))
	for _, t := range transfers {
		row := TransferRow{
			ID:            t.ID,
			Quantity:      t.Quantity,
			Status:        t.Status,
			Reason:        t.Reason,
			RecommendedAt: t.RecommendedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		row.FromWarehouse = s.endpoint(t.FromWarehouseID)
		row.ToWarehouse = s.endpoint(t.ToWarehouseID)

		var sku model.SKU
		if err := s.db.Preload("Shade").First(&sku, t.SKUID).Error; err == nil {
			row.SKUCode = sku.SKUCode
			if sku.Shade != nil {
				row.ShadeName = sku.Shade.ShadeName
				row.ShadeHex = sku.Shade.HexColor
			}
		}
		result = append(result, row)
	}

	return result, nil
}

func (s *TransferService) endpoint(warehouseID uint) *TransferEndpoint {
	var wh model.Warehouse
	if err := s.db.First(&wh, warehouseID).Error; err != nil {
		return nil
	}
	return &TransferEndpoint{
		ID:    wh.ID,
		Name:  wh.Name,
		City:  wh.City,
		State: wh.State,
		Lat:   wh.Latitude,
		Lng:   wh.Longitude,
	}
}

func (s *TransferService) transferContext(transfer *model.Transfer) (shadeName, fromCity, toCity string) {
	shadeName = "product"
	fromCity = "source warehouse"
	toCity = "destination warehouse"

	var sku model.SKU
	if err := s.db.Preload("Shade").First(&sku, transfer.SKUID).Error; err == nil && sku.Shade != nil {
		shadeName = sku.Shade.ShadeName
	}
	var fromWh model.Warehouse
	if err := s.db.First(&fromWh, transfer.FromWarehouseID).Error; err == nil {
		fromCity = fromWh.City
	}
	var toWh model.Warehouse
	if err := s.db.First(&toWh, transfer.ToWarehouseID).Error; err == nil {
		toCity = toWh.City
	}
	return shadeName, fromCity, toCity
}

// notifyTransferApproved fans out to active admins and to dealer users
// attached to either warehouse. Best effort: runs outside the approval
// transaction and never fails it.
func (s *TransferService) notifyTransferApproved(transfer *model.Transfer, shadeName, fromCity, toCity string) {
	if s.notifier == nil {
		return
	}

	var userIDs []uint
	s.db.Model(&model.User{}).
		Where("role = ? AND is_active = ?", model.RoleAdmin, true).
		Pluck("id", &userIDs)

	var dealerIDs []uint
	s.db.Model(&model.Dealer{}).
		Where("warehouse_id IN ?", []uint{transfer.FromWarehouseID, transfer.ToWarehouseID}).
		Pluck("id", &dealerIDs)
	if len(dealerIDs) > 0 {
		var dealerUserIDs []uint
		s.db.Model(&model.User{}).
			Where("role = ? AND dealer_id IN ? AND is_active = ?", model.RoleDealer, dealerIDs, true).
			Pluck("id", &dealerUserIDs)
		userIDs = append(userIDs, dealerUserIDs...)
	}

	s.notifier.Notify(userIDs,
		"Transfer Approved",
		fmt.Sprintf("%d units of %s moving from %s to %s.", transfer.Quantity, shadeName, fromCity, toCity),
		"success",
		"transfer",
		"/admin/transfers",
	)
}
