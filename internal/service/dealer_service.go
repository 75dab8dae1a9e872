package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"paintflow-api/internal/forecast"
	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recommendation urgency levels, ordered CRITICAL < RECOMMENDED < OPTIONAL
const (
	UrgencyCritical    = "CRITICAL"
	UrgencyRecommended = "RECOMMENDED"
	UrgencyOptional    = "OPTIONAL"
)

var urgencyRank = map[string]int{
	UrgencyCritical:    0,
	UrgencyRecommended: 1,
	UrgencyOptional:    2,
}

const (
	recommendationLimit   = 15
	forecastHorizonDays   = 30
	reorderScreenCover    = 30.0
	safetyMargin          = 1.2
	minRecommendedQty     = 10
	logisticsSavingsShare = 0.08
)

// DealerService computes dealer-facing reorder recommendations, health
// scores, and alerts by combining the stock ledger with the external demand
// forecast.
type DealerService struct {
	db         *gorm.DB
	clock      clock.Clock
	forecaster forecast.Forecaster
}

// NewDealerService creates the dealer intelligence service
func NewDealerService(db *gorm.DB, clk clock.Clock, forecaster forecast.Forecaster) *DealerService {
	return &DealerService{db: db, clock: clk, forecaster: forecaster}
}

// Recommendation is one smart-order suggestion
type Recommendation struct {
	SKUID                 uint    `json:"sku_id"`
	SKUCode               string  `json:"sku_code"`
	ShadeName             string  `json:"shade_name"`
	ShadeHex              string  `json:"shade_hex"`
	ShadeFamily           string  `json:"shade_family"`
	Size                  string  `json:"size"`
	CurrentStock          int     `json:"current_stock"`
	RecommendedQty        int     `json:"recommended_qty"`
	Urgency               string  `json:"urgency"`
	Reason                string  `json:"reason"`
	PredictedStockoutDate string  `json:"predicted_stockout_date"`
	SavingsAmount         float64 `json:"savings_amount"`
	MRPPerUnit            float64 `json:"mrp_per_unit"`
	TotalCost             float64 `json:"total_cost"`
}

// DealerIDForUser resolves the dealer attached to a user account
func (s *DealerService) DealerIDForUser(userID uint) (uint, error) {
	var user model.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if user.DealerID == nil {
		return 0, fmt.Errorf("%w: no dealer linked to this account", ErrNotFound)
	}
	return *user.DealerID, nil
}

// SmartOrders generates reorder recommendations for a dealer: the 15 lowest
// coverage SKUs in the dealer's warehouse, sized against a 30-day demand
// forecast with a 20% safety margin. A forecast failure degrades to zero
// predicted demand for that SKU instead of failing the whole list.
func (s *DealerService) SmartOrders(ctx context.Context, dealerID uint) ([]Recommendation, error) {
	var dealer model.Dealer
	if err := s.db.First(&dealer, dealerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Recommendation{}, nil
		}
		return nil, err
	}

	var levels []model.StockLevel
	err := s.db.
		Where("warehouse_id = ? AND days_of_cover < ?", dealer.WarehouseID, reorderScreenCover).
		Order("days_of_cover asc").
		Limit(recommendationLimit).
		Find(&levels).Error
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	recommendations := make([]Recommendation, 0, len(levels))

	for _, level := range levels {
		var sku model.SKU
		if err := s.db.Preload("Shade.Product").First(&sku, level.SKUID).Error; err != nil {
			continue
		}
		if sku.Shade == nil {
			continue
		}
		shade := sku.Shade

		predicted := s.predictedDemand(ctx, sku.ID, dealer.RegionID)

		qty := int(math.Round(predicted*safetyMargin - float64(level.CurrentStock)))
		if qty < minRecommendedQty {
			qty = minRecommendedQty
		}

		manualCost := float64(qty) * sku.MRP
		savings := math.Round(manualCost * logisticsSavingsShare)
		totalCost := math.Round(manualCost - savings)

		urgency := UrgencyOptional
		switch {
		case level.DaysOfCover < DealerReorderPolicy.CriticalBelow:
			urgency = UrgencyCritical
		case level.DaysOfCover < DealerReorderPolicy.LowBelow:
			urgency = UrgencyRecommended
		}

		stockoutDate := today.AddDate(0, 0, int(level.DaysOfCover))

		recommendations = append(recommendations, Recommendation{
			SKUID:                 sku.ID,
			SKUCode:               sku.SKUCode,
			ShadeName:             shade.ShadeName,
			ShadeHex:              shade.HexColor,
			ShadeFamily:           shade.ShadeFamily,
			Size:                  sku.Size,
			CurrentStock:          level.CurrentStock,
			RecommendedQty:        qty,
			Urgency:               urgency,
			Reason:                s.recommendationReason(shade, &level, today),
			PredictedStockoutDate: stockoutDate.Format("2006-01-02"),
			SavingsAmount:         savings,
			MRPPerUnit:            sku.MRP,
			TotalCost:             totalCost,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, rj := urgencyRank[recommendations[i].Urgency], urgencyRank[recommendations[j].Urgency]
		if ri != rj {
			return ri < rj
		}
		return recommendations[i].PredictedStockoutDate < recommendations[j].PredictedStockoutDate
	})

	return recommendations, nil
}

func (s *DealerService) predictedDemand(ctx context.Context, skuID, regionID uint) float64 {
	points, err := s.forecaster.Forecast(ctx, skuID, regionID, forecastHorizonDays)
	if err != nil {
		// Fail open: a degraded oracle must not take down recommendations.
		logger.FromContext(ctx).Warn("Forecast unavailable, assuming zero demand",
			zap.Uint("sku_id", skuID),
			zap.Error(err))
		prometheus.RecordForecastDegraded()
		return 0
	}
	return forecast.Sum(points)
}

// nextFestivalDate returns the next occurrence of the fixed yearly festival
// reference date (Oct 25) on or after today.
func nextFestivalDate(today time.Time) time.Time {
	thisYear := time.Date(today.Year(), time.October, 25, 0, 0, 0, 0, time.UTC)
	if !today.After(thisYear) {
		return thisYear
	}
	return time.Date(today.Year()+1, time.October, 25, 0, 0, 0, 0, time.UTC)
}

// recommendationReason picks the first matching business rule, in priority
// order: festival surge, wedding season, trending shade, critical depletion,
// monsoon waterproofing, generic depletion.
func (s *DealerService) recommendationReason(shade *model.Shade, level *model.StockLevel, today time.Time) string {
	daysToFestival := int(nextFestivalDate(today).Sub(today).Hours() / 24)
	if daysToFestival > 0 && daysToFestival <= 21 {
		return fmt.Sprintf("Diwali in %d days - demand expected to surge 60%%", daysToFestival)
	}

	if shade.ShadeName == "Bridal Red" {
		return "Wedding season peak - 'Bridal Red' trending +40% in your region"
	}

	if shade.IsTrending {
		return fmt.Sprintf("'%s' is trending - 40%% increase in customer searches", shade.ShadeName)
	}

	if level.DaysOfCover < DealerReorderPolicy.CriticalBelow {
		return fmt.Sprintf("CRITICAL: Stock will last only %.0f days at current sell-through", level.DaysOfCover)
	}

	month := today.Month()
	if month >= time.June && month <= time.September &&
		shade.Product != nil && shade.Product.Category == model.CategoryWaterproofing {
		return "Peak monsoon season - waterproofing demand at annual high"
	}

	return fmt.Sprintf("Stock will last %.0f days - restock recommended before depletion", level.DaysOfCover)
}

// Dashboard summarizes a dealer's position
type Dashboard struct {
	Dealer                   DashboardDealer `json:"dealer"`
	HealthScore              float64         `json:"health_score"`
	TotalOrders              int64           `json:"total_orders"`
	TotalOrdersMTD           int64           `json:"total_orders_mtd"`
	AIRecommendationsPending int64           `json:"ai_recommendations_pending"`
	RevenueThisMonth         float64         `json:"revenue_this_month"`
	TotalAISavings           float64         `json:"total_ai_savings"`
	FulfillmentRate          float64         `json:"fulfillment_rate"`
	AvgDeliveryTimeDays      float64         `json:"avg_delivery_time_days"`
	PerformanceScore         float64         `json:"performance_score"`
}

// DashboardDealer is the dealer identity block on the dashboard
type DashboardDealer struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
	Tier  string `json:"tier"`
}

// GetDashboard builds the dealer dashboard
func (s *DealerService) GetDashboard(dealerID uint) (*Dashboard, error) {
	var dealer model.Dealer
	if err := s.db.First(&dealer, dealerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dealer", ErrNotFound)
		}
		return nil, err
	}

	today := s.clock.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var totalOrders, totalOrdersMTD, delivered, pendingRecs int64
	s.db.Model(&model.DealerOrder{}).Where("dealer_id = ?", dealerID).Count(&totalOrders)
	s.db.Model(&model.DealerOrder{}).
		Where("dealer_id = ? AND order_date >= ?", dealerID, monthStart).
		Count(&totalOrdersMTD)
	s.db.Model(&model.DealerOrder{}).
		Where("dealer_id = ? AND status = ?", dealerID, model.OrderDelivered).
		Count(&delivered)
	s.db.Model(&model.StockLevel{}).
		Where("warehouse_id = ? AND days_of_cover < ?", dealer.WarehouseID, DealerReorderPolicy.LowBelow).
		Count(&pendingRecs)

	var revenue float64
	s.db.Model(&model.DealerOrder{}).
		Select("COALESCE(SUM(dealer_orders.quantity * skus.mrp), 0)").
		Joins("JOIN skus ON skus.id = dealer_orders.sku_id").
		Where("dealer_orders.dealer_id = ? AND dealer_orders.status = ? AND dealer_orders.order_date >= ?",
			dealerID, model.OrderDelivered, monthStart).
		Scan(&revenue)

	var totalSavings float64
	s.db.Model(&model.DealerOrder{}).
		Select("COALESCE(SUM(savings_amount), 0)").
		Where("dealer_id = ? AND is_ai_suggested = ?", dealerID, true).
		Scan(&totalSavings)

	fulfillmentRate := round1(float64(delivered) / math.Max(float64(totalOrders), 1) * 100)

	var deliveredMTD []model.DealerOrder
	s.db.Where("dealer_id = ? AND status = ? AND order_date >= ?",
		dealerID, model.OrderDelivered, monthStart).
		Find(&deliveredMTD)
	var avgDeliveryDays float64
	if len(deliveredMTD) > 0 {
		now := s.clock.Now()
		var daySum float64
		for _, order := range deliveredMTD {
			daySum += math.Floor(now.Sub(order.OrderDate).Hours() / 24)
		}
		avgDeliveryDays = round1(daySum / float64(len(deliveredMTD)))
	}

	return &Dashboard{
		Dealer: DashboardDealer{
			ID:    dealer.ID,
			Name:  dealer.Name,
			City:  dealer.City,
			State: dealer.State,
			Tier:  dealer.Tier,
		},
		HealthScore:              s.healthScore(&dealer),
		TotalOrders:              totalOrders,
		TotalOrdersMTD:           totalOrdersMTD,
		AIRecommendationsPending: pendingRecs,
		RevenueThisMonth:         math.Round(revenue),
		TotalAISavings:           math.Round(totalSavings),
		FulfillmentRate:          fulfillmentRate,
		AvgDeliveryTimeDays:      avgDeliveryDays,
		PerformanceScore:         dealer.PerformanceScore,
	}, nil
}

// healthScore computes the 0-100 dealer health score:
// 40% stock coverage, 25% stockout frequency, 20% order fulfillment,
// 15% product breadth. A warehouse with no inventory rows at all scores a
// neutral 50.0 to avoid division noise on empty data.
func (s *DealerService) healthScore(dealer *model.Dealer) float64 {
	var levels []model.StockLevel
	if err := s.db.Where("warehouse_id = ?", dealer.WarehouseID).Find(&levels).Error; err != nil {
		return 50.0
	}
	if len(levels) == 0 {
		return 50.0
	}

	var coverSum float64
	var stockoutCount int
	for _, l := range levels {
		coverSum += l.DaysOfCover
		if l.DaysOfCover < DealerReorderPolicy.CriticalBelow {
			stockoutCount++
		}
	}
	avgCover := coverSum / float64(len(levels))
	coverageScore := math.Min(100, avgCover/30*100)
	stockoutScore := math.Max(0, 100-float64(stockoutCount)*15)

	var total, delivered int64
	s.db.Model(&model.DealerOrder{}).Where("dealer_id = ?", dealer.ID).Count(&total)
	s.db.Model(&model.DealerOrder{}).
		Where("dealer_id = ? AND status = ?", dealer.ID, model.OrderDelivered).
		Count(&delivered)
	fulfillmentScore := float64(delivered) / math.Max(float64(total), 1) * 100

	var uniqueSKUs int64
	s.db.Model(&model.DealerOrder{}).
		Where("dealer_id = ?", dealer.ID).
		Distinct("sku_id").
		Count(&uniqueSKUs)
	breadthScore := math.Min(100, float64(uniqueSKUs)/20*100)

	return round1(0.4*coverageScore + 0.25*stockoutScore + 0.2*fulfillmentScore + 0.15*breadthScore)
}

// HealthScore exposes the health score for a dealer id
func (s *DealerService) HealthScore(dealerID uint) (float64, error) {
	var dealer model.Dealer
	if err := s.db.First(&dealer, dealerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: dealer", ErrNotFound)
		}
		return 0, err
	}
	return s.healthScore(&dealer), nil
}

// StockoutAlert is one low-cover warning for the dealer's warehouse
type StockoutAlert struct {
	ShadeName     string  `json:"shade_name"`
	ShadeHex      string  `json:"shade_hex"`
	DaysRemaining float64 `json:"days_remaining"`
	CurrentStock  int     `json:"current_stock"`
}

// TrendingShade is a shade currently trending with customers
type TrendingShade struct {
	ShadeName string `json:"shade_name"`
	ShadeHex  string `json:"shade_hex"`
}

// Alerts bundles the dealer alert feed
type Alerts struct {
	StockoutAlerts        []StockoutAlert `json:"stockout_alerts"`
	Trending              []TrendingShade `json:"trending"`
	TransferNotifications []TransferRow   `json:"transfer_notifications"`
}

// GetAlerts returns stockout alerts (AlertPolicy: cover below 7 days),
// trending shades, and pending transfer notifications for a dealer
func (s *DealerService) GetAlerts(dealerID uint) (*Alerts, error) {
	alerts := &Alerts{
		StockoutAlerts:        []StockoutAlert{},
		Trending:              []TrendingShade{},
		TransferNotifications: []TransferRow{},
	}

	var dealer model.Dealer
	if err := s.db.First(&dealer, dealerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return alerts, nil
		}
		return nil, err
	}

	var levels []model.StockLevel
	err := s.db.
		Where("warehouse_id = ? AND days_of_cover < ?", dealer.WarehouseID, AlertPolicy.LowBelow).
		Order("days_of_cover asc").
		Find(&levels).Error
	if err != nil {
		return nil, err
	}

	for _, level := range levels {
		if len(alerts.StockoutAlerts) >= 5 {
			break
		}
		var sku model.SKU
		if err := s.db.Preload("Shade").First(&sku, level.SKUID).Error; err != nil || sku.Shade == nil {
			continue
		}
		alerts.StockoutAlerts = append(alerts.StockoutAlerts, StockoutAlert{
			ShadeName:     sku.Shade.ShadeName,
			ShadeHex:      sku.Shade.HexColor,
			DaysRemaining: round1(level.DaysOfCover),
			CurrentStock:  level.CurrentStock,
		})
	}

	var trending []model.Shade
	if err := s.db.Where("is_trending = ?", true).Limit(5).Find(&trending).Error; err == nil {
		for _, shade := range trending {
			alerts.Trending = append(alerts.Trending, TrendingShade{
				ShadeName: shade.ShadeName,
				ShadeHex:  shade.HexColor,
			})
		}
	}

	return alerts, nil
}

// BundleResult is the outcome of a bundle acceptance
type BundleResult struct {
	OrdersPlaced int     `json:"orders_placed"`
	TotalSavings float64 `json:"total_savings"`
	Message      string  `json:"message"`
}

// AcceptBundle places an order for every CRITICAL or RECOMMENDED suggestion
// in one transaction. All-or-nothing: a single insert failure rolls back the
// whole bundle, so partial acceptance is never observable.
func (s *DealerService) AcceptBundle(ctx context.Context, dealerID uint) (*BundleResult, error) {
	recommendations, err := s.SmartOrders(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	var placed int
	var totalSavings float64
	now := s.clock.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range recommendations {
			if rec.Urgency != UrgencyCritical && rec.Urgency != UrgencyRecommended {
				continue
			}
			order := model.DealerOrder{
				DealerID:      dealerID,
				SKUID:         rec.SKUID,
				Quantity:      rec.RecommendedQty,
				OrderDate:     now,
				Status:        model.OrderPlaced,
				IsAISuggested: true,
				OrderSource:   model.OrderSourceAI,
				SavingsAmount: rec.SavingsAmount,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			placed++
			totalSavings += rec.SavingsAmount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BundleResult{
		OrdersPlaced: placed,
		TotalSavings: math.Round(totalSavings),
		Message:      fmt.Sprintf("Bundle accepted! %d orders placed. You saved ₹%.0f!", placed, totalSavings),
	}, nil
}
