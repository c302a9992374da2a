package service

import (
	"context"
	"fmt"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
)

// SeedService наполняет хранилище демонстрационными данными для
// локальной разработки и демо-стендов. Повторный запуск ничего не
// делает, если кампании уже есть.
type SeedService struct {
	auth      *AuthService
	campaigns *CampaignService
	bids      *BidService
	orders    *OrderService
}

// NewSeedService создаёт сервис демо-данных.
func NewSeedService(auth *AuthService, campaigns *CampaignService, bids *BidService, orders *OrderService) *SeedService {
	return &SeedService{auth: auth, campaigns: campaigns, bids: bids, orders: orders}
}

// SeedDemoData создаёт демо-аккаунты, кампании со ставками и заказы
// на снабжение. Возвращает первую ошибку создания кампании; ошибки
// второстепенных сущностей только логируются.
func (s *SeedService) SeedDemoData(ctx context.Context) error {
	existing, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("seed service: list campaigns: %w", err)
	}
	if len(existing) > 0 {
		logger.Log.Info("Seed: данные уже существуют, пропускаем")
		return nil
	}

	farmer, buyer := s.seedUsers(ctx)

	campaigns := []CreateCampaignInput{
		{
			Title:            "Organic Sona Masuri Paddy - Kharif Harvest",
			Crop:             "Paddy",
			CropType:         "Sona Masuri",
			Location:         "Mandya, Karnataka",
			Duration:         "120 days",
			EstimatedYield:   "45 quintals",
			MinimumQuotation: "₹2200 per quintal",
			Notes:            "Grown without chemical pesticides, canal irrigated",
			Status:           models.CampaignStatusActive,
			UserType:         models.UserTypeFarmer,
			UserID:           farmer,
		},
		{
			Title:            "Ragi for Flour Mill - Bulk Purchase",
			Crop:             "Ragi",
			CropType:         "GPU-28",
			Location:         "Tumakuru, Karnataka",
			Duration:         "90 days",
			EstimatedYield:   "200 quintals",
			MinimumQuotation: "₹3800 per quintal",
			Notes:            "Looking for multiple farmers, assured procurement",
			Status:           models.CampaignStatusActive,
			UserType:         models.UserTypeBuyer,
			UserID:           buyer,
		},
		{
			Title:          "Red Chilli - Byadgi Variety",
			Crop:           "Chilli",
			CropType:       "Byadgi",
			Location:       "Haveri, Karnataka",
			Duration:       "150 days",
			EstimatedYield: "12 quintals",
			Status:         models.CampaignStatusUpcoming,
			UserType:       models.UserTypeFarmer,
			UserID:         farmer,
		},
	}

	created := make([]*models.Campaign, 0, len(campaigns))
	for _, input := range campaigns {
		campaign, err := s.campaigns.CreateCampaign(ctx, input)
		if err != nil {
			return fmt.Errorf("seed service: create campaign %q: %w", input.Title, err)
		}
		created = append(created, campaign)
	}

	s.seedBids(ctx, created, buyer)
	s.seedOrders(ctx)

	logger.Log.Infof("Seed: создано %d демо-кампаний", len(created))
	return nil
}

// seedUsers регистрирует демо-аккаунты фермера и покупателя. Возвращает
// их идентификаторы; при ошибке регистрации идентификатор остаётся пустым.
func (s *SeedService) seedUsers(ctx context.Context) (farmerID, buyerID string) {
	accounts := []RegisterInput{
		{
			Name:              "Ravi Kumar",
			Email:             "ravi.farmer@agrimitra.demo",
			Phone:             "+919876543210",
			Password:          "Demo@1234",
			UserType:          models.UserTypeFarmer,
			Location:          "Mandya, Karnataka",
			PreferredLanguage: models.LanguageKannada,
		},
		{
			Name:              "Shalini Traders",
			Email:             "shalini.buyer@agrimitra.demo",
			Phone:             "+919812345678",
			Password:          "Demo@1234",
			UserType:          models.UserTypeBuyer,
			Location:          "Bengaluru, Karnataka",
			PreferredLanguage: models.LanguageEnglish,
		},
	}

	ids := make([]string, len(accounts))
	for i, in := range accounts {
		result, err := s.auth.Register(ctx, in)
		if err != nil {
			logger.Log.Warnf("Seed: не удалось создать пользователя %s: %v", in.Email, err)
			continue
		}
		ids[i] = result.User.ID
	}
	return ids[0], ids[1]
}

// seedBids добавляет ставки к первой демо-кампании.
func (s *SeedService) seedBids(ctx context.Context, campaigns []*models.Campaign, buyerID string) {
	if len(campaigns) == 0 {
		return
	}

	bids := []SubmitBidInput{
		{
			CampaignID:    campaigns[0].ID,
			BidderType:    models.UserTypeBuyer,
			BidderID:      buyerID,
			BidderName:    "Shalini Traders",
			BidAmount:     "₹2350 per quintal",
			Quantity:      "45 quintals",
			QualityGrade:  "Grade A",
			DeliveryTerms: "Pickup at farm gate",
			Notes:         "Can advance 30% on contract signing",
		},
		{
			CampaignID: campaigns[0].ID,
			BidderType: models.UserTypeBuyer,
			BidderName: "Karnataka Rice Mills",
			BidAmount:  "₹2280 per quintal",
			Quantity:   "40 quintals",
		},
	}

	for _, in := range bids {
		if _, _, err := s.bids.SubmitBid(ctx, in); err != nil {
			logger.Log.Warnf("Seed: не удалось создать ставку от %s: %v", in.BidderName, err)
		}
	}
}

// seedOrders добавляет демо-заказы на снабжение.
func (s *SeedService) seedOrders(ctx context.Context) {
	orders := []CreateOrderInput{
		{
			Product:      "Certified Sona Masuri Seeds",
			Quantity:     "50 kg",
			Supplier:     "Karnataka State Seeds Corporation",
			OrderDate:    "2026-06-05",
			DeliveryDate: "2026-06-15",
			Amount:       "₹4500",
			Status:       models.OrderStatusDelivered,
		},
		{
			Product:   "DAP Fertilizer",
			Quantity:  "10 bags",
			Supplier:  "IFFCO Bazar",
			OrderDate: "2026-08-20",
			Amount:    "₹13500",
			Status:    models.OrderStatusPending,
		},
	}

	for _, in := range orders {
		if _, err := s.orders.CreateOrder(ctx, in); err != nil {
			logger.Log.Warnf("Seed: не удалось создать заказ %s: %v", in.Product, err)
		}
	}
}
