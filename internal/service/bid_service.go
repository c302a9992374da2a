package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/pkg/money"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/validation"
)

// BidRepository описывает взаимодействие движка торгов со ставками.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id string) (*models.Bid, error)
	Update(ctx context.Context, id string, fn func(*models.Bid) error) (*models.Bid, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repository.BidFilter) ([]models.Bid, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]models.Bid, error)
}

// CampaignRepositoryForBids минимальный контракт движка с кампаниями.
type CampaignRepositoryForBids interface {
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	Update(ctx context.Context, id string, fn func(*models.Campaign) error) (*models.Campaign, error)
	Count(ctx context.Context) (int, error)
}

// ContractRepositoryForBids минимальный контракт движка с контрактами.
type ContractRepositoryForBids interface {
	Create(ctx context.Context, contract *models.Contract) error
	Count(ctx context.Context) (int, error)
}

// SubmitBidInput данные новой ставки.
type SubmitBidInput struct {
	CampaignID    string
	BidderType    string
	BidderID      string
	BidderName    string
	BidAmount     string
	Quantity      string
	QualityGrade  string
	DeliveryTerms string
	Notes         string
}

// BidActionInput действие над существующей ставкой.
type BidActionInput struct {
	Action        string
	CounterAmount string
	Notes         string
}

// BidService — движок жизненного цикла ставок: создание, принятие,
// отклонение, встречные предложения, выбор единственного победителя
// и порождение контракта из принятой ставки.
type BidService struct {
	bids      BidRepository
	campaigns CampaignRepositoryForBids
	contracts ContractRepositoryForBids

	// acceptGuard включает сериализацию принятия ставок по кампании.
	// При false воспроизводится историческое поведение без блокировки.
	acceptGuard bool

	mu            sync.Mutex
	campaignLocks map[string]*sync.Mutex
}

func NewBidService(bids BidRepository, campaigns CampaignRepositoryForBids, contracts ContractRepositoryForBids, acceptGuard bool) *BidService {
	return &BidService{
		bids:          bids,
		campaigns:     campaigns,
		contracts:     contracts,
		acceptGuard:   acceptGuard,
		campaignLocks: make(map[string]*sync.Mutex),
	}
}

// SubmitBid создаёт ставку по кампании. Существование кампании не
// проверяется: она может жить в другом экземпляре хранилища. Если
// кампания видна локально, её totalBids и currentBid обновляются.
func (s *BidService) SubmitBid(ctx context.Context, input SubmitBidInput) (*models.Bid, string, error) {
	if err := validation.ValidateNonEmpty("campaignId", input.CampaignID); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateUserType(input.BidderType); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateName(input.BidderName); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateAmount("bidAmount", input.BidAmount); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateAmount("quantity", input.Quantity); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateNotes(input.Notes); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	qualityGrade := input.QualityGrade
	if qualityGrade == "" {
		qualityGrade = "Grade A"
	}

	now := time.Now()
	bid := &models.Bid{
		ID:            uuid.NewString(),
		CampaignID:    input.CampaignID,
		BidderType:    input.BidderType,
		BidderID:      input.BidderID,
		BidderName:    strings.TrimSpace(input.BidderName),
		BidAmount:     input.BidAmount,
		Quantity:      input.Quantity,
		QualityGrade:  qualityGrade,
		DeliveryTerms: input.DeliveryTerms,
		Notes:         input.Notes,
		Status:        models.BidStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, "", apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating bid")
	}

	// Обновление родительской кампании выполняется по возможности:
	// отсутствующая кампания не считается ошибкой.
	if _, err := s.campaigns.Update(ctx, bid.CampaignID, func(c *models.Campaign) error {
		c.TotalBids++
		c.CurrentBid = bid.BidAmount
		c.UpdatedAt = time.Now()
		return nil
	}); err != nil && !errors.Is(err, repository.ErrCampaignNotFound) {
		s.logWarn("bid service: не удалось обновить кампанию после новой ставки", logrus.Fields{
			"campaign_id": bid.CampaignID,
			"bid_id":      bid.ID,
			"error":       err.Error(),
		})
	}

	return bid, fmt.Sprintf("Bid created successfully by %s", bid.BidderName), nil
}

// ApplyBidAction применяет accept, reject или counter_offer к ставке и
// возвращает обновлённую ставку вместе с человекочитаемым сообщением.
func (s *BidService) ApplyBidAction(ctx context.Context, bidID string, input BidActionInput) (*models.Bid, string, error) {
	if err := validation.ValidateBidAction(input.Action); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateNotes(input.Notes); err != nil {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, "", s.mapBidRepoErr(err)
	}

	switch input.Action {
	case models.BidActionAccept:
		return s.acceptBid(ctx, bid, input)
	case models.BidActionReject:
		return s.rejectBid(ctx, bid.ID, input)
	default:
		return s.counterOffer(ctx, bid, input)
	}
}

// rejectBid отклоняет ставку от имени противоположной стороны.
func (s *BidService) rejectBid(ctx context.Context, bidID string, input BidActionInput) (*models.Bid, string, error) {
	updated, err := s.bids.Update(ctx, bidID, func(b *models.Bid) error {
		b.Status = models.BidStatusRejected
		b.RejectedBy = models.OppositeUserType(b.BidderType)
		if input.Notes != "" {
			b.ActionNotes = input.Notes
		}
		b.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, "", s.mapBidRepoErr(err)
	}

	message := "Buyer counter offer rejected by farmer"
	if updated.BidderType == models.UserTypeFarmer {
		message = "Farmer bid rejected by buyer"
	}
	return updated, message, nil
}

// counterOffer переводит ставку во встречное предложение с новой суммой.
func (s *BidService) counterOffer(ctx context.Context, bid *models.Bid, input BidActionInput) (*models.Bid, string, error) {
	if strings.TrimSpace(input.CounterAmount) == "" {
		return nil, "", apperror.New(apperror.ErrCodeBadRequest, "Counter amount required for counter offer")
	}

	updated, err := s.bids.Update(ctx, bid.ID, func(b *models.Bid) error {
		b.Status = models.BidStatusCounterOffered
		b.CounterAmount = input.CounterAmount
		if input.Notes != "" {
			b.ActionNotes = input.Notes
		}
		b.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, "", s.mapBidRepoErr(err)
	}

	// Встречная сумма становится текущей ставкой кампании.
	if _, err := s.campaigns.Update(ctx, bid.CampaignID, func(c *models.Campaign) error {
		c.CurrentBid = input.CounterAmount
		c.UpdatedAt = time.Now()
		return nil
	}); err != nil && !errors.Is(err, repository.ErrCampaignNotFound) {
		s.logWarn("bid service: не удалось обновить currentBid кампании", logrus.Fields{
			"campaign_id": bid.CampaignID,
			"bid_id":      bid.ID,
			"error":       err.Error(),
		})
	}

	return updated, fmt.Sprintf("Counter offer made: %s", input.CounterAmount), nil
}

// acceptBid принимает ставку, отклоняет остальные ставки кампании и
// порождает контракт. Сбои в производных шагах логируются и не
// откатывают само принятие.
func (s *BidService) acceptBid(ctx context.Context, bid *models.Bid, input BidActionInput) (*models.Bid, string, error) {
	if s.acceptGuard {
		unlock := s.lockCampaign(bid.CampaignID)
		defer unlock()

		// Перечитываем ставку уже под замком: параллельное действие
		// могло изменить её статус.
		fresh, err := s.bids.GetByID(ctx, bid.ID)
		if err != nil {
			return nil, "", s.mapBidRepoErr(err)
		}
		bid = fresh
	}

	// Тип создателя кампании. Если кампания не видна локально, она
	// считается покупательской: торги могут идти через второй портал
	// с собственным хранилищем.
	creatorType := models.UserTypeBuyer
	campaign, err := s.campaigns.GetByID(ctx, bid.CampaignID)
	switch {
	case err == nil:
		if campaign.UserType != "" {
			creatorType = campaign.UserType
		}
	case errors.Is(err, repository.ErrCampaignNotFound):
		// кросс-сервисная ставка, остаёмся на допущении buyer
	default:
		return nil, "", apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error handling bid action")
	}

	if creatorType == bid.BidderType {
		return nil, "", apperror.New(apperror.ErrCodeConflict,
			fmt.Sprintf("A %s cannot accept their own bid. Only the opposite party can accept bids.", creatorType))
	}
	if creatorType == models.UserTypeFarmer && bid.Status != models.BidStatusCounterOffered {
		return nil, "", apperror.New(apperror.ErrCodeConflict,
			"Farmers can only accept buyer counter-offers, not initial farmer bids.")
	}
	if bid.Status != models.BidStatusPending && bid.Status != models.BidStatusCounterOffered {
		return nil, "", apperror.New(apperror.ErrCodeConflict,
			"Only pending or counter-offered bids can be accepted")
	}

	if s.acceptGuard {
		siblings, err := s.bids.ListByCampaign(ctx, bid.CampaignID)
		if err != nil {
			return nil, "", apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error handling bid action")
		}
		for _, sib := range siblings {
			if sib.ID != bid.ID && sib.Status == models.BidStatusAccepted {
				return nil, "", apperror.New(apperror.ErrCodeConflict,
					"Another bid was already accepted for this campaign")
			}
		}
	}

	updated, err := s.bids.Update(ctx, bid.ID, func(b *models.Bid) error {
		b.Status = models.BidStatusAccepted
		if input.Notes != "" {
			b.ActionNotes = input.Notes
		}
		b.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, "", s.mapBidRepoErr(err)
	}

	s.sweepLosingBids(ctx, updated.CampaignID, updated.ID)
	s.deriveContract(ctx, updated)

	return updated, "Bid accepted successfully", nil
}

// sweepLosingBids отклоняет все прочие активные ставки кампании:
// победитель может быть только один. Сбои отдельных ставок логируются,
// обход продолжается.
func (s *BidService) sweepLosingBids(ctx context.Context, campaignID, acceptedBidID string) {
	siblings, err := s.bids.ListByCampaign(ctx, campaignID)
	if err != nil {
		s.logWarn("bid service: не удалось перечислить ставки кампании для отклонения", logrus.Fields{
			"campaign_id": campaignID,
			"error":       err.Error(),
		})
		return
	}

	for _, sib := range siblings {
		if sib.ID == acceptedBidID {
			continue
		}
		if sib.Status != models.BidStatusPending && sib.Status != models.BidStatusCounterOffered {
			continue
		}
		if _, err := s.bids.Update(ctx, sib.ID, func(b *models.Bid) error {
			b.Status = models.BidStatusRejected
			b.ActionNotes = "Automatically rejected - another bid was accepted"
			b.UpdatedAt = time.Now()
			return nil
		}); err != nil {
			s.logWarn("bid service: не удалось отклонить проигравшую ставку", logrus.Fields{
				"campaign_id": campaignID,
				"bid_id":      sib.ID,
				"error":       err.Error(),
			})
		}
	}
}

// deriveContract порождает контракт из принятой ставки и помечает
// кампанию завершённой. Принятая ставка — источник истины: любая
// ошибка здесь логируется, но принятие не откатывается.
func (s *BidService) deriveContract(ctx context.Context, bid *models.Bid) {
	campaign, err := s.campaigns.GetByID(ctx, bid.CampaignID)
	if err != nil {
		s.logWarn("bid service: контракт не создан, кампания недоступна", logrus.Fields{
			"campaign_id": bid.CampaignID,
			"bid_id":      bid.ID,
			"error":       err.Error(),
		})
		return
	}

	agreedPrice := bid.CounterAmount
	if agreedPrice == "" {
		agreedPrice = bid.BidAmount
	}

	title := campaign.Title
	if title == "" {
		title = "Unknown Campaign"
	}

	farmerID, farmerName := campaign.UserID, "Unknown Farmer"
	buyerID, buyerName := campaign.UserID, "Unknown Buyer"
	if bid.BidderType == models.UserTypeFarmer {
		farmerID, farmerName = bid.BidderID, bid.BidderName
	} else {
		buyerID, buyerName = bid.BidderID, bid.BidderName
	}

	deliveryTerms := bid.DeliveryTerms
	if deliveryTerms == "" {
		deliveryTerms = "Standard delivery terms"
	}
	qualityGrade := bid.QualityGrade
	if qualityGrade == "" {
		qualityGrade = "Standard"
	}

	contractNotes := fmt.Sprintf("Contract created from accepted bid. Original bid: %s", bid.BidAmount)
	if bid.CounterAmount != "" {
		contractNotes += fmt.Sprintf(", Final negotiated price: %s", agreedPrice)
	}

	now := time.Now()
	contract := &models.Contract{
		ID:                 uuid.NewString(),
		Title:              "📄 Contract: " + title,
		Crop:               campaign.Crop,
		CropType:           campaign.CropType,
		Location:           campaign.Location,
		Duration:           campaign.Duration,
		EstimatedYield:     bid.Quantity,
		MinimumQuotation:   agreedPrice,
		CurrentBid:         agreedPrice,
		TotalBids:          1,
		Status:             models.CampaignStatusCompleted,
		ContractStatus:     models.ContractStatusActive,
		FarmerID:           farmerID,
		FarmerName:         farmerName,
		BuyerID:            buyerID,
		BuyerName:          buyerName,
		AgreedPrice:        agreedPrice,
		OriginalCampaignID: campaign.ID,
		OriginalBidID:      bid.ID,
		DeliveryTerms:      deliveryTerms,
		QualityGrade:       qualityGrade,
		ContractNotes:      contractNotes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		s.logError("bid service: не удалось создать контракт из принятой ставки", logrus.Fields{
			"campaign_id": bid.CampaignID,
			"bid_id":      bid.ID,
			"error":       err.Error(),
		})
		return
	}

	if _, err := s.campaigns.Update(ctx, campaign.ID, func(c *models.Campaign) error {
		c.Status = models.CampaignStatusCompleted
		c.ContractID = contract.ID
		c.FinalPrice = agreedPrice
		c.UpdatedAt = time.Now()
		return nil
	}); err != nil {
		s.logWarn("bid service: не удалось пометить кампанию завершённой", logrus.Fields{
			"campaign_id": campaign.ID,
			"contract_id": contract.ID,
			"error":       err.Error(),
		})
	}
}

// ListBids возвращает ставки по фильтру.
func (s *BidService) ListBids(ctx context.Context, filter repository.BidFilter) ([]models.Bid, error) {
	if filter.BidderType != "" {
		if err := validation.ValidateUserType(filter.BidderType); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}
	if filter.Status != "" {
		if err := validation.ValidateBidStatus(filter.Status); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	bids, err := s.bids.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving bids")
	}
	return bids, nil
}

// GetBid возвращает ставку по ID.
func (s *BidService) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	bid, err := s.bids.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapBidRepoErr(err)
	}
	return bid, nil
}

// DeleteBid удаляет ставку. Операторское действие, в торгах не участвует.
func (s *BidService) DeleteBid(ctx context.Context, id string) error {
	if err := s.bids.Delete(ctx, id); err != nil {
		return s.mapBidRepoErr(err)
	}
	return nil
}

// CampaignWithBids возвращает кампанию вместе с её ставками и сводкой
// сумм. Невидимая локально кампания заменяется заглушкой: так вёл себя
// раздельный деплой порталов.
func (s *BidService) CampaignWithBids(ctx context.Context, campaignID string) (*models.CampaignWithBids, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrCampaignNotFound):
		campaign = &models.Campaign{ID: campaignID, Title: placeholderCampaignTitle(campaignID)}
	default:
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving campaign with bids")
	}

	bids, err := s.bids.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving campaign with bids")
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	var amounts []float64
	activeCount := 0
	for _, b := range bids {
		if b.Status == models.BidStatusPending {
			activeCount++
		}
		if v, ok := money.Parse(b.BidAmount); ok {
			amounts = append(amounts, v)
		}
	}

	result := &models.CampaignWithBids{
		Campaign:        *campaign,
		Bids:            bids,
		ActiveBidsCount: activeCount,
	}
	if len(amounts) > 0 {
		highest, lowest := amounts[0], amounts[0]
		for _, v := range amounts[1:] {
			if v > highest {
				highest = v
			}
			if v < lowest {
				lowest = v
			}
		}
		result.HighestBid = money.FormatINR(highest)
		result.LowestBid = money.FormatINR(lowest)
	}
	return result, nil
}

func placeholderCampaignTitle(campaignID string) string {
	prefix := campaignID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("Campaign %s...", prefix)
}

// BidStats собирает сводку торгов. Суммы ставок хранятся как свободные
// строки, поэтому среднее считается только по распарсившимся значениям.
func (s *BidService) BidStats(ctx context.Context) (*models.BidStats, error) {
	totalCampaigns, err := s.campaigns.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving bidding stats")
	}

	activeBids, err := s.bids.List(ctx, repository.BidFilter{Status: models.BidStatusPending})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving bidding stats")
	}

	contracts, err := s.contracts.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving bidding stats")
	}

	allBids, err := s.bids.List(ctx, repository.BidFilter{})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error retrieving bidding stats")
	}

	var sum float64
	var parsed int
	for _, bid := range allBids {
		if v, ok := money.Parse(bid.BidAmount); ok {
			sum += v
			parsed++
		}
	}

	average := money.FormatINR(0)
	if parsed > 0 {
		average = money.FormatINR(sum / float64(parsed))
	}

	return &models.BidStats{
		TotalCampaigns:      totalCampaigns,
		ActiveBids:          len(activeBids),
		SuccessfulContracts: contracts,
		AverageBidAmount:    average,
	}, nil
}

// lockCampaign выдаёт замок кампании, создавая его при первом обращении.
// Замки живут до конца процесса: идентичность замка должна быть
// стабильной, иначе взаимное исключение не работает.
func (s *BidService) lockCampaign(campaignID string) func() {
	s.mu.Lock()
	m, ok := s.campaignLocks[campaignID]
	if !ok {
		m = &sync.Mutex{}
		s.campaignLocks[campaignID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *BidService) mapBidRepoErr(err error) error {
	if errors.Is(err, repository.ErrBidNotFound) {
		return apperror.ErrBidNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error handling bid action")
}

func (s *BidService) logWarn(msg string, fields logrus.Fields) {
	if logger.Log != nil {
		logger.Log.WithFields(fields).Warn(msg)
	}
}

func (s *BidService) logError(msg string, fields logrus.Fields) {
	if logger.Log != nil {
		logger.Log.WithFields(fields).Error(msg)
	}
}
