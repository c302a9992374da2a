package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
)

// testBidEnv собирает движок торгов поверх хранилища в памяти.
type testBidEnv struct {
	store     *docstore.MemoryStore
	bids      *repository.BidRepository
	campaigns *repository.CampaignRepository
	contracts *repository.ContractRepository
	service   *BidService
}

func newTestBidEnv(t *testing.T, acceptGuard bool) *testBidEnv {
	t.Helper()
	store := docstore.NewMemoryStore()
	bids := repository.NewBidRepository(store)
	campaigns := repository.NewCampaignRepository(store)
	contracts := repository.NewContractRepository(store)
	return &testBidEnv{
		store:     store,
		bids:      bids,
		campaigns: campaigns,
		contracts: contracts,
		service:   NewBidService(bids, campaigns, contracts, acceptGuard),
	}
}

func (e *testBidEnv) createCampaign(t *testing.T, id, userType, userID string) *models.Campaign {
	t.Helper()
	now := time.Now()
	campaign := &models.Campaign{
		ID:               id,
		Title:            "Organic Wheat Harvest 2026",
		Crop:             "Wheat",
		CropType:         "Rabi",
		Location:         "Karnataka",
		Duration:         "4 months",
		Status:           models.CampaignStatusActive,
		EstimatedYield:   "50 quintals",
		MinimumQuotation: "₹1800 per quintal",
		UserType:         userType,
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.campaigns.Create(context.Background(), campaign); err != nil {
		t.Fatalf("не удалось создать кампанию: %v", err)
	}
	return campaign
}

func (e *testBidEnv) submitBid(t *testing.T, campaignID, bidderType, amount string) *models.Bid {
	t.Helper()
	bid, _, err := e.service.SubmitBid(context.Background(), SubmitBidInput{
		CampaignID: campaignID,
		BidderType: bidderType,
		BidderName: "Test Bidder",
		BidAmount:  amount,
		Quantity:   "50 quintals",
	})
	if err != nil {
		t.Fatalf("не удалось создать ставку: %v", err)
	}
	return bid
}

func TestBidService_SubmitBid(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	bid, message, err := env.service.SubmitBid(ctx, SubmitBidInput{
		CampaignID: "camp-1",
		BidderType: models.UserTypeFarmer,
		BidderName: "Ravi Kumar",
		BidAmount:  "₹2000 per quintal",
		Quantity:   "40 quintals",
	})
	if err != nil {
		t.Fatalf("submit вернул ошибку: %v", err)
	}
	if bid.ID == "" {
		t.Fatalf("ставке должен быть присвоен ID")
	}
	if bid.Status != models.BidStatusPending {
		t.Errorf("ожидался статус pending, получили %q", bid.Status)
	}
	if bid.QualityGrade != "Grade A" {
		t.Errorf("ожидался сорт по умолчанию Grade A, получили %q", bid.QualityGrade)
	}
	if message != "Bid created successfully by Ravi Kumar" {
		t.Errorf("неожиданное сообщение: %q", message)
	}

	campaign, err := env.campaigns.GetByID(ctx, "camp-1")
	if err != nil {
		t.Fatalf("не удалось прочитать кампанию: %v", err)
	}
	if campaign.TotalBids != 1 {
		t.Errorf("ожидался totalBids=1, получили %d", campaign.TotalBids)
	}
	if campaign.CurrentBid != "₹2000 per quintal" {
		t.Errorf("currentBid не обновился: %q", campaign.CurrentBid)
	}
}

func TestBidService_SubmitBid_MissingCampaign(t *testing.T) {
	env := newTestBidEnv(t, true)

	// Кампания может жить в хранилище второго портала.
	bid, _, err := env.service.SubmitBid(context.Background(), SubmitBidInput{
		CampaignID: "remote-campaign",
		BidderType: models.UserTypeFarmer,
		BidderName: "Ravi Kumar",
		BidAmount:  "₹2000",
		Quantity:   "10 quintals",
	})
	if err != nil {
		t.Fatalf("ставка на внешнюю кампанию должна проходить: %v", err)
	}
	if bid.Status != models.BidStatusPending {
		t.Errorf("ожидался статус pending, получили %q", bid.Status)
	}
}

func TestBidService_SubmitBid_Validation(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SubmitBidInput
	}{
		{"missing campaign", SubmitBidInput{BidderType: "farmer", BidderName: "R", BidAmount: "₹1", Quantity: "1"}},
		{"bad bidder type", SubmitBidInput{CampaignID: "c", BidderType: "trader", BidderName: "Ravi", BidAmount: "₹1", Quantity: "1"}},
		{"missing amount", SubmitBidInput{CampaignID: "c", BidderType: "farmer", BidderName: "Ravi", Quantity: "1"}},
		{"missing quantity", SubmitBidInput{CampaignID: "c", BidderType: "farmer", BidderName: "Ravi", BidAmount: "₹1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.service.SubmitBid(ctx, tc.input)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeBadRequest {
				t.Fatalf("ожидалась ошибка BAD_REQUEST, получили %v", err)
			}
		})
	}
}

func TestBidService_RejectBid(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	farmerBid := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	updated, message, err := env.service.ApplyBidAction(ctx, farmerBid.ID, BidActionInput{
		Action: models.BidActionReject,
		Notes:  "Price too high",
	})
	if err != nil {
		t.Fatalf("reject вернул ошибку: %v", err)
	}
	if updated.Status != models.BidStatusRejected {
		t.Errorf("ожидался статус rejected, получили %q", updated.Status)
	}
	if updated.RejectedBy != models.UserTypeBuyer {
		t.Errorf("фермерскую ставку отклоняет покупатель, получили %q", updated.RejectedBy)
	}
	if updated.ActionNotes != "Price too high" {
		t.Errorf("примечание не сохранилось: %q", updated.ActionNotes)
	}
	if message != "Farmer bid rejected by buyer" {
		t.Errorf("неожиданное сообщение: %q", message)
	}

	buyerBid := env.submitBid(t, "camp-1", models.UserTypeBuyer, "₹1500")
	updated, message, err = env.service.ApplyBidAction(ctx, buyerBid.ID, BidActionInput{Action: models.BidActionReject})
	if err != nil {
		t.Fatalf("reject вернул ошибку: %v", err)
	}
	if updated.RejectedBy != models.UserTypeFarmer {
		t.Errorf("покупательскую ставку отклоняет фермер, получили %q", updated.RejectedBy)
	}
	if message != "Buyer counter offer rejected by farmer" {
		t.Errorf("неожиданное сообщение: %q", message)
	}
}

func TestBidService_CounterOffer(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")
	bid := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	other := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2100")

	_, _, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: models.BidActionCounterOffer})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeBadRequest {
		t.Fatalf("встречное предложение без суммы должно давать BAD_REQUEST, получили %v", err)
	}

	updated, message, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{
		Action:        models.BidActionCounterOffer,
		CounterAmount: "₹1900 per quintal",
	})
	if err != nil {
		t.Fatalf("counter_offer вернул ошибку: %v", err)
	}
	if updated.Status != models.BidStatusCounterOffered {
		t.Errorf("ожидался статус counter_offered, получили %q", updated.Status)
	}
	if updated.CounterAmount != "₹1900 per quintal" {
		t.Errorf("counterAmount не сохранился: %q", updated.CounterAmount)
	}
	if message != "Counter offer made: ₹1900 per quintal" {
		t.Errorf("неожиданное сообщение: %q", message)
	}

	campaign, _ := env.campaigns.GetByID(ctx, "camp-1")
	if campaign.CurrentBid != "₹1900 per quintal" {
		t.Errorf("currentBid кампании должен отражать встречную сумму, получили %q", campaign.CurrentBid)
	}

	// Другие ставки не затрагиваются.
	otherAfter, _ := env.bids.GetByID(ctx, other.ID)
	if otherAfter.Status != models.BidStatusPending {
		t.Errorf("чужая ставка изменилась: %q", otherAfter.Status)
	}
}

func TestBidService_AcceptBid_BuyerCampaign(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	winner := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	loserPending := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2050")
	loserCountered := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2100")
	if _, _, err := env.service.ApplyBidAction(ctx, loserCountered.ID, BidActionInput{
		Action:        models.BidActionCounterOffer,
		CounterAmount: "₹1950",
	}); err != nil {
		t.Fatalf("counter_offer вернул ошибку: %v", err)
	}
	alreadyRejected := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2200")
	if _, _, err := env.service.ApplyBidAction(ctx, alreadyRejected.ID, BidActionInput{Action: models.BidActionReject}); err != nil {
		t.Fatalf("reject вернул ошибку: %v", err)
	}

	updated, message, err := env.service.ApplyBidAction(ctx, winner.ID, BidActionInput{Action: models.BidActionAccept})
	if err != nil {
		t.Fatalf("accept вернул ошибку: %v", err)
	}
	if updated.Status != models.BidStatusAccepted {
		t.Fatalf("ожидался статус accepted, получили %q", updated.Status)
	}
	if message != "Bid accepted successfully" {
		t.Errorf("неожиданное сообщение: %q", message)
	}

	// Победитель может быть только один.
	all, err := env.bids.ListByCampaign(ctx, "camp-1")
	if err != nil {
		t.Fatalf("не удалось перечислить ставки: %v", err)
	}
	accepted := 0
	for _, b := range all {
		if b.Status == models.BidStatusAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("ожидалась ровно одна принятая ставка, получили %d", accepted)
	}

	for _, id := range []string{loserPending.ID, loserCountered.ID} {
		b, _ := env.bids.GetByID(ctx, id)
		if b.Status != models.BidStatusRejected {
			t.Errorf("проигравшая ставка %s не отклонена: %q", id, b.Status)
		}
		if b.ActionNotes != "Automatically rejected - another bid was accepted" {
			t.Errorf("неожиданное примечание: %q", b.ActionNotes)
		}
	}

	// Контракт порождается из принятой ставки.
	contracts, err := env.contracts.List(ctx)
	if err != nil {
		t.Fatalf("не удалось перечислить контракты: %v", err)
	}
	if len(contracts) != 1 {
		t.Fatalf("ожидался ровно один контракт, получили %d", len(contracts))
	}
	contract := contracts[0]
	if contract.AgreedPrice != "₹2000" {
		t.Errorf("agreedPrice должен равняться сумме ставки, получили %q", contract.AgreedPrice)
	}
	if contract.Title != "📄 Contract: Organic Wheat Harvest 2026" {
		t.Errorf("неожиданный заголовок контракта: %q", contract.Title)
	}
	if contract.FarmerName != "Test Bidder" {
		t.Errorf("фермером контракта должен быть автор ставки, получили %q", contract.FarmerName)
	}
	if contract.BuyerID != "buyer-1" || contract.BuyerName != "Unknown Buyer" {
		t.Errorf("покупатель должен браться из кампании: %q/%q", contract.BuyerID, contract.BuyerName)
	}
	if contract.OriginalBidID != winner.ID || contract.OriginalCampaignID != "camp-1" {
		t.Errorf("контракт не ссылается на исходные документы")
	}
	if contract.ContractStatus != models.ContractStatusActive {
		t.Errorf("жизненный цикл контракта должен начинаться с active, получили %q", contract.ContractStatus)
	}
	if contract.ContractNotes != fmt.Sprintf("Contract created from accepted bid. Original bid: %s", "₹2000") {
		t.Errorf("неожиданные примечания контракта: %q", contract.ContractNotes)
	}

	campaign, _ := env.campaigns.GetByID(ctx, "camp-1")
	if campaign.Status != models.CampaignStatusCompleted {
		t.Errorf("кампания должна стать completed, получили %q", campaign.Status)
	}
	if campaign.ContractID != contract.ID {
		t.Errorf("кампания должна ссылаться на контракт")
	}
	if campaign.FinalPrice != "₹2000" {
		t.Errorf("finalPrice кампании: %q", campaign.FinalPrice)
	}
}

func TestBidService_AcceptBid_OwnBid(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")
	bid := env.submitBid(t, "camp-1", models.UserTypeBuyer, "₹1500")

	_, _, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: models.BidActionAccept})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeConflict {
		t.Fatalf("принятие собственной ставки должно давать CONFLICT, получили %v", err)
	}
	if !strings.Contains(appErr.Message, "cannot accept their own bid") {
		t.Errorf("неожиданное сообщение: %q", appErr.Message)
	}
}

func TestBidService_AcceptBid_FarmerCampaignRequiresCounter(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeFarmer, "farmer-1")
	bid := env.submitBid(t, "camp-1", models.UserTypeBuyer, "₹1500")

	_, _, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: models.BidActionAccept})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeConflict {
		t.Fatalf("фермер принимает только встречные предложения, получили %v", err)
	}

	if _, _, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{
		Action:        models.BidActionCounterOffer,
		CounterAmount: "₹1650",
	}); err != nil {
		t.Fatalf("counter_offer вернул ошибку: %v", err)
	}

	updated, _, err := env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: models.BidActionAccept})
	if err != nil {
		t.Fatalf("принятие встречного предложения должно проходить: %v", err)
	}
	if updated.Status != models.BidStatusAccepted {
		t.Fatalf("ожидался статус accepted, получили %q", updated.Status)
	}

	contracts, _ := env.contracts.List(ctx)
	if len(contracts) != 1 {
		t.Fatalf("ожидался один контракт, получили %d", len(contracts))
	}
	if contracts[0].AgreedPrice != "₹1650" {
		t.Errorf("agreedPrice должен равняться встречной сумме, получили %q", contracts[0].AgreedPrice)
	}
	if !strings.Contains(contracts[0].ContractNotes, "Final negotiated price: ₹1650") {
		t.Errorf("в примечаниях нет итоговой цены: %q", contracts[0].ContractNotes)
	}
	// Фермером контракта становится создатель кампании.
	if contracts[0].FarmerID != "farmer-1" || contracts[0].FarmerName != "Unknown Farmer" {
		t.Errorf("фермер контракта: %q/%q", contracts[0].FarmerID, contracts[0].FarmerName)
	}
}

func TestBidService_AcceptBid_MissingCampaign(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()

	// Кампания невидима: считается покупательской.
	farmerBid := env.submitBid(t, "remote-campaign", models.UserTypeFarmer, "₹2000")
	updated, _, err := env.service.ApplyBidAction(ctx, farmerBid.ID, BidActionInput{Action: models.BidActionAccept})
	if err != nil {
		t.Fatalf("accept на внешней кампании должен проходить: %v", err)
	}
	if updated.Status != models.BidStatusAccepted {
		t.Fatalf("ожидался статус accepted, получили %q", updated.Status)
	}

	// Контракт без локальной кампании не создаётся, принятие не откатывается.
	contracts, _ := env.contracts.List(ctx)
	if len(contracts) != 0 {
		t.Errorf("контракт без кампании не должен создаваться, получили %d", len(contracts))
	}

	buyerBid := env.submitBid(t, "remote-campaign-2", models.UserTypeBuyer, "₹1500")
	_, _, err = env.service.ApplyBidAction(ctx, buyerBid.ID, BidActionInput{Action: models.BidActionAccept})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeConflict {
		t.Fatalf("покупательская ставка на предполагаемо покупательской кампании — CONFLICT, получили %v", err)
	}
}

func TestBidService_AcceptBid_SecondAcceptConflicts(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	winner := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	if _, _, err := env.service.ApplyBidAction(ctx, winner.ID, BidActionInput{Action: models.BidActionAccept}); err != nil {
		t.Fatalf("accept вернул ошибку: %v", err)
	}

	// Повторное принятие той же ставки.
	_, _, err := env.service.ApplyBidAction(ctx, winner.ID, BidActionInput{Action: models.BidActionAccept})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeConflict {
		t.Fatalf("повторное принятие должно давать CONFLICT, получили %v", err)
	}

	// Новая ставка после выбора победителя тоже не принимается.
	late := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2500")
	_, _, err = env.service.ApplyBidAction(ctx, late.ID, BidActionInput{Action: models.BidActionAccept})
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeConflict {
		t.Fatalf("вторая принятая ставка в кампании недопустима, получили %v", err)
	}

	all, _ := env.bids.ListByCampaign(ctx, "camp-1")
	accepted := 0
	for _, b := range all {
		if b.Status == models.BidStatusAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("ожидалась ровно одна принятая ставка, получили %d", accepted)
	}
}

func TestBidService_AcceptBid_UnguardedAllowsSecondAccept(t *testing.T) {
	env := newTestBidEnv(t, false)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	first := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	if _, _, err := env.service.ApplyBidAction(ctx, first.ID, BidActionInput{Action: models.BidActionAccept}); err != nil {
		t.Fatalf("accept вернул ошибку: %v", err)
	}

	// Историческое поведение: поздняя ставка принимается без проверки
	// на уже выбранного победителя.
	late := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2500")
	if _, _, err := env.service.ApplyBidAction(ctx, late.ID, BidActionInput{Action: models.BidActionAccept}); err != nil {
		t.Fatalf("без защиты второй accept должен проходить: %v", err)
	}

	all, _ := env.bids.ListByCampaign(ctx, "camp-1")
	accepted := 0
	for _, b := range all {
		if b.Status == models.BidStatusAccepted {
			accepted++
		}
	}
	if accepted != 2 {
		t.Fatalf("без защиты ожидались две принятые ставки, получили %d", accepted)
	}
}

func TestBidService_AcceptBid_ConcurrentSingleWinner(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	const rivals = 8
	ids := make([]string, 0, rivals)
	for i := 0; i < rivals; i++ {
		bid := env.submitBid(t, "camp-1", models.UserTypeFarmer, fmt.Sprintf("₹%d", 2000+i))
		ids = append(ids, bid.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(bidID string) {
			defer wg.Done()
			// Конфликты здесь ожидаемы, важен итоговый инвариант.
			_, _, _ = env.service.ApplyBidAction(ctx, bidID, BidActionInput{Action: models.BidActionAccept})
		}(id)
	}
	wg.Wait()

	all, err := env.bids.ListByCampaign(ctx, "camp-1")
	if err != nil {
		t.Fatalf("не удалось перечислить ставки: %v", err)
	}
	accepted := 0
	for _, b := range all {
		if b.Status == models.BidStatusAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("при параллельных принятиях победитель ровно один, получили %d", accepted)
	}
}

// failingContractRepo всегда отказывает в создании контракта.
type failingContractRepo struct{}

func (f *failingContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	return errors.New("contract store unavailable")
}

func (f *failingContractRepo) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func TestBidService_ContractFailureDoesNotRollBackAccept(t *testing.T) {
	store := docstore.NewMemoryStore()
	bids := repository.NewBidRepository(store)
	campaigns := repository.NewCampaignRepository(store)
	service := NewBidService(bids, campaigns, &failingContractRepo{}, true)
	ctx := context.Background()

	now := time.Now()
	if err := campaigns.Create(ctx, &models.Campaign{
		ID:        "camp-1",
		Title:     "Rice Harvest",
		Status:    models.CampaignStatusActive,
		UserType:  models.UserTypeBuyer,
		UserID:    "buyer-1",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("не удалось создать кампанию: %v", err)
	}

	bid, _, err := service.SubmitBid(ctx, SubmitBidInput{
		CampaignID: "camp-1",
		BidderType: models.UserTypeFarmer,
		BidderName: "Ravi",
		BidAmount:  "₹2000",
		Quantity:   "10 quintals",
	})
	if err != nil {
		t.Fatalf("submit вернул ошибку: %v", err)
	}

	updated, message, err := service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: models.BidActionAccept})
	if err != nil {
		t.Fatalf("сбой контракта не должен проваливать accept: %v", err)
	}
	if updated.Status != models.BidStatusAccepted {
		t.Fatalf("принятие не должно откатываться, статус %q", updated.Status)
	}
	if message != "Bid accepted successfully" {
		t.Errorf("неожиданное сообщение: %q", message)
	}

	// Кампания остаётся незавершённой: контракт не появился.
	campaign, _ := campaigns.GetByID(ctx, "camp-1")
	if campaign.Status == models.CampaignStatusCompleted {
		t.Errorf("кампания не должна закрываться без контракта")
	}
}

func TestBidService_ApplyBidAction_Errors(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()

	_, _, err := env.service.ApplyBidAction(ctx, "missing", BidActionInput{Action: models.BidActionAccept})
	if !apperror.IsNotFound(err) {
		t.Fatalf("ожидалась NOT_FOUND, получили %v", err)
	}

	bid := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	_, _, err = env.service.ApplyBidAction(ctx, bid.ID, BidActionInput{Action: "approve"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeBadRequest {
		t.Fatalf("неизвестное действие должно давать BAD_REQUEST, получили %v", err)
	}
}

func TestBidService_DeleteBid(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()

	bid := env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2000")
	if err := env.service.DeleteBid(ctx, bid.ID); err != nil {
		t.Fatalf("delete вернул ошибку: %v", err)
	}
	if err := env.service.DeleteBid(ctx, bid.ID); !apperror.IsNotFound(err) {
		t.Fatalf("повторное удаление должно давать NOT_FOUND, получили %v", err)
	}
}

func TestBidService_CampaignWithBids(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")

	env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2,500 per quintal")
	env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹1800")
	rejected := env.submitBid(t, "camp-1", models.UserTypeFarmer, "negotiable")
	if _, _, err := env.service.ApplyBidAction(ctx, rejected.ID, BidActionInput{Action: models.BidActionReject}); err != nil {
		t.Fatalf("reject вернул ошибку: %v", err)
	}

	result, err := env.service.CampaignWithBids(ctx, "camp-1")
	if err != nil {
		t.Fatalf("campaign with bids вернул ошибку: %v", err)
	}
	if result.Title != "Organic Wheat Harvest 2026" {
		t.Errorf("ожидался настоящий заголовок кампании, получили %q", result.Title)
	}
	if len(result.Bids) != 3 {
		t.Errorf("ожидались три ставки, получили %d", len(result.Bids))
	}
	if result.ActiveBidsCount != 2 {
		t.Errorf("activeBidsCount: ожидалось 2, получили %d", result.ActiveBidsCount)
	}
	if result.HighestBid != "₹2,500" {
		t.Errorf("highestBid: %q", result.HighestBid)
	}
	if result.LowestBid != "₹1,800" {
		t.Errorf("lowestBid: %q", result.LowestBid)
	}
}

func TestBidService_CampaignWithBids_UnknownCampaign(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()

	env.submitBid(t, "abcdef123456", models.UserTypeFarmer, "₹2000")

	result, err := env.service.CampaignWithBids(ctx, "abcdef123456")
	if err != nil {
		t.Fatalf("внешняя кампания должна отдавать заглушку: %v", err)
	}
	if result.Title != "Campaign abcdef12..." {
		t.Errorf("неожиданный заголовок заглушки: %q", result.Title)
	}
	if len(result.Bids) != 1 || result.ActiveBidsCount != 1 {
		t.Errorf("ставки внешней кампании должны находиться: %d/%d", len(result.Bids), result.ActiveBidsCount)
	}

	empty, err := env.service.CampaignWithBids(ctx, "no-bids-here")
	if err != nil {
		t.Fatalf("кампания без ставок не ошибка: %v", err)
	}
	if empty.Bids == nil || len(empty.Bids) != 0 {
		t.Errorf("список ставок должен быть пустым, не nil")
	}
	if empty.HighestBid != "" || empty.LowestBid != "" {
		t.Errorf("сводка без распарсившихся сумм должна быть пустой")
	}
}

func TestBidService_BidStats(t *testing.T) {
	env := newTestBidEnv(t, true)
	ctx := context.Background()
	env.createCampaign(t, "camp-1", models.UserTypeBuyer, "buyer-1")
	env.createCampaign(t, "camp-2", models.UserTypeBuyer, "buyer-2")

	env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹2,000 per quintal")
	env.submitBid(t, "camp-1", models.UserTypeFarmer, "₹3000")
	env.submitBid(t, "camp-2", models.UserTypeFarmer, "negotiable")
	winner := env.submitBid(t, "camp-2", models.UserTypeFarmer, "₹1000")
	if _, _, err := env.service.ApplyBidAction(ctx, winner.ID, BidActionInput{Action: models.BidActionAccept}); err != nil {
		t.Fatalf("accept вернул ошибку: %v", err)
	}

	stats, err := env.service.BidStats(ctx)
	if err != nil {
		t.Fatalf("stats вернул ошибку: %v", err)
	}
	if stats.TotalCampaigns != 2 {
		t.Errorf("totalCampaigns: ожидалось 2, получили %d", stats.TotalCampaigns)
	}
	// Ставки по camp-1 остались в pending: принятие в camp-2 чужие
	// кампании не трогает.
	if stats.ActiveBids != 2 {
		t.Errorf("activeBids: ожидалось 2, получили %d", stats.ActiveBids)
	}
	if stats.SuccessfulContracts != 1 {
		t.Errorf("successfulContracts: ожидалось 1, получили %d", stats.SuccessfulContracts)
	}
	// Среднее только по распарсившимся суммам: (2000+3000+1000)/3.
	if stats.AverageBidAmount != "₹2,000" {
		t.Errorf("averageBidAmount: ожидалось ₹2,000, получили %q", stats.AverageBidAmount)
	}
}
