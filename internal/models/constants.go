package models

// UserType константы типов участников рынка
const (
	UserTypeFarmer = "farmer"
	UserTypeBuyer  = "buyer"
)

// CampaignStatus константы статусов кампаний
const (
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusUpcoming  = "upcoming"
)

// BidStatus константы статусов ставок
const (
	BidStatusPending        = "pending"
	BidStatusAccepted       = "accepted"
	BidStatusRejected       = "rejected"
	BidStatusCounterOffered = "counter_offered"
)

// BidAction константы действий над ставками
const (
	BidActionAccept       = "accept"
	BidActionReject       = "reject"
	BidActionCounterOffer = "counter_offer"
)

// ContractStatus жизненный цикл контракта (поле contractStatus).
// Поле status контракта наследует форму кампании.
const (
	ContractStatusActive = "active"
)

// OrderStatus константы статусов заказов на снабжение
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Language коды поддерживаемых языков
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
	LanguageKannada = "kn"
)

// ChatChannel каналы доставки сообщений ассистента
const (
	ChatChannelWeb      = "web"
	ChatChannelWhatsApp = "whatsapp"
)

// ValidUserTypes список валидных типов участников
var ValidUserTypes = map[string]bool{
	UserTypeFarmer: true,
	UserTypeBuyer:  true,
}

// ValidCampaignStatuses список валидных статусов кампаний
var ValidCampaignStatuses = map[string]bool{
	CampaignStatusActive:    true,
	CampaignStatusCompleted: true,
	CampaignStatusUpcoming:  true,
}

// ValidBidStatuses список валидных статусов ставок
var ValidBidStatuses = map[string]bool{
	BidStatusPending:        true,
	BidStatusAccepted:       true,
	BidStatusRejected:       true,
	BidStatusCounterOffered: true,
}

// ValidBidActions список валидных действий над ставками
var ValidBidActions = map[string]bool{
	BidActionAccept:       true,
	BidActionReject:       true,
	BidActionCounterOffer: true,
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusShipped:   true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

// ValidLanguages список поддерживаемых языков
var ValidLanguages = map[string]bool{
	LanguageEnglish: true,
	LanguageHindi:   true,
	LanguageKannada: true,
}

// OppositeUserType возвращает противоположную сторону сделки.
func OppositeUserType(t string) string {
	if t == UserTypeFarmer {
		return UserTypeBuyer
	}
	return UserTypeFarmer
}
