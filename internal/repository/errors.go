package repository

import "errors"

// Сигнальные ошибки слоя репозиториев. Сервисы превращают их
// в apperror с кодом NOT_FOUND.
var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrBidNotFound      = errors.New("bid not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
)
