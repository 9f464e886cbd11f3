package utils

import "errors"

// Common application errors used across services.
var (
	ErrSkuMasterNotFound  = errors.New("SKU_MASTER_NOT_FOUND")
	ErrImageLimitExceeded = errors.New("IMAGE_LIMIT_EXCEEDED")
)
