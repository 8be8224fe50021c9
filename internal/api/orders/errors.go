package orders

import "seratus-studio/internal/apperr"

var (
	errInvalidBody     = apperr.Validation("Invalid request body")
	errInvalidQuantity = apperr.Validation("Quantity must be a number")
)
