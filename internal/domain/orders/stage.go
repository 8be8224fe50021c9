package orders

import (
	"fmt"

	"seratus-studio/internal/apperr"
)

// Stage is the combined payment/delivery state of an order.
type Stage string

const (
	StageAwaitingPayment Stage = "awaiting_payment"
	StagePaymentFailed   Stage = "payment_failed"
	StagePaid            Stage = "paid"
	StageProcessing      Stage = "processing"
	StageDelivered       Stage = "delivered"
	StageDeliveryFailed  Stage = "delivery_failed"
	StageRefunded        Stage = "refunded"
)

var transitions = map[Stage][]Stage{
	StageAwaitingPayment: {StagePaid, StagePaymentFailed},
	StagePaymentFailed:   {StageRefunded},
	StagePaid:            {StageProcessing, StageDelivered, StageDeliveryFailed, StageRefunded},
	StageProcessing:      {StageDelivered, StageDeliveryFailed, StageRefunded},
	StageDelivered:       {StageRefunded},
	StageDeliveryFailed:  {StageRefunded},
	StageRefunded:        {},
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPending, DeliveryProcessing, DeliveryDelivered, DeliveryFailed:
		return true
	}
	return false
}

// StageOf maps a status pair onto a Stage. Pairs with no stage, such as
// delivered while payment is pending, are rejected.
func StageOf(payment, delivery string) (Stage, error) {
	if payment == PaymentRefunded {
		return StageRefunded, nil
	}
	switch {
	case payment == PaymentPending && delivery == DeliveryPending:
		return StageAwaitingPayment, nil
	case payment == PaymentFailed && delivery == DeliveryPending:
		return StagePaymentFailed, nil
	case payment == PaymentPaid:
		switch delivery {
		case DeliveryPending:
			return StagePaid, nil
		case DeliveryProcessing:
			return StageProcessing, nil
		case DeliveryDelivered:
			return StageDelivered, nil
		case DeliveryFailed:
			return StageDeliveryFailed, nil
		}
	}
	return "", apperr.InvalidState(fmt.Sprintf("Invalid status combination: payment %q with delivery %q", payment, delivery))
}

func CanTransition(from, to Stage) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition validates moving an order from one status pair to another.
func CheckTransition(fromPayment, fromDelivery, toPayment, toDelivery string) (Stage, error) {
	from, err := StageOf(fromPayment, fromDelivery)
	if err != nil {
		return "", err
	}
	to, err := StageOf(toPayment, toDelivery)
	if err != nil {
		return "", err
	}
	if from == StageRefunded && fromDelivery != toDelivery {
		return "", apperr.InvalidState("Refunded orders cannot change delivery status")
	}
	if !CanTransition(from, to) {
		return "", apperr.InvalidState(fmt.Sprintf("Cannot move order from %s to %s", from, to))
	}
	return to, nil
}
