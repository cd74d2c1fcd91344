package orders

import (
	"fmt"
	"time"

	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// statusSequence is the forward delivery path. Canceled sits outside it.
var statusSequence = []enums.OrderStatus{
	enums.OrderStatusCreated,
	enums.OrderStatusConfirmed,
	enums.OrderStatusPreparing,
	enums.OrderStatusOutForDelivery,
	enums.OrderStatusDelivered,
}

// StatusStep returns the 1-based position of a status on the delivery path,
// or 0 for canceled and unknown statuses.
func StatusStep(status enums.OrderStatus) int {
	for i, candidate := range statusSequence {
		if candidate == status {
			return i + 1
		}
	}
	return 0
}

// ProgressPercent converts a status into tracker progress, 0-100.
func ProgressPercent(status enums.OrderStatus) int {
	return StatusStep(status) * 100 / len(statusSequence)
}

// ETAText renders the delivery estimate a customer sees on the tracker. An
// explicit estimate wins; without one each status falls back to a fixed
// range. Estimates in the past read as imminent rather than negative.
func ETAText(eta *time.Time, status enums.OrderStatus, now time.Time) string {
	if eta == nil {
		return fallbackETA(status)
	}

	remaining := eta.Sub(now)
	if remaining < time.Minute {
		return "Any moment now!"
	}

	minutes := int(remaining.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func fallbackETA(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusCreated:
		return "45-60 minutes"
	case enums.OrderStatusConfirmed:
		return "35-50 minutes"
	case enums.OrderStatusPreparing:
		return "25-40 minutes"
	case enums.OrderStatusOutForDelivery:
		return "10-20 minutes"
	case enums.OrderStatusDelivered:
		return "Delivered"
	case enums.OrderStatusCanceled:
		return "Canceled"
	default:
		return ""
	}
}
