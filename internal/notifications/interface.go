package notifications

import "github.com/wecar/marketing-platform/internal/models"

// NotificationInterface defines the contract for digest delivery
type NotificationInterface interface {
	SendDigest(report *models.ActivityReport) error
}
