package notify_service

import (
	"context"
)

type INotificationService interface {
	NotifyByMail(ctx context.Context, request EmailRequest) error
}

type EmailRequest struct {
	From    string
	To      string
	Subject string
	Body    string
}
