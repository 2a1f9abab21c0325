package notify_service

import (
	"context"
	"sync"
)

type NotificationServiceMock struct {
	mutex sync.Mutex

	Requests []EmailRequest
	FailWith error
}

func NewNotificationServiceMock() *NotificationServiceMock {
	return &NotificationServiceMock{}
}

func (mock *NotificationServiceMock) NotifyByMail(ctx context.Context, request EmailRequest) error {
	mock.mutex.Lock()
	defer mock.mutex.Unlock()

	if mock.FailWith != nil {
		return mock.FailWith
	}
	mock.Requests = append(mock.Requests, request)
	return nil
}
