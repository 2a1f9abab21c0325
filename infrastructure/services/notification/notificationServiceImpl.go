package notify_service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"

	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
)

type iNotificationServiceImpl struct {
	smtpAddress string
	auth        smtp.Auth
	fromAddress string
}

func NewNotificationService(host string, port int, user, pass, fromAddress string) INotificationService {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &iNotificationServiceImpl{
		smtpAddress: fmt.Sprintf("%s:%d", host, port),
		auth:        auth,
		fromAddress: fromAddress,
	}
}

func (notify iNotificationServiceImpl) NotifyByMail(ctx context.Context, request EmailRequest) error {
	from := request.From
	if from == "" {
		from = notify.fromAddress
	}

	var message strings.Builder
	message.WriteString("From: " + from + "\r\n")
	message.WriteString("To: " + request.To + "\r\n")
	message.WriteString("Subject: " + request.Subject + "\r\n")
	message.WriteString("\r\n")
	message.WriteString(request.Body)
	message.WriteString("\r\n")

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(notify.smtpAddress, notify.auth, from, []string{request.To}, []byte(message.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			applog.Err("send order update email failed, to: %s, error: %s", request.To, err.Error())
			return errors.Wrapf(err, "send email to '%s' failed", request.To)
		}
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "send email to '%s' aborted", request.To)
	}

	applog.Audit("order update email sent, to: %s, subject: %s", request.To, request.Subject)
	return nil
}
