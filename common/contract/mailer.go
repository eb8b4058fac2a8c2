package contract

//go:generate mockgen -source=mailer.go -destination=mocks/mailer.go -package=mocks

import (
	"context"
	"museum-ticket/model"
)

type Mailer interface {
	Send(ctx context.Context, to []string, subject string, body string, attachments ...model.Attachment) error
}
