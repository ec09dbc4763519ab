// Package mailer delivers password reset mail. The AMQP mailer hands the
// message to a queue consumed by an external mail worker.
package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rongwang/fintrack/internal/utils"
)

// Mailer sends password reset notifications
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error
}

// PasswordResetMessage is the payload put on the mail queue
type PasswordResetMessage struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (m PasswordResetMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LogMailer only logs the delivery. Used when no broker is configured.
type LogMailer struct {
	log utils.Logger
}

func NewLogMailer(log utils.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error {
	// the token is a credential and stays out of the log
	m.log.Info(ctx, "password reset mail not delivered, no broker configured",
		"to", msg.To, "expiresAt", msg.ExpiresAt)
	return nil
}
