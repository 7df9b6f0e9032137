package service

import (
	"context"
	"fmt"
	"time"

	"github.com/levitica/hireflow/config"
	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"
)

const (
	OutcomeQualified   = "qualified"
	OutcomeRegret      = "regret"
	OutcomeShortlisted = "shortlisted"
	OutcomeOTP         = "otp"
)

// Outcome is the decision (or challenge) a notification announces.
type Outcome struct {
	Kind          string
	CandidateName string
	Assessment    string
	Score         float64
	Role          string
	Code          string
	Validity      time.Duration
}

// DeliveryResult reports best-effort delivery. Notification failure never
// rolls back or retries the decision that triggered it: scoring is
// authoritative, mail is advisory.
type DeliveryResult struct {
	OK     bool
	Reason string
}

type NotificationDispatcher interface {
	Notify(ctx context.Context, recipient string, outcome Outcome) DeliveryResult
}

// Mailer is the raw transport behind the dispatcher.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	dialer.SSL = cfg.SMTP.Port == 465
	return &smtpMailer{dialer: dialer, from: cfg.SMTP.From}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

type notificationDispatcher struct {
	mailer Mailer
}

func NewNotificationDispatcher(mailer Mailer) NotificationDispatcher {
	return &notificationDispatcher{mailer: mailer}
}

func (d *notificationDispatcher) Notify(ctx context.Context, recipient string, outcome Outcome) DeliveryResult {
	subject, body := composeMessage(outcome)

	if err := d.mailer.Send(recipient, subject, body); err != nil {
		log.Error().Err(err).Str("recipient", recipient).Str("kind", outcome.Kind).Msg("Outcome mail delivery failed")
		return DeliveryResult{OK: false, Reason: err.Error()}
	}

	log.Info().Str("recipient", recipient).Str("kind", outcome.Kind).Msg("Outcome mail sent")
	return DeliveryResult{OK: true}
}

func composeMessage(outcome Outcome) (subject, body string) {
	name := outcome.CandidateName
	if name == "" {
		name = "Candidate"
	}

	switch outcome.Kind {
	case OutcomeOTP:
		subject = "Your verification code"
		body = fmt.Sprintf("Hello %s,\n\nYour OTP is: %s\nIt is valid for %d minutes.\n",
			name, outcome.Code, int(outcome.Validity.Minutes()))
	case OutcomeQualified:
		subject = "Congratulations - Assessment Result"
		body = fmt.Sprintf("Dear %s,\n\nCongratulations! You have qualified the %s round and will move to the next stage of interviews.\n\nBest regards,\nHR Team\n",
			name, outcome.Assessment)
	case OutcomeRegret:
		subject = "Assessment Result"
		body = fmt.Sprintf("Dear %s,\n\nThank you for participating in the %s assessment. Unfortunately, you did not qualify this time. We encourage you to reapply in the future.\n\nBest regards,\nHR Team\n",
			name, outcome.Assessment)
	case OutcomeShortlisted:
		subject = fmt.Sprintf("Your Resume Screening Result for %s", outcome.Role)
		body = fmt.Sprintf("Hi %s,\n\nYour resume scored %.1f for the %s position in our screening. You have been shortlisted; our team will reach out with next steps.\n\nBest regards,\nTalent Team\n",
			name, outcome.Score, outcome.Role)
	default:
		subject = "Assessment Update"
		body = fmt.Sprintf("Dear %s,\n\nThere is an update on your application.\n\nBest regards,\nHR Team\n", name)
	}
	return subject, body
}
