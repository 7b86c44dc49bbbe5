package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"talent-portal/internal/domain"
	"talent-portal/internal/metrics"
	"talent-portal/internal/notify"
	"talent-portal/internal/storage"
)

const (
	DefaultNotifyFrom = "noreply@ittalentsolution.com"
	DefaultNotifyTo   = "hr.ittalentsolution@gmail.com"
)

// IntakeService processes public job applications.
type IntakeService interface {
	Submit(ctx context.Context, app domain.Application, file *domain.StagedFile) error
}

type IntakeConfig struct {
	From     string
	To       string
	Notifier notify.Notifier
	Cleanup  storage.CleanupScheduler
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type intakeService struct {
	from     string
	to       string
	notifier notify.Notifier
	cleanup  storage.CleanupScheduler
	logger   *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewIntakeService(cfg IntakeConfig) IntakeService {
	if cfg.From == "" {
		cfg.From = DefaultNotifyFrom
	}
	if cfg.To == "" {
		cfg.To = DefaultNotifyTo
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &intakeService{
		from:     cfg.From,
		to:       cfg.To,
		notifier: cfg.Notifier,
		cleanup:  cfg.Cleanup,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      cfg.Now,
	}
}

// Submit validates app, forwards it with the staged resume attached and
// schedules removal of the staged file whatever the outcome.
func (s *intakeService) Submit(ctx context.Context, app domain.Application, file *domain.StagedFile) error {
	if file != nil {
		defer s.cleanup.Schedule(file.Path)
	}

	app = trimApplication(app)
	entry := s.logger.WithFields(logrus.Fields{
		"email":    app.Email,
		"position": app.Position,
	})
	entry.WithField("state", domain.IntakeReceived).Debug("application received")

	if err := validateApplication(app, file); err != nil {
		s.metrics.Application("rejected")
		entry.WithFields(logrus.Fields{
			"state":  domain.IntakeRejected,
			"reason": domain.ReasonOf(err),
		}).Info("application rejected")
		return err
	}

	msg := ComposeNotification(app, file, s.from, s.to, s.now())
	entry.WithField("state", domain.IntakeNotifying).Debug("sending notification")

	// The send runs to completion even if the client goes away.
	if err := s.notifier.Send(context.WithoutCancel(ctx), msg); err != nil {
		s.metrics.Application("delivery_failed")
		entry.WithError(err).WithField("state", domain.IntakeRejected).Error("notification delivery failed")
		return domain.Wrap(domain.ErrDeliveryFailed, err)
	}

	s.metrics.Application("delivered")
	entry.WithFields(logrus.Fields{
		"state":  domain.IntakeDelivered,
		"resume": file.OriginalName,
	}).Info("application delivered")
	return nil
}

func validateApplication(app domain.Application, file *domain.StagedFile) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", app.FirstName},
		{"lastName", app.LastName},
		{"email", app.Email},
	}
	for _, field := range required {
		if field.value == "" {
			return domain.MissingField(field.name)
		}
	}
	if file == nil {
		return domain.ErrFileRequired
	}
	if !ConsentGiven(app.Consent) {
		return domain.ErrConsentRequired
	}
	return nil
}

// ConsentGiven reports whether a checkbox value is affirmative.
func ConsentGiven(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}

// ComposeNotification renders the email forwarded to the hiring inbox.
func ComposeNotification(app domain.Application, file *domain.StagedFile, from, to string, submitted time.Time) notify.Message {
	var b strings.Builder
	b.WriteString("New job application received from IT Talent Solution website:\n\n")

	b.WriteString("Personal Information:\n")
	fmt.Fprintf(&b, "- Name: %s %s\n", app.FirstName, app.LastName)
	fmt.Fprintf(&b, "- Email: %s\n", app.Email)
	fmt.Fprintf(&b, "- Phone: %s\n\n", orDefault(app.Phone, "Not provided"))

	b.WriteString("Professional Information:\n")
	fmt.Fprintf(&b, "- Position of Interest: %s\n", orDefault(app.Position, "Not specified"))
	fmt.Fprintf(&b, "- Years of Experience: %s\n", orDefault(app.Experience, "Not specified"))
	fmt.Fprintf(&b, "- Current Salary Range: %s\n", orDefault(app.CurrentSalary, "Not specified"))
	fmt.Fprintf(&b, "- Preferred Location: %s\n", orDefault(app.Location, "Not specified"))
	fmt.Fprintf(&b, "- Industry Interest: %s\n\n", orDefault(app.Industry, "Not specified"))

	b.WriteString("Cover Letter / Additional Information:\n")
	fmt.Fprintf(&b, "%s\n\n", orDefault(app.CoverLetter, "None provided"))

	msg := notify.Message{
		From:    from,
		To:      to,
		Subject: fmt.Sprintf("New Job Application - %s %s (%s)", app.FirstName, app.LastName, orDefault(app.Position, "General")),
	}
	if file != nil {
		fmt.Fprintf(&b, "Resume attached: %s\n\n", file.OriginalName)
		msg.Attachments = []notify.Attachment{{
			Filename:    file.OriginalName,
			Path:        file.Path,
			ContentType: file.ContentType,
		}}
	}

	consent := "No"
	if ConsentGiven(app.Consent) {
		consent = "Yes"
	}
	fmt.Fprintf(&b, "Consent given: %s\n\n", consent)
	fmt.Fprintf(&b, "Submitted on: %s\n", submitted.Format(time.RFC1123))

	msg.Body = b.String()
	return msg
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func trimApplication(app domain.Application) domain.Application {
	return domain.Application{
		FirstName:     strings.TrimSpace(app.FirstName),
		LastName:      strings.TrimSpace(app.LastName),
		Email:         strings.TrimSpace(app.Email),
		Phone:         strings.TrimSpace(app.Phone),
		Position:      strings.TrimSpace(app.Position),
		Experience:    strings.TrimSpace(app.Experience),
		CurrentSalary: strings.TrimSpace(app.CurrentSalary),
		Location:      strings.TrimSpace(app.Location),
		Industry:      strings.TrimSpace(app.Industry),
		CoverLetter:   strings.TrimSpace(app.CoverLetter),
		Consent:       strings.TrimSpace(app.Consent),
	}
}
