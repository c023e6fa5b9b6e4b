// internal/services/contact_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ContactService struct {
	messages repository.ContactRepository
	notifier Notifier
}

type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ReplyContactRequest struct {
	Reply string `json:"reply" validate:"required,max=10000"`
}

func NewContactService(messages repository.ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{messages: messages, notifier: notifier}
}

// Submit stores the message first; the acknowledgement mail is best effort.
func (s *ContactService) Submit(ctx context.Context, req *SubmitContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: req.Message,
	}
	if subject := strings.TrimSpace(req.Subject); subject != "" {
		msg.Subject = &subject
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	if s.notifier != nil {
		go func() {
			if err := s.notifier.ContactReceived(msg); err != nil {
				logrus.WithError(err).WithField("contact_id", msg.ID).Warn("Failed to send contact acknowledgement")
			}
		}()
	}
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error) {
	return s.messages.List(ctx, params)
}

// Reply stores the answer and mails it to the sender. A mail failure is
// returned after the reply is already saved.
func (s *ContactService) Reply(ctx context.Context, admin Actor, id uuid.UUID, req *ReplyContactRequest) (*models.ContactMessage, error) {
	if strings.TrimSpace(req.Reply) == "" {
		return nil, invalid("reply is required")
	}
	if _, err := s.messages.FindByID(ctx, id); err != nil {
		return nil, orNotFound(err, "contact")
	}

	if err := s.messages.MarkReplied(ctx, id, req.Reply, admin.ID, time.Now()); err != nil {
		return nil, orNotFound(err, "contact")
	}

	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.ContactReplied(msg); err != nil {
			return msg, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
		}
	}
	return msg, nil
}
