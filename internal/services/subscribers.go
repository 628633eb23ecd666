package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "carnet-api/internal/errors"
)

// SubscriberService owns the "subscribers" collection: a flat set of
// email addresses with case-insensitive membership.
type SubscriberService struct {
	docs *DocumentStore
	key  string
}

func NewSubscriberService(docs *DocumentStore, objectKey string) *SubscriberService {
	return &SubscriberService{
		docs: docs,
		key:  objectKey,
	}
}

// List returns all subscribers in stored order. Iteration order is
// stable so notification fan-out is reproducible.
func (s *SubscriberService) List(ctx context.Context) ([]string, error) {
	var subscribers []string
	if err := s.docs.Load(ctx, s.key, &subscribers); err != nil {
		return nil, err
	}
	return subscribers, nil
}

// Subscribe normalizes the address and appends it to the collection.
// Returns ErrAlreadyExists if the address is already subscribed.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	subscribers, err := s.List(ctx)
	if err != nil {
		return err
	}

	for _, existing := range subscribers {
		if strings.EqualFold(existing, email) {
			return fmt.Errorf("subscriber %q: %w", email, apperrors.ErrAlreadyExists)
		}
	}

	subscribers = append(subscribers, email)
	return s.docs.Save(ctx, s.key, subscribers)
}

// Unsubscribe removes the address if present. Removing an address that
// was never subscribed is a no-op, not an error, and causes no write.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	subscribers, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(subscribers))
	for _, existing := range subscribers {
		if !strings.EqualFold(existing, email) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(subscribers) {
		return nil
	}

	return s.docs.Save(ctx, s.key, kept)
}

// Trims and lower-cases the address, then applies the journal's
// deliberately weak structural check: an "@" with a "." somewhere
// after it. This is not RFC-compliant validation and does not try
// to be.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required: %w", apperrors.ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return "", fmt.Errorf("invalid email %q: %w", email, apperrors.ErrInvalidInput)
	}

	return email, nil
}
