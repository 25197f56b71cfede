package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cardsight/apps/server/internal/ledger"
)

var (
	ErrInvalidName        = errors.New("profile name must be 1-32 characters")
	ErrInvalidPin         = errors.New("pin must be 4-8 digits")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidCredentials = errors.New("invalid profile name or pin")
)

// Service manages named player profiles. PINs are stored bcrypt-hashed in
// the ledger; verification is required before a session switches profiles.
type Service struct {
	store ledger.Service
}

func New(store ledger.Service) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, name, pin string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 32 {
		return ErrInvalidName
	}
	if !validPin(pin) {
		return ErrInvalidPin
	}
	if _, err := s.store.GetProfile(ctx, name); err == nil {
		return ErrProfileExists
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpsertProfile(ctx, ledger.Profile{
		Name:      name,
		PinHash:   string(hash),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) Verify(ctx context.Context, name, pin string) error {
	p, err := s.store.GetProfile(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PinHash), []byte(pin)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.ListProfiles(ctx)
}

func (s *Service) Stats(ctx context.Context, name string) (ledger.Stats, error) {
	return s.store.Stats(ctx, strings.TrimSpace(name))
}

// SpokenStats renders the rollup as one speakable sentence.
func (s *Service) SpokenStats(ctx context.Context, name string) (string, error) {
	stats, err := s.Stats(ctx, name)
	if err != nil {
		return "", err
	}
	if stats.Rounds == 0 {
		return "No rounds recorded yet.", nil
	}

	line := fmt.Sprintf("You have played %d %s: %d won, %d lost, %d pushed.",
		stats.Rounds, plural(stats.Rounds, "round", "rounds"),
		stats.Wins, stats.Losses, stats.Pushes)
	if stats.Blackjacks > 0 {
		line += fmt.Sprintf(" %d %s.", stats.Blackjacks, plural(stats.Blackjacks, "blackjack", "blackjacks"))
	}
	switch {
	case stats.CurrentStreak > 1:
		line += fmt.Sprintf(" You are on a %d win streak.", stats.CurrentStreak)
	case stats.CurrentStreak < -1:
		line += fmt.Sprintf(" You have lost %d in a row.", -stats.CurrentStreak)
	}
	return line, nil
}

func validPin(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
