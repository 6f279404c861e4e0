package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
)

// MaxNicknameLength is counted in characters.
const MaxNicknameLength = 8

var nicknameForbidden = regexp.MustCompile(`[^a-zA-Z0-9\x{3040}-\x{30FF}\x{4E00}-\x{9FFF}]`)

// RegisterRequest starts a new learner on a word list at a pace.
type RegisterRequest struct {
	Nickname     string `json:"nickname"`
	Tag          string `json:"tag"`
	DurationDays int    `json:"durationDays"`
}

// ValidateNickname checks a nickname: non-empty, at most eight characters,
// letters, digits, kana and kanji only.
func ValidateNickname(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return errors.NewValidationError("nickname", "must not be empty")
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return errors.NewValidationError("nickname", "must be at most 8 characters")
	}
	if nicknameForbidden.MatchString(nickname) {
		return errors.NewValidationError("nickname", "must not contain symbols")
	}
	return nil
}

// Register initializes the word list for req.Tag and creates the user
// record. The remote insert is queued and never blocks registration.
func (s *learningService) Register(ctx context.Context, req RegisterRequest) (models.UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	if err := ValidateNickname(req.Nickname); err != nil {
		return models.UserData{}, err
	}
	if !plan.ValidPace(req.DurationDays) {
		return models.UserData{}, errors.NewValidationError("durationDays", "must be 3, 5 or 9")
	}

	user, err := s.Initialize(ctx, req.Tag)
	if err != nil {
		return models.UserData{}, err
	}

	user.UserID = uuid.NewString()
	user.UserName = req.Nickname
	user.CreatedAt = s.Today()
	user.LearningPlan = plan.SetPace(user.LearningPlan, req.DurationDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Users.Save(ctx, user); err != nil {
		log.Error("failed to save user data: %v", err)
		return models.UserData{}, errors.NewInternalError(err)
	}
	if err := s.deps.Sync.EnqueueInsert(user); err != nil {
		log.Warn("failed to queue remote insert: %v", err)
	}

	log.Info("registered user %s on %q at %d-day pace", user.UserID, user.Tag, req.DurationDays)
	return user, nil
}
