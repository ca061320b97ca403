package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/repositories"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

// mentionPattern matches @handle and @email tokens. A fixed lexical
// pattern, not a parser: handles are word characters, emails keep their
// local-part punctuation. The leading guard keeps the @ inside a plain
// email written in prose (alice@example.com) from reading as a mention
// of its domain.
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9._%+-])@([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}|[A-Za-z0-9_]+)`)

// MentionTokens extracts the distinct mention tokens from free text, in
// order of first appearance, without the leading @. Comparison is
// case-insensitive.
func MentionTokens(text string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		token := match[1]
		lower := strings.ToLower(token)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// MentionService resolves mention tokens against the user directory and
// fans out mention notifications.
type MentionService struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewMentionService creates a new MentionService
func NewMentionService(users repositories.UserRepository, notifications repositories.NotificationRepository) *MentionService {
	return &MentionService{users: users, notifications: notifications}
}

// Dispatch scans text for mentions and creates one mention notification
// per resolved recipient. It runs inside the caller's write transaction
// so notification rows commit with the content that produced them.
//
// Rules: unknown handles are skipped silently, the author never notifies
// themselves, each resolved user is counted once, and a recipient already
// holding a mention notification for this notifiable is skipped — so
// re-running on an edited text is idempotent. Returns the rows it
// created for the caller to broadcast after commit.
func (s *MentionService) Dispatch(tx *gorm.DB, actorID uint, text string, notifiable models.Ref) ([]models.Notification, error) {
	users := s.users.WithTx(tx)
	notifications := s.notifications.WithTx(tx)

	notified := make(map[uint]bool)
	var created []models.Notification
	for _, token := range MentionTokens(text) {
		user, err := users.FindByHandle(token)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			logging.Debug().Str("token", token).Msg("mention token did not resolve, skipping")
			continue
		}
		if user.ID == actorID || notified[user.ID] {
			continue
		}
		notified[user.ID] = true

		exists, err := notifications.Exists(notifiable, user.ID, models.NotificationMention)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		notification := models.Notification{
			RecipientID:      user.ID,
			ActorID:          actorID,
			NotifiableKind:   notifiable.Kind,
			NotifiableID:     notifiable.ID,
			NotificationType: models.NotificationMention,
		}
		if err := notifications.CreateNotification(&notification); err != nil {
			return nil, err
		}
		created = append(created, notification)
	}
	return created, nil
}
