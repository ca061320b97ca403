package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/repositories"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

// ToggleResult reports how a toggle resolved. Reaction is nil when the
// toggle removed the user's reaction.
type ToggleResult struct {
	Action         models.ToggleAction `json:"action"`
	Reaction       *models.Reaction    `json:"reaction,omitempty"`
	ReactionsCount int                 `json:"reactions_count"`
}

// ReactionService is the toggle engine. Correctness under concurrent
// toggles from the same user rests on the (user, reactionable) unique
// index plus transactional update-in-place, not on application locking.
type ReactionService struct {
	db            *gorm.DB
	reactions     repositories.ReactionRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	events        *realtime.Broadcaster
}

// NewReactionService creates a new ReactionService
func NewReactionService(
	db *gorm.DB,
	reactions repositories.ReactionRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	notifications repositories.NotificationRepository,
	events *realtime.Broadcaster,
) *ReactionService {
	return &ReactionService{
		db:            db,
		reactions:     reactions,
		posts:         posts,
		comments:      comments,
		notifications: notifications,
		events:        events,
	}
}

// Toggle applies the add/change/remove state transition for the user's
// reaction on target:
//
//   - no reaction yet: create it, counter +1, action "added"
//   - same type exists: delete it, counter -1, action "removed"
//   - other type exists: update type in place, counter unchanged, "changed"
//
// A unique-constraint violation means a concurrent request won the race;
// the toggle retries once against the now-current state instead of
// surfacing the conflict. Broadcasts fire only after the transaction has
// committed.
func (s *ReactionService) Toggle(ctx context.Context, userID uint, target models.Ref, reactionType models.ReactionType) (*ToggleResult, error) {
	if target.Kind != models.KindPost && target.Kind != models.KindComment {
		return nil, fmt.Errorf("reactionable kind %q not allowed", target.Kind)
	}

	result, notification, err := s.toggleOnce(ctx, userID, target, reactionType)
	if isUniqueViolation(err) {
		logging.Debug().Uint("user_id", userID).Str("target", target.String()).
			Msg("toggle lost a concurrent race, retrying against current state")
		result, notification, err = s.toggleOnce(ctx, userID, target, reactionType)
	}
	if err != nil {
		return nil, err
	}

	// Post-commit broadcasts. Subscribers get the refreshed entity with
	// its new counters; the acting user's own reaction state travels only
	// in the HTTP response above.
	s.broadcastTarget(ctx, target)
	if notification != nil {
		s.events.NotificationCreated(notification)
	}
	return result, nil
}

func (s *ReactionService) toggleOnce(ctx context.Context, userID uint, target models.Ref, reactionType models.ReactionType) (*ToggleResult, *models.Notification, error) {
	var result ToggleResult
	var notification *models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reactions := s.reactions.WithTx(tx)

		existing, err := reactions.GetByUserAndTarget(userID, target)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := &models.Reaction{
				UserID:           userID,
				ReactionableKind: target.Kind,
				ReactionableID:   target.ID,
				ReactionType:     reactionType,
			}
			if err := reactions.CreateReaction(reaction); err != nil {
				return err
			}
			if err := s.addReactionsCount(tx, target, 1); err != nil {
				return err
			}
			result = ToggleResult{Action: models.ToggleAdded, Reaction: reaction}

			ownerID, err := s.targetOwner(tx, target)
			if err != nil {
				return err
			}
			if ownerID != userID {
				notification = &models.Notification{
					RecipientID:      ownerID,
					ActorID:          userID,
					NotifiableKind:   models.KindReaction,
					NotifiableID:     reaction.ID,
					NotificationType: reactionNotificationType(target.Kind),
				}
				if err := s.notifications.WithTx(tx).CreateNotification(notification); err != nil {
					return err
				}
			}

		case err != nil:
			return err

		case existing.ReactionType == reactionType:
			if err := reactions.DeleteReaction(existing.ID); err != nil {
				return err
			}
			if err := s.addReactionsCount(tx, target, -1); err != nil {
				return err
			}
			notification = nil
			result = ToggleResult{Action: models.ToggleRemoved}

		default:
			// Update in place instead of delete+insert so there is no
			// window where the unique index sees zero rows.
			if err := reactions.UpdateType(existing.ID, reactionType); err != nil {
				return err
			}
			existing.ReactionType = reactionType
			notification = nil
			result = ToggleResult{Action: models.ToggleChanged, Reaction: existing}
		}

		count, err := s.targetReactionsCount(tx, target)
		if err != nil {
			return err
		}
		result.ReactionsCount = count
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &result, notification, nil
}

func (s *ReactionService) addReactionsCount(tx *gorm.DB, target models.Ref, delta int) error {
	switch target.Kind {
	case models.KindPost:
		return s.posts.WithTx(tx).AddReactionsCount(target.ID, delta)
	case models.KindComment:
		return s.comments.WithTx(tx).AddReactionsCount(target.ID, delta)
	default:
		return fmt.Errorf("reactionable kind %q not allowed", target.Kind)
	}
}

func (s *ReactionService) targetOwner(tx *gorm.DB, target models.Ref) (uint, error) {
	switch target.Kind {
	case models.KindPost:
		post, err := s.posts.WithTx(tx).GetPostByID(target.ID)
		if err != nil {
			return 0, err
		}
		return post.UserID, nil
	case models.KindComment:
		comment, err := s.comments.WithTx(tx).GetCommentByID(target.ID)
		if err != nil {
			return 0, err
		}
		return comment.UserID, nil
	default:
		return 0, fmt.Errorf("reactionable kind %q not allowed", target.Kind)
	}
}

func (s *ReactionService) targetReactionsCount(tx *gorm.DB, target models.Ref) (int, error) {
	switch target.Kind {
	case models.KindPost:
		post, err := s.posts.WithTx(tx).GetPostByID(target.ID)
		if err != nil {
			return 0, err
		}
		return post.ReactionsCount, nil
	case models.KindComment:
		comment, err := s.comments.WithTx(tx).GetCommentByID(target.ID)
		if err != nil {
			return 0, err
		}
		return comment.ReactionsCount, nil
	default:
		return 0, fmt.Errorf("reactionable kind %q not allowed", target.Kind)
	}
}

// broadcastTarget republishes the refreshed reactionable with its new
// counters so every subscriber replaces its cached copy.
func (s *ReactionService) broadcastTarget(ctx context.Context, target models.Ref) {
	switch target.Kind {
	case models.KindPost:
		post, err := s.posts.GetPostByID(target.ID)
		if err != nil {
			logging.Error().Err(err).Str("target", target.String()).Msg("broadcast skipped, refetch failed")
			return
		}
		s.events.PostUpdated(post)
	case models.KindComment:
		comment, err := s.comments.GetCommentByID(target.ID)
		if err != nil {
			logging.Error().Err(err).Str("target", target.String()).Msg("broadcast skipped, refetch failed")
			return
		}
		s.events.CommentUpdated(comment)
	}
}

func reactionNotificationType(kind models.EntityKind) models.NotificationType {
	if kind == models.KindComment {
		return models.NotificationReactionOnComment
	}
	return models.NotificationReactionOnPost
}
