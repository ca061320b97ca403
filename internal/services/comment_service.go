package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/repositories"
)

// CommentService owns comment writes: the structural notification to the
// parent's owner, mention fanout, counter caches on the direct parent,
// and the post-commit broadcast to the parent's channel scope.
type CommentService struct {
	db            *gorm.DB
	comments      repositories.CommentRepository
	posts         repositories.PostRepository
	reactions     repositories.ReactionRepository
	notifications repositories.NotificationRepository
	mentions      *MentionService
	events        *realtime.Broadcaster
}

// NewCommentService creates a new CommentService
func NewCommentService(
	db *gorm.DB,
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	reactions repositories.ReactionRepository,
	notifications repositories.NotificationRepository,
	mentions *MentionService,
	events *realtime.Broadcaster,
) *CommentService {
	return &CommentService{
		db:            db,
		comments:      comments,
		posts:         posts,
		reactions:     reactions,
		notifications: notifications,
		mentions:      mentions,
		events:        events,
	}
}

// Create writes a comment under a post or another comment. Notification
// rows (structural plus mentions) commit in the same transaction as the
// comment; broadcasts fire only after commit.
func (s *CommentService) Create(ctx context.Context, userID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	parent := models.Ref{Kind: req.CommentableKind, ID: req.CommentableID}

	var comment *models.Comment
	var createdNotifications []models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownerID, err := s.commentableOwner(tx, parent)
		if err != nil {
			return err
		}

		comment = &models.Comment{
			UserID:          userID,
			Description:     req.Description,
			CommentableKind: parent.Kind,
			CommentableID:   parent.ID,
		}
		if err := s.comments.WithTx(tx).CreateComment(comment); err != nil {
			return err
		}
		if err := s.addCommentsCount(tx, parent, 1); err != nil {
			return err
		}

		if ownerID != userID {
			structural := models.Notification{
				RecipientID:      ownerID,
				ActorID:          userID,
				NotifiableKind:   models.KindComment,
				NotifiableID:     comment.ID,
				NotificationType: structuralNotificationType(parent.Kind),
			}
			if err := s.notifications.WithTx(tx).CreateNotification(&structural); err != nil {
				return err
			}
			createdNotifications = append(createdNotifications, structural)
		}

		mentionNotifications, err := s.mentions.Dispatch(tx, userID, comment.Description, models.CommentRef(comment.ID))
		if err != nil {
			return err
		}
		createdNotifications = append(createdNotifications, mentionNotifications...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.CommentCreated(comment)
	s.events.NotificationsCreated(createdNotifications)
	return comment, nil
}

// Update edits a comment's text. Mention dispatch re-runs and is
// idempotent: recipients already notified for this comment get nothing,
// newly mentioned users get exactly one mention notification.
func (s *CommentService) Update(ctx context.Context, userID, commentID uint, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	var mentionNotifications []models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment.Description = req.Description
		if err := s.comments.WithTx(tx).UpdateComment(comment); err != nil {
			return err
		}
		mentionNotifications, err = s.mentions.Dispatch(tx, userID, comment.Description, models.CommentRef(comment.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.CommentUpdated(comment)
	s.events.NotificationsCreated(mentionNotifications)
	return comment, nil
}

// Delete removes a comment, every descendant reply, and the reactions on
// each destroyed comment, then broadcasts the deletion on the parent's
// channel scope.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := s.comments.WithTx(tx)

		descendants, err := comments.DescendantIDs(commentID)
		if err != nil {
			return err
		}
		doomed := append([]uint{commentID}, descendants...)

		if _, err := s.reactions.WithTx(tx).DeleteByComments(doomed); err != nil {
			return err
		}
		if err := comments.DeleteByIDs(doomed); err != nil {
			return err
		}
		return s.addCommentsCount(tx, comment.Commentable(), -1)
	})
	if err != nil {
		return err
	}

	s.events.CommentDeleted(comment)
	return nil
}

// RootPostID resolves the root post a comment ultimately hangs off.
func (s *CommentService) RootPostID(commentID uint) (uint, error) {
	return s.comments.RootPostID(commentID)
}

// commentableOwner verifies the parent exists and returns its owner.
func (s *CommentService) commentableOwner(tx *gorm.DB, parent models.Ref) (uint, error) {
	switch parent.Kind {
	case models.KindPost:
		post, err := s.posts.WithTx(tx).GetPostByID(parent.ID)
		if err != nil {
			return 0, err
		}
		return post.UserID, nil
	case models.KindComment:
		comment, err := s.comments.WithTx(tx).GetCommentByID(parent.ID)
		if err != nil {
			return 0, err
		}
		return comment.UserID, nil
	default:
		return 0, fmt.Errorf("commentable kind %q not allowed", parent.Kind)
	}
}

func (s *CommentService) addCommentsCount(tx *gorm.DB, parent models.Ref, delta int) error {
	switch parent.Kind {
	case models.KindPost:
		return s.posts.WithTx(tx).AddCommentsCount(parent.ID, delta)
	case models.KindComment:
		return s.comments.WithTx(tx).AddCommentsCount(parent.ID, delta)
	default:
		return fmt.Errorf("commentable kind %q not allowed", parent.Kind)
	}
}

func structuralNotificationType(parentKind models.EntityKind) models.NotificationType {
	if parentKind == models.KindComment {
		return models.NotificationReplyToComment
	}
	return models.NotificationCommentOnPost
}
