package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/repositories"
)

// PostService owns post writes: owner-only mutation, the cascade on
// destroy (comment tree, reactions, tag links), mention fanout on the
// description, and the post-commit broadcast to the global posts channel.
type PostService struct {
	db            *gorm.DB
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	reactions     repositories.ReactionRepository
	notifications repositories.NotificationRepository
	mentions      *MentionService
	events        *realtime.Broadcaster
}

// NewPostService creates a new PostService
func NewPostService(
	db *gorm.DB,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	notifications repositories.NotificationRepository,
	mentions *MentionService,
	events *realtime.Broadcaster,
) *PostService {
	return &PostService{
		db:            db,
		posts:         posts,
		comments:      comments,
		reactions:     reactions,
		notifications: notifications,
		mentions:      mentions,
		events:        events,
	}
}

// Create writes a post with its tags, dispatches mentions found in the
// description, and broadcasts the new post after commit.
func (s *PostService) Create(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	var post *models.Post
	var mentionNotifications []models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post = &models.Post{
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}
		for _, name := range req.TagNames {
			var tag models.Tag
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
				return err
			}
			post.Tags = append(post.Tags, tag)
		}
		if err := s.posts.WithTx(tx).CreatePost(post); err != nil {
			return err
		}

		var err error
		mentionNotifications, err = s.mentions.Dispatch(tx, userID, post.Description, models.PostRef(post.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.PostCreated(post)
	s.events.NotificationsCreated(mentionNotifications)
	return post, nil
}

// Update edits a post. Only the owner may mutate it. Mention dispatch
// re-runs idempotently against the updated description.
func (s *PostService) Update(ctx context.Context, userID, postID uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	var mentionNotifications []models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Title != "" {
			post.Title = req.Title
		}
		if req.Description != "" {
			post.Description = req.Description
		}
		if req.ImageURL != "" {
			post.ImageURL = req.ImageURL
		}
		if err := s.posts.WithTx(tx).UpdatePost(post); err != nil {
			return err
		}
		mentionNotifications, err = s.mentions.Dispatch(tx, userID, post.Description, models.PostRef(post.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.PostUpdated(post)
	s.events.NotificationsCreated(mentionNotifications)
	return post, nil
}

// Delete destroys a post and cascades: the entire comment tree under it,
// the reactions on the post and on every destroyed comment, and the tag
// links. Broadcasts delete_post after commit.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		comments := s.comments.WithTx(tx)
		reactions := s.reactions.WithTx(tx)

		direct, err := comments.GetCommentsByCommentable(models.PostRef(postID))
		if err != nil {
			return err
		}
		var doomed []uint
		for _, c := range direct {
			doomed = append(doomed, c.ID)
			descendants, err := comments.DescendantIDs(c.ID)
			if err != nil {
				return err
			}
			doomed = append(doomed, descendants...)
		}

		if _, err := reactions.DeleteByComments(doomed); err != nil {
			return err
		}
		if _, err := reactions.DeleteByTarget(models.PostRef(postID)); err != nil {
			return err
		}
		if err := comments.DeleteByIDs(doomed); err != nil {
			return err
		}
		if err := posts.ClearTags(postID); err != nil {
			return err
		}
		return posts.DeletePost(postID)
	})
	if err != nil {
		return err
	}

	s.events.PostDeleted(postID)
	return nil
}
