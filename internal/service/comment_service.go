package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

// CreateComment lets a user comment on an item once a booking of theirs for
// it has ended. The booking status is not checked.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID int64, text string) (_ *models.Comment, err error) {
	defer observe(s.logger, "comment.create", time.Now(), &err)

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text must not be blank", domain.ErrValidation)
	}

	booking, err := s.repo.GetBookingByBookerAndItem(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !booking.End.Before(now) {
		return nil, fmt.Errorf("%w: booking %d has not ended yet", domain.ErrValidation, booking.ID)
	}

	author, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", item.ID).Int64("author_id", author.ID).Msg("comment created")
	publish(s.logger, s.eventBus, events.EventCommentCreated, events.CommentEventPayload{
		CommentID:  comment.ID,
		ItemID:     comment.ItemID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Text:       comment.Text,
	})

	return comment, nil
}
