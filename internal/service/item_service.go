package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "item_service").Logger()
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   &l,
		now:      time.Now,
	}
}

var _ domain.ItemService = (*ItemService)(nil)

// WithBookings returns the item with its comments. Only the owner also gets
// the last and next bookings.
func (s *ItemService) WithBookings(ctx context.Context, itemID, requesterID int64) (_ *models.ItemView, err error) {
	defer observe(s.logger, "item.with_bookings", time.Now(), &err)

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	view := newItemView(item, comments)

	if item.OwnerID != requesterID {
		return view, nil
	}

	bookings, err := s.repo.GetBookingsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	view.LastBooking, view.NextBooking = lastAndNext(bookings, s.now())
	return view, nil
}

// ListByOwnerWithBookings builds owner views for every item of ownerID with
// one bookings query and one comments query in total.
func (s *ItemService) ListByOwnerWithBookings(ctx context.Context, ownerID int64) (_ []*models.ItemView, err error) {
	defer observe(s.logger, "item.list_by_owner", time.Now(), &err)

	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemView{}, nil
	}

	ids := itemIDs(items)
	bookings, err := s.repo.GetBookingsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.GetCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	bookingsByItem := make(map[int64][]*models.Booking, len(items))
	for _, b := range bookings {
		bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
	}
	commentsByItem := groupComments(comments)

	now := s.now()
	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view := newItemView(item, commentsByItem[item.ID])
		view.LastBooking, view.NextBooking = lastAndNext(bookingsByItem[item.ID], now)
		views = append(views, view)
	}
	return views, nil
}

// Search finds available items whose name or description contains text.
func (s *ItemService) Search(ctx context.Context, text string) (_ []*models.ItemView, err error) {
	defer observe(s.logger, "item.search", time.Now(), &err)

	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.ItemView{}, nil
	}

	items, err := s.repo.SearchAvailableItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemView{}, nil
	}

	comments, err := s.repo.GetCommentsByItems(ctx, itemIDs(items))
	if err != nil {
		return nil, err
	}
	commentsByItem := groupComments(comments)

	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item, commentsByItem[item.ID]))
	}
	return views, nil
}

// lastAndNext picks the latest booking starting at or before now and the
// earliest one starting after now. Status is not considered.
func lastAndNext(bookings []*models.Booking, now time.Time) (last, next *models.BookingView) {
	var lastB, nextB *models.Booking
	for _, b := range bookings {
		if b.Start.After(now) {
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
			continue
		}
		if lastB == nil || b.Start.After(lastB.Start) {
			lastB = b
		}
	}
	if lastB != nil {
		last = lastB.View()
	}
	if nextB != nil {
		next = nextB.View()
	}
	return last, next
}

func newItemView(item *models.Item, comments []*models.Comment) *models.ItemView {
	view := &models.ItemView{Item: *item, Comments: make([]models.Comment, 0, len(comments))}
	for _, c := range comments {
		view.Comments = append(view.Comments, *c)
	}
	return view
}

func groupComments(comments []*models.Comment) map[int64][]*models.Comment {
	grouped := make(map[int64][]*models.Comment)
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped
}

func itemIDs(items []*models.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
