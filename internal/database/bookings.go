package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const selectBookings = `SELECT b.id, b.start_at, b.end_at, b.item_id, COALESCE(i.name, ''),
                 b.booker_id, COALESCE(u.name, ''), b.status, b.version,
                 b.created_at, b.updated_at
              FROM bookings b
              LEFT JOIN items i ON i.id = b.item_id
              LEFT JOIN users u ON u.id = b.booker_id`

const orderByStartDesc = ` ORDER BY b.start_at DESC, b.id DESC`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}
	query := `INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		utc(booking.Start),
		utc(booking.End),
		booking.ItemID,
		booking.BookerID,
		string(booking.Status),
		1,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Start = utc(booking.Start)
	booking.End = utc(booking.End)
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, selectBookings+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusWithVersion writes status only if the stored version still
// equals fromVersion, bumping it on success.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.Status) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, string(status), time.Now().UTC(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("booking %d version %d: %w", id, fromVersion, domain.ErrConcurrentModification)
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time) ([]*models.Booking, error) {
	clause, args, err := stateClause(state, now)
	if err != nil {
		return nil, err
	}
	query := selectBookings + ` WHERE b.booker_id = ?` + clause + orderByStartDesc
	return db.queryBookings(ctx, query, append([]interface{}{bookerID}, args...)...)
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time) ([]*models.Booking, error) {
	clause, args, err := stateClause(state, now)
	if err != nil {
		return nil, err
	}
	query := selectBookings + ` WHERE i.owner_id = ?` + clause + orderByStartDesc
	return db.queryBookings(ctx, query, append([]interface{}{ownerID}, args...)...)
}

func (db *DB) GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	return db.queryBookings(ctx, selectBookings+` WHERE b.item_id = ?`+orderByStartDesc, itemID)
}

func (db *DB) GetBookingsByItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return []*models.Booking{}, nil
	}
	query := selectBookings + ` WHERE b.item_id IN (` + placeholders(len(itemIDs)) + `)` + orderByStartDesc
	return db.queryBookings(ctx, query, int64Args(itemIDs)...)
}

// GetBookingByBookerAndItem returns the booker's booking of the item that ends first.
func (db *DB) GetBookingByBookerAndItem(ctx context.Context, bookerID, itemID int64) (*models.Booking, error) {
	query := selectBookings + ` WHERE b.booker_id = ? AND b.item_id = ? ORDER BY b.end_at ASC, b.id ASC LIMIT 1`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, bookerID, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking of item %d by user %d", domain.ErrNotFound, itemID, bookerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by booker and item: %w", err)
	}
	return booking, nil
}

// HasApprovedOverlap reports whether an approved booking of the item intersects [start, end).
func (db *DB) HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS(
                SELECT 1 FROM bookings
                WHERE item_id = ? AND status = ? AND start_at < ? AND end_at > ?
              )`
	var exists bool
	err := db.QueryRowContext(ctx, query, itemID, string(models.StatusApproved), utc(end), utc(start)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

// stateClause mirrors models.BookingState.Matches as SQL.
func stateClause(state models.BookingState, now time.Time) (string, []interface{}, error) {
	now = utc(now)
	switch state {
	case models.StateAll:
		return "", nil, nil
	case models.StateCurrent:
		return ` AND b.start_at <= ? AND b.end_at > ?`, []interface{}{now, now}, nil
	case models.StatePast:
		return ` AND b.end_at <= ?`, []interface{}{now}, nil
	case models.StateFuture:
		return ` AND b.start_at > ?`, []interface{}{now}, nil
	case models.StateWaiting:
		return ` AND b.status = ?`, []interface{}{string(models.StatusWaiting)}, nil
	case models.StateRejected:
		return ` AND b.status = ?`, []interface{}{string(models.StatusRejected)}, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown booking state %q", domain.ErrValidation, state)
	}
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var status string
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName,
		&b.BookerID, &b.BookerName, &status, &b.Version,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = models.Status(status)
	return &b, nil
}
