package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
)

// BookingRepo is the MySQL implementation of booking.Store. The
// lifecycle service already serializes check-then-write sequences per
// room in process; the writes here additionally take a FOR UPDATE lock
// on the room row and re-run the overlap predicate inside the
// transaction, so the no-overlap invariant survives even if a second
// server instance is pointed at the same database.
type BookingRepo struct {
	db    *sql.DB
	rooms *RoomRepo
}

func NewBookingRepo(db *sql.DB, rooms *RoomRepo) *BookingRepo {
	return &BookingRepo{db: db, rooms: rooms}
}

const bookingColumns = `id, user_id, room_id, starts_at, ends_at, purpose, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var status string
	if err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.StartsAt, &b.EndsAt, &b.Purpose, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// GetRoom delegates to the room repository.
func (r *BookingRepo) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	return r.rooms.GetByID(ctx, roomID)
}

// GetBooking fetches one booking, returning booking.ErrBookingNotFound
// when no row exists.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ActiveByRoom returns a room's pending and approved bookings, the
// conflict set for the availability check.
func (r *BookingRepo) ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE room_id = ? AND status IN ('pending','approved')
	           ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// lockRoomTx takes the per-room serialization lock at the storage
// level. Every conflicting writer goes through the same room row, so
// two transactions cannot both pass overlapChecked below.
func lockRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrRoomNotFound
	}
	return err
}

// overlapChecked reports booking.ErrConflict when an active booking on
// the room overlaps [b.StartsAt, b.EndsAt), excluding excludeID when
// non-zero. Must run after lockRoomTx within the same transaction.
func overlapChecked(ctx context.Context, tx *sql.Tx, b *model.Booking, excludeID uint64) error {
	q := `SELECT EXISTS(
	        SELECT 1 FROM bookings
	        WHERE room_id = ? AND status IN ('pending','approved')
	          AND starts_at < ? AND ends_at > ?`
	args := []any{b.RoomID, b.EndsAt, b.StartsAt}
	if excludeID != 0 {
		q += ` AND id != ?`
		args = append(args, excludeID)
	}
	q += `)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return booking.ErrConflict
	}
	return nil
}

// CreateBooking inserts a booking after re-validating the overlap under
// the room lock, then reads the row back to populate the generated ID
// and timestamps.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockRoomTx(ctx, tx, b.RoomID); err != nil {
		return err
	}
	if err := overlapChecked(ctx, tx, b, 0); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, room_id, starts_at, ends_at, purpose, status) VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.RoomID, b.StartsAt, b.EndsAt, b.Purpose, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	created, err := scanBooking(row)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *created
	return nil
}

// UpdateBooking rewrites a booking's fields with the same room-lock and
// overlap backstop as CreateBooking, excluding the booking itself from
// the conflict set.
func (r *BookingRepo) UpdateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockRoomTx(ctx, tx, b.RoomID); err != nil {
		return err
	}
	if err := overlapChecked(ctx, tx, b, b.ID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET room_id = ?, starts_at = ?, ends_at = ?, purpose = ?, status = ? WHERE id = ?`,
		b.RoomID, b.StartsAt, b.EndsAt, b.Purpose, string(b.Status), b.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish a vanished row from a no-op write.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, b.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return booking.ErrBookingNotFound
		}
	}
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	updated, err := scanBooking(row)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *updated
	return nil
}

// UpdateStatus changes only the status column.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return booking.ErrBookingNotFound
		}
	}
	return nil
}

// DeleteBooking removes the record entirely.
func (r *BookingRepo) DeleteBooking(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
