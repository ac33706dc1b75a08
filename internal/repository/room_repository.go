package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo provides CRUD operations for rooms. Lookup failures are
// reported with the booking package sentinels so handlers translate
// them uniformly.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, capacity, facilities, description, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var rm model.Room
	var facilities, description sql.NullString
	if err := row.Scan(&rm.ID, &rm.Name, &rm.Capacity, &facilities, &description, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return nil, err
	}
	if facilities.Valid {
		f := facilities.String
		rm.Facilities = &f
	}
	if description.Valid {
		d := description.String
		rm.Description = &d
	}
	return &rm, nil
}

// Create inserts a room and reads the row back so timestamps are set.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, capacity, facilities, description) VALUES (?, ?, ?, ?)`,
		rm.Name, rm.Capacity, rm.Facilities, rm.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rm = *created
	return nil
}

// GetByID retrieves a room by its ID. Returns booking.ErrRoomNotFound
// when no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	rm, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	return out, rows.Err()
}

// Update overwrites a room's editable fields.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET name = ?, capacity = ?, facilities = ?, description = ? WHERE id = ?`,
		rm.Name, rm.Capacity, rm.Facilities, rm.Description, rm.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for a no-op update, so confirm existence.
		if _, err := r.GetByID(ctx, rm.ID); err != nil {
			return err
		}
	}
	updated, err := r.GetByID(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = *updated
	return nil
}

// Delete removes a room. A room still referenced by bookings is not
// deletable; booking.ErrConflict is returned in that case.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return booking.ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return booking.ErrRoomNotFound
	}
	return nil
}
