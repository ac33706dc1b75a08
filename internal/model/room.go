package model

import "time"

// Room represents a bookable meeting room as stored in the `rooms`
// table. Rooms are created and edited by administrators; regular users
// only read them when picking a slot.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable room name.
//  Capacity    – number of people the room holds; always positive.
//  Facilities  – optional free-text facility list (projector, VC, ...).
//  Description – optional description of the room.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Room struct {
	ID          uint64    // rooms.id
	Name        string    // rooms.name
	Capacity    uint32    // rooms.capacity
	Facilities  *string   // rooms.facilities (nullable)
	Description *string   // rooms.description (nullable)
	CreatedAt   time.Time // rooms.created_at
	UpdatedAt   time.Time // rooms.updated_at
}
