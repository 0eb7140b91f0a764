// Package gamedatagorm persists the game API's records with gorm.
package gamedatagorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lightgame/panel/internal/gamedata"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type record interface {
	RecordID() int
}

// Table is the CRUD repository of one record type keyed by an explicit id column.
type Table[T record] struct{ db *gorm.DB }

func NewTable[T record](db *gorm.DB) *Table[T] { return &Table[T]{db: db} }

func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	arr := []T{}
	if err := t.db.WithContext(ctx).Order("id").Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}

func (t *Table[T]) Get(ctx context.Context, id int) (T, error) {
	var v T
	if err := t.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return v, ErrNotFound
		}
		return v, err
	}
	return v, nil
}

// Create inserts v. Ids are chosen by the client, so a taken id is ErrDuplicate.
func (t *Table[T]) Create(ctx context.Context, v T) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", v.RecordID()).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(&v).Error
	})
}

// Update replaces every column of the record at id except the id itself.
func (t *Table[T]) Update(ctx context.Context, id int, v T) error {
	res := t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select("*").Omit("id").Updates(&v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *Table[T]) Delete(ctx context.Context, id int) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Rooms lists the live rooms. Rooms are written by the game server, not the API.
type Rooms struct{ db *gorm.DB }

func NewRooms(db *gorm.DB) *Rooms { return &Rooms{db: db} }

func (r *Rooms) List(ctx context.Context) ([]gamedata.Room, error) {
	var recs []RoomRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]gamedata.Room, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].Room())
	}
	return out, nil
}

// Put creates or replaces a room.
func (r *Rooms) Put(ctx context.Context, room gamedata.Room) error {
	rec := RoomRecord{ID: room.ID, Name: room.Name, MaxPlayers: room.MaxPlayers}
	rec.SetPlayerList(room.Players)
	return r.db.WithContext(ctx).Save(&rec).Error
}
