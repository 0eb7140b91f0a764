package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/schema"
	gamedatagorm "github.com/lightgame/panel/internal/repo/gorm/gamedata"
)

// Store is the persistence a resource endpoint needs.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) error
	Update(ctx context.Context, id int, v T) error
	Delete(ctx context.Context, id int) error
}

// ResourceLogic serves one CRUD collection. Request bodies are re-validated
// with the same schema the panel renders its forms from.
type ResourceLogic[T any] struct {
	logx.Logger
	ctx    context.Context
	name   string
	store  Store[T]
	schema *schema.Schema
}

func NewResourceLogic[T any](ctx context.Context, name string, store Store[T], s *schema.Schema) *ResourceLogic[T] {
	return &ResourceLogic[T]{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		name:   name,
		store:  store,
		schema: s,
	}
}

func (l *ResourceLogic[T]) List() ([]T, error) {
	return l.store.List(l.ctx)
}

func (l *ResourceLogic[T]) decode(doc map[string]any) (T, error) {
	var zero T
	if errs := l.schema.Validate(doc); errs != nil {
		return zero, fieldError(ErrInvalidRequest, fmt.Sprintf("invalid %s", l.name), errs)
	}
	v, err := schema.FromMap[T](doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return v, nil
}

func (l *ResourceLogic[T]) Create(doc map[string]any) error {
	v, err := l.decode(doc)
	if err != nil {
		return err
	}
	if err := l.store.Create(l.ctx, v); err != nil {
		if errors.Is(err, gamedatagorm.ErrDuplicate) {
			return fieldError(ErrConflict, fmt.Sprintf("%s already exists", l.name), map[string]string{"id": "already exists"})
		}
		return err
	}
	l.Infof("%s created: id=%v", l.name, doc["id"])
	return nil
}

// Update replaces the record at id. The id in the body, if any, is ignored.
func (l *ResourceLogic[T]) Update(id int, doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	doc["id"] = id
	v, err := l.decode(doc)
	if err != nil {
		return err
	}
	if err := l.store.Update(l.ctx, id, v); err != nil {
		return l.notFound(err)
	}
	l.Infof("%s updated: id=%d", l.name, id)
	return nil
}

func (l *ResourceLogic[T]) Delete(id int) error {
	if err := l.store.Delete(l.ctx, id); err != nil {
		return l.notFound(err)
	}
	l.Infof("%s deleted: id=%d", l.name, id)
	return nil
}

func (l *ResourceLogic[T]) notFound(err error) error {
	if errors.Is(err, gamedatagorm.ErrNotFound) {
		return fmt.Errorf("%s %w", l.name, ErrNotFound)
	}
	return err
}
