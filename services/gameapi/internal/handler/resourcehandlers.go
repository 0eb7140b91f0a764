package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/internal/schema"
	"github.com/lightgame/panel/services/gameapi/internal/logic"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

// Resource exposes one collection as GET/POST Path and PUT/DELETE Path/:id.
type Resource[T any] struct {
	Name   string
	Path   string
	Store  logic.Store[T]
	Schema *schema.Schema
}

func (res Resource[T]) newLogic(r *http.Request) *logic.ResourceLogic[T] {
	return logic.NewResourceLogic[T](r.Context(), res.Name, res.Store, res.Schema)
}

func (res Resource[T]) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: res.Path, Handler: res.ListHandler()},
		{Method: http.MethodPost, Path: res.Path, Handler: res.CreateHandler()},
		{Method: http.MethodPut, Path: res.Path + "/:id", Handler: res.UpdateHandler()},
		{Method: http.MethodDelete, Path: res.Path + "/:id", Handler: res.DeleteHandler()},
	}
}

func decodeBody(r *http.Request) (map[string]any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: body: %v", logic.ErrInvalidRequest, err)
	}
	return doc, nil
}

func parseID(r *http.Request) (int, error) {
	var req types.ResourceIDRequest
	if err := httpx.ParsePath(r, &req); err != nil {
		return 0, fmt.Errorf("%w: %v", logic.ErrInvalidRequest, err)
	}
	return req.ID, nil
}

func (res Resource[T]) ListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := res.newLogic(r).List()
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, items)
	}
}

func (res Resource[T]) CreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeBody(r)
		if err == nil {
			err = res.newLogic(r).Create(doc)
		}
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.WriteJsonCtx(r.Context(), w, http.StatusCreated, types.StatusResponse{Status: "Ok"})
	}
}

func (res Resource[T]) UpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		var doc map[string]any
		if err == nil {
			doc, err = decodeBody(r)
		}
		if err == nil {
			err = res.newLogic(r).Update(id, doc)
		}
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.StatusResponse{Status: "Ok"})
	}
}

func (res Resource[T]) DeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err == nil {
			err = res.newLogic(r).Delete(id)
		}
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.StatusResponse{Status: "Ok"})
	}
}
