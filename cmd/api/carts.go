package main

import (
	"net/http"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/go-chi/chi"
)

type AddCartItemRequest struct {
	MenuID string  `json:"menuId" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Price  float64 `json:"price" validate:"gte=0"`
}

// listCartHandler godoc
//
//	@Summary		List cart items
//	@Description	Lists the cart of the authenticated user
//	@Tags			carts
//	@Produce		json
//	@Param			email	query		string	true	"Owner email, must match the token"
//	@Success		200		{array}		domain.CartItem
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/carts [get]
func (app *application) listCartHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.cartRepo.ListByEmail(r.Context(), emailFromQuery(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, items); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addCartItemHandler godoc
//
//	@Summary		Add cart item
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddCartItemRequest	true	"Cart item"
//	@Success		200		{object}	domain.InsertResult
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/carts [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item := &domain.CartItem{
		MenuID: req.MenuID,
		Email:  req.Email,
		Name:   req.Name,
		Image:  req.Image,
		Price:  req.Price,
	}

	if err := app.cartRepo.Create(r.Context(), item); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, domain.Inserted(item.ID)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCartItemHandler godoc
//
//	@Summary		Delete cart item
//	@Tags			carts
//	@Produce		json
//	@Param			id	path		string	true	"Cart item ID"
//	@Success		200	{object}	domain.DeleteResult
//	@Failure		400	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/carts/{id} [delete]
func (app *application) deleteCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.cartRepo.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
