package main

import (
	"errors"
	"net/http"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/fabianroy/Bistro-Boss-Server/internal/service"
	"github.com/go-chi/chi"
)

type CreateMenuItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Price    float64 `json:"price" validate:"gt=0"`
}

// ReplaceMenuItemRequest carries the four fields an update overwrites.
// Omitted fields are stored as their zero value.
type ReplaceMenuItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category"`
	Recipe   string  `json:"recipe"`
}

type ImportMenuRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
}

// listMenuHandler godoc
//
//	@Summary		List menu
//	@Tags			menu
//	@Produce		json
//	@Success		200	{array}		domain.MenuItem
//	@Failure		500	{object}	map[string]string
//	@Router			/menu [get]
func (app *application) listMenuHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.menuRepo.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, items); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuItemHandler godoc
//
//	@Summary		Get menu item by ID
//	@Description	Returns the menu item, or null when no item has the ID
//	@Tags			menu
//	@Produce		json
//	@Param			id	path		string	true	"Menu item ID"
//	@Success		200	{object}	domain.MenuItem
//	@Failure		400	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/menu/{id} [get]
func (app *application) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.menuRepo.GetByID(r.Context(), id)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createMenuItemHandler godoc
//
//	@Summary		Create menu item
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateMenuItemRequest	true	"Menu item"
//	@Success		200		{object}	domain.InsertResult
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu [post]
func (app *application) createMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item := &domain.MenuItem{
		Name:     req.Name,
		Recipe:   req.Recipe,
		Image:    req.Image,
		Category: req.Category,
		Price:    req.Price,
	}

	if err := app.menuRepo.Create(r.Context(), item); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, domain.Inserted(item.ID)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// replaceMenuItemHandler godoc
//
//	@Summary		Replace menu item fields
//	@Description	Overwrites name, price, category and recipe. The image is left untouched.
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Menu item ID"
//	@Param			request	body		ReplaceMenuItemRequest	true	"New values"
//	@Success		200		{object}	domain.UpdateResult
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/{id} [put]
//	@Router			/menu/{id} [patch]
func (app *application) replaceMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req ReplaceMenuItemRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.menuRepo.Replace(r.Context(), id, domain.MenuUpdate{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Recipe:   req.Recipe,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMenuItemHandler godoc
//
//	@Summary		Delete menu item
//	@Tags			menu
//	@Produce		json
//	@Param			id	path		string	true	"Menu item ID"
//	@Success		200	{object}	domain.DeleteResult
//	@Failure		400	{object}	map[string]string
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/{id} [delete]
func (app *application) deleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.menuRepo.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// importMenuHandler godoc
//
//	@Summary		Import menu from Google Sheets
//	@Description	Queues the import when a broker is configured, otherwise imports inline
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ImportMenuRequest	true	"Spreadsheet"
//	@Success		201		{object}	map[string]int
//	@Success		202		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/import [post]
func (app *application) importMenuHandler(w http.ResponseWriter, r *http.Request) {
	if !app.menuImportService.Available() {
		app.serviceUnavailableResponse(w, r, service.ErrImportUnavailable)
		return
	}

	var req ImportMenuRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	queued, inserted, err := app.menuImportService.Enqueue(r.Context(), req.SpreadsheetID, identityEmail(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if queued {
		if err := app.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "queued"}); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]int{"insertedCount": inserted}); err != nil {
		app.internalServerError(w, r, err)
	}
}
