package main

import (
	"net/http"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/go-chi/chi"
)

type UpsertUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
}

type UpsertUserResponse struct {
	Message      string  `json:"message,omitempty"`
	Acknowledged bool    `json:"acknowledged"`
	InsertedID   *string `json:"insertedId"`
}

type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

// listUsersHandler godoc
//
//	@Summary		List users
//	@Description	Lists every registered user
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}		domain.User
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userRepo.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, users); err != nil {
		app.internalServerError(w, r, err)
	}
}

// checkAdminHandler godoc
//
//	@Summary		Check admin status
//	@Description	Reports whether the authenticated user is an admin
//	@Tags			users
//	@Produce		json
//	@Param			email	path		string	true	"Email of the authenticated user"
//	@Success		200		{object}	AdminStatusResponse
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/users/admin/{email} [get]
func (app *application) checkAdminHandler(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := app.userService.IsAdmin(r.Context(), emailFromPath(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, AdminStatusResponse{Admin: isAdmin}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// upsertUserHandler godoc
//
//	@Summary		Register user
//	@Description	Creates the user unless one with the same email exists
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpsertUserRequest	true	"User"
//	@Success		200		{object}	UpsertUserResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/users [post]
func (app *application) upsertUserHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertUserRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &domain.User{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	}

	inserted, err := app.userService.Register(r.Context(), user)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if !inserted {
		response := UpsertUserResponse{Message: "User already exists"}
		if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	id := user.ID.Hex()
	if err := app.jsonResponse(w, http.StatusOK, UpsertUserResponse{Acknowledged: true, InsertedID: &id}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// promoteUserHandler godoc
//
//	@Summary		Promote user
//	@Description	Grants the admin role to a user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	domain.UpdateResult
//	@Failure		400	{object}	map[string]string
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/users/admin/{id} [patch]
func (app *application) promoteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.userRepo.SetRole(r.Context(), id, domain.RoleAdmin)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("user promoted to admin", "user_id", id.Hex(), "by", identityEmail(r))

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteUserHandler godoc
//
//	@Summary		Delete user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	domain.DeleteResult
//	@Failure		400	{object}	map[string]string
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/users/{id} [delete]
func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.userRepo.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
