package main

import (
	"net/http"

	"github.com/fabianroy/Bistro-Boss-Server/internal/auth"
)

type IssueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

// issueTokenHandler godoc
//
//	@Summary		Issue access token
//	@Description	Signs a token for the supplied user claims
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IssueTokenRequest	true	"Claims"
//	@Success		200		{object}	IssueTokenResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/jwt [post]
func (app *application) issueTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req IssueTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.tokens.Issue(auth.Claims{Email: req.Email, Name: req.Name})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, IssueTokenResponse{Token: token}); err != nil {
		app.internalServerError(w, r, err)
	}
}
