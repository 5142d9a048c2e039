package main

import "net/http"

// listReviewsHandler godoc
//
//	@Summary		List reviews
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{array}		domain.Review
//	@Failure		500	{object}	map[string]string
//	@Router			/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := app.reviewRepo.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, reviews); err != nil {
		app.internalServerError(w, r, err)
	}
}
