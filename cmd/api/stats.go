package main

import "net/http"

// adminStatsHandler godoc
//
//	@Summary		Admin dashboard stats
//	@Description	Approximate collection counts and total revenue
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	domain.AdminStats
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/admin-stats [get]
func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.statsService.AdminStats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}
