package main

import (
	"fmt"
	"net/http"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatePaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type RecordPaymentRequest struct {
	Email         string   `json:"email" validate:"required,email"`
	Amount        float64  `json:"amount" validate:"gt=0"`
	TransactionID string   `json:"transactionId"`
	CartIDs       []string `json:"cartIds" validate:"required,min=1"`
	MenuItemIDs   []string `json:"menuItemIds"`
	Status        string   `json:"status"`
}

// createPaymentIntentHandler godoc
//
//	@Summary		Create payment intent
//	@Description	Stages a card payment for price and returns the client secret
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreatePaymentIntentRequest	true	"Price"
//	@Success		200		{object}	CreatePaymentIntentResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/create-payment-intent [post]
func (app *application) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentIntentRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	secret, err := app.checkoutService.CreateIntent(r.Context(), req.Price)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, CreatePaymentIntentResponse{ClientSecret: secret}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// recordPaymentHandler godoc
//
//	@Summary		Record payment
//	@Description	Stores the payment and removes the paid cart items. Answers 202 when the
//	@Description	payment was stored but the cart could not be cleared yet.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecordPaymentRequest	true	"Payment"
//	@Success		200		{object}	service.CheckoutResult
//	@Success		202		{object}	service.CheckoutResult
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/payments [post]
func (app *application) recordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cartIDs := make([]primitive.ObjectID, 0, len(req.CartIDs))
	for _, hex := range req.CartIDs {
		id, err := repo.ParseID(hex)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("cartIds: %w", err))
			return
		}
		cartIDs = append(cartIDs, id)
	}

	payment := &domain.Payment{
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		CartIDs:       cartIDs,
		MenuItemIDs:   req.MenuItemIDs,
		Status:        req.Status,
	}

	result, err := app.checkoutService.Record(r.Context(), payment)
	if err != nil {
		app.metrics.observeCheckout("failed")
		app.errorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Partial() {
		status = http.StatusAccepted
		app.logger.Warnw("payment recorded with pending cart clear",
			"payment_id", payment.ID.Hex(),
			"reconcile_queued", result.ReconcileQueued,
		)
	}
	app.metrics.observeCheckout(string(result.CartStatus))

	if err := app.jsonResponse(w, status, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPaymentsHandler godoc
//
//	@Summary		List payments
//	@Description	Lists the payments of the authenticated user, newest first
//	@Tags			payments
//	@Produce		json
//	@Param			email	path		string	true	"Payer email, must match the token"
//	@Success		200		{array}		domain.Payment
//	@Failure		401		{string}	string
//	@Failure		403		{string}	string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/payments/{email} [get]
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	payments, err := app.paymentRepo.ListByEmail(r.Context(), emailFromPath(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, payments); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reconcilePaymentHandler godoc
//
//	@Summary		Reconcile payment cart
//	@Description	Removes the cart items of a payment whose cart clear is still pending
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		string	true	"Payment ID"
//	@Success		200	{object}	domain.DeleteResult
//	@Failure		400	{object}	map[string]string
//	@Failure		401	{string}	string
//	@Failure		403	{string}	string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/payments/{id}/reconcile [post]
func (app *application) reconcilePaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.checkoutService.Reconcile(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
