package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// LoginResponse is the data model sent back after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates a regular user account.
func (api *APIHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds CredentialsRequest
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

	if err := DecodeCredentialsRequestBody(r, &creds); err != nil {
		api.badRequest(w, r, requestID, "failed to register the account", err)
		return
	}

	if err := ValidateCredentialsRequestBody(&creds, api.config.Auth.MinPasswordLength); err != nil {
		api.badRequest(w, r, requestID, "failed to register the account", err)
		return
	}

	user, err := api.authService.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		api.failure(w, r, requestID, "failed to register the account", err)
		return
	}
	api.logger.Info("success to register account", zap.String("user.id", user.ID), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusCreated, "Account registered successfully.", nil, user)
}

// Login verifies the credentials and issues a signed token valid for
// the configured lifetime.
func (api *APIHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds CredentialsRequest
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

	if err := DecodeCredentialsRequestBody(r, &creds); err != nil {
		api.badRequest(w, r, requestID, "failed to login", err)
		return
	}

	token, user, err := api.authService.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		api.failure(w, r, requestID, "failed to login", err)
		return
	}
	api.logger.Info("success to login", zap.String("user.id", user.ID), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Logged in successfully.", nil, LoginResponse{Token: token, User: user})
}
