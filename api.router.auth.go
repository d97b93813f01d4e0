package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupAuthRoutes injects account registration and login endpoints.
// Both are anonymous by nature.
func (api *APIHandler) SetupAuthRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.POST("/v1/auth/register", m.public(api.Register))
	router.POST("/v1/auth/login", m.public(api.Login))
	return router
}
