package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects book related api endpoints. Listing and single
// fetch run with optional authentication so guests can browse available
// books. Every other operation requires a verified credential; the
// per-role authorization happens in the service layer.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))

	router.GET("/v1/books", m.optional(api.GetAllBooks))
	router.GET("/v1/books/:id", m.optional(api.GetOneBook))

	router.POST("/v1/books", m.auth(api.CreateBook))
	router.PATCH("/v1/books/:id/checkout", m.auth(api.CheckoutBook))
	router.PATCH("/v1/books/:id/checkin", m.auth(api.CheckinBook))
	router.PATCH("/v1/books/:id/favorite", m.auth(api.ToggleFavoriteBook))
	router.GET("/v1/books/:id/history", m.auth(api.GetBookHistory))
	router.DELETE("/v1/books/:id/history", m.auth(api.ClearBookHistory))
	router.DELETE("/v1/books/:id", m.auth(api.DeleteOneBook))
	router.DELETE("/v1/books", m.auth(api.DeleteAllBooks))
	return router
}
