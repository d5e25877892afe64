package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupStoreRoutes injects the storefront related api endpoints.
func (api *APIHandler) SetupStoreRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))

	router.GET("/v1/catalog", m.public(api.GetCatalog))
	router.POST("/v1/catalog/refresh", m.public(api.RefreshCatalog))
	router.GET("/v1/packs", m.public(api.GetPacks))
	router.GET("/v1/packs/:id", m.public(api.GetOnePack))
	router.GET("/v1/offers", m.public(api.GetOffers))

	router.GET("/v1/selection", m.public(api.GetSelection))
	router.POST("/v1/selection/:id", m.public(api.SelectBook))
	router.DELETE("/v1/selection", m.public(api.ClearSelection))
	router.DELETE("/v1/selection/:id", m.public(api.DeselectBook))

	router.POST("/v1/orders", m.public(api.CreateOrder))

	router.GET("/v1/i18n/languages", m.public(api.GetLanguages))
	router.PUT("/v1/i18n/language", m.public(api.SetLanguage))
	router.GET("/v1/i18n/translate", m.public(api.TranslateKey))
	router.GET("/v1/i18n/price", m.public(api.FormatPrice))
	return router
}
