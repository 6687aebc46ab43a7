package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// APIConfig returns the huma configuration for the API. Response bodies carry no $schema link
// so the JSON shape is exactly the documented one.
func APIConfig() huma.Config {
	config := huma.DefaultConfig("URL Shortener", "1.0.0")
	config.CreateHooks = nil

	return config
}

// RegisterRoutes registers the JSON API and redirect routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url-query",
		Method:      http.MethodGet,
		Path:        "/api/create",
		Summary:     "Create short URL from query",
		Description: "Returns the live short URL for originalUrl, creating one when none exists.",
		Tags:        []string{"URLs"},
	}, urlHandler.CreateFromQuery)

	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/api/create",
		Summary:     "Create short URL",
		Description: "Returns the live short URL for originalUrl, creating one when none exists.",
		Tags:        []string{"URLs"},
	}, urlHandler.CreateFromBody)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/r/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL associated with the short code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
