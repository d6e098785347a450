package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	// POST /shorten - Create short URL
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Description:   "Binds the URL to a deterministic short key. Shortening the same URL again returns the same key.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.CreateShortURL)

	// GET /lengthen/{key} - Resolve a short key
	huma.Register(api, huma.Operation{
		OperationID: "lengthen-short-url",
		Method:      http.MethodGet,
		Path:        "/lengthen/{key}",
		Summary:     "Resolve short key",
		Description: "Returns the URL bound to the short key.",
		Tags:        []string{"URLs"},
	}, urlHandler.LengthenURL)

	// GET /{key} - Redirect to original URL
	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/{key}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short key.",
		Tags:        []string{"URLs"},
	}, urlHandler.RedirectToURL)
}
