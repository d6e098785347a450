package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortkey/internal/events"
	"github.com/serroba/shortkey/internal/messaging"
	"github.com/serroba/shortkey/internal/middleware"
	"github.com/serroba/shortkey/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the part of shortener.Service the handlers use.
type Shortener interface {
	ShortenURL(ctx context.Context, rawURL string) (shortener.ShortURL, error)
	Lengthen(ctx context.Context, key string) (string, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	shortener       Shortener
	baseURL         string
	publishKeyBound messaging.Publish[events.KeyBound]
	logger          *zap.Logger
}

// NewURLHandler creates a new URL handler. Short URLs are built as baseURL/key.
func NewURLHandler(
	svc Shortener,
	baseURL string,
	publishKeyBound messaging.Publish[events.KeyBound],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener:       svc,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		publishKeyBound: publishKeyBound,
		logger:          logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	bound, err := h.shortener.ShortenURL(ctx, req.Body.URL)
	if err != nil {
		return nil, h.toHTTPError(ctx, err, "failed to shorten url")
	}

	if err := h.publishKeyBound(ctx, events.NewKeyBound(bound.Key, bound.URL)); err != nil {
		h.logger.Error("failed to publish key bound event",
			zap.String("key", bound.Key),
			zap.String("request_id", middleware.RequestID(ctx)),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, bound.Key)

	resp := &CreateShortURLResponse{Location: fullShortURL}
	resp.Body.Key = bound.Key
	resp.Body.ShortURL = fullShortURL
	resp.Body.URL = bound.URL

	return resp, nil
}

func (h *URLHandler) LengthenURL(ctx context.Context, req *LengthenRequest) (*LengthenResponse, error) {
	url, err := h.shortener.Lengthen(ctx, req.Key)
	if err != nil {
		return nil, h.toHTTPError(ctx, err, "failed to get url")
	}

	resp := &LengthenResponse{}
	resp.Body.URL = url

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	url, err := h.shortener.Lengthen(ctx, req.Key)
	if err != nil {
		// A malformed key cannot name a page either.
		if errors.Is(err, shortener.ErrInvalidKey) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, h.toHTTPError(ctx, err, "failed to get url")
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: url,
	}, nil
}

func (h *URLHandler) toHTTPError(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("invalid url", err)
	case errors.Is(err, shortener.ErrInvalidKey):
		return huma.Error400BadRequest("invalid short key", err)
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.Is(err, shortener.ErrOutOfKeys):
		return huma.Error503ServiceUnavailable("no short keys available")
	}

	h.logger.Error(msg,
		zap.String("request_id", middleware.RequestID(ctx)),
		zap.Error(err),
	)

	return huma.Error500InternalServerError(msg)
}
