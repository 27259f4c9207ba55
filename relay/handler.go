package relay

import (
	"errors"
	"io"
	"net/http"

	"github.com/SundaeSwap-finance/sundae-post-relay/post"
	relayrest "github.com/SundaeSwap-finance/sundae-post-relay/relay-rest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type createdResponse struct {
	OK        bool   `json:"ok"`
	Text      string `json:"text"`
	UpdatedAt string `json:"updatedAt"`
}

type latestResponse struct {
	Text      string `json:"text"`
	UpdatedAt string `json:"updatedAt"`
}

type rejectedResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type deliveryErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the relay endpoints on router.
func (h *Handler) Routes(router chi.Router) {
	router.Post("/", h.Ingest)
	router.With(middleware.NoCache).Get("/latest", h.Latest)
	router.Get("/health", h.Health)
}

func (h *Handler) Ingest(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			relayrest.WriteError(w, http.StatusRequestEntityTooLarge, relayrest.ErrPayloadTooLarge)
			return
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("unable to read request body")
		relayrest.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	body, err := post.Decode(req.Header.Get("Content-Type"), raw)
	if err != nil {
		relayrest.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := h.service.Ingest(ctx, body)
	var (
		rejected *DeliveryRejectedError
		failed   *DeliveryError
	)
	switch {
	case err == nil:
		relayrest.WriteJSON(w, http.StatusCreated, createdResponse{
			OK:        true,
			Text:      p.Text,
			UpdatedAt: p.Timestamp(),
		})

	case errors.Is(err, ErrInvalidInput):
		relayrest.WriteError(w, http.StatusBadRequest, "empty text")

	case errors.As(err, &rejected):
		relayrest.WriteJSON(w, http.StatusBadGateway, rejectedResponse{
			Error:  "discord webhook failed",
			Status: rejected.Status,
			Body:   rejected.Body,
		})

	case errors.As(err, &failed):
		relayrest.WriteJSON(w, http.StatusBadGateway, deliveryErrorResponse{
			Error:  "discord webhook error",
			Detail: failed.Detail(),
		})

	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("unexpected ingest failure")
		relayrest.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) Latest(w http.ResponseWriter, req *http.Request) {
	p, ok := h.service.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	relayrest.WriteJSON(w, http.StatusOK, latestResponse{
		Text:      p.Text,
		UpdatedAt: p.Timestamp(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}
