package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/agora/internal/domain"
)

// Handler exposes the coordination service over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates a new Handler backed by the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the chat API on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	messages := g.Group("/messages")
	messages.POST("", h.CreateMessage)
	messages.GET("/:id", h.GetMessage)
	messages.GET("/:id/reactions", h.GetReactions)
	messages.POST("/:id/reactions", h.AddReaction)
	messages.DELETE("/:id/reactions", h.RemoveReaction)
	messages.POST("/:id/seen", h.MarkSeen)
	messages.POST("/:id/delete", h.DeleteMessage)
	messages.POST("/:id/restore", h.RestoreMessage)
}

// CreateMessage persists a new message.
func (h *Handler) CreateMessage(c echo.Context) error {
	var req domain.NewMessage
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	msg, err := h.service.CreateMessage(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessage returns a single message by id.
func (h *Handler) GetMessage(c echo.Context) error {
	msg, err := h.service.GetMessage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msg)
}

type reactionRequest struct {
	User  string `json:"user"`
	Emoji string `json:"emoji"`
}

// AddReaction records a reaction on a message. Re-adding an existing
// reaction is reported as OK rather than Created.
func (h *Handler) AddReaction(c echo.Context) error {
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	ack, err := h.service.AddReaction(c.Request().Context(), c.Param("id"), req.User, req.Emoji)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusCreated
	if ack.AlreadyExists {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]any{
		"reactions":     ack.Reactions,
		"alreadyExists": ack.AlreadyExists,
	})
}

// RemoveReaction deletes a reaction from a message.
func (h *Handler) RemoveReaction(c echo.Context) error {
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	reactions, err := h.service.RemoveReaction(c.Request().Context(), c.Param("id"), req.User, req.Emoji)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"reactions": reactions})
}

// GetReactions returns the current reaction set for a message.
func (h *Handler) GetReactions(c echo.Context) error {
	reactions, err := h.service.Reactions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"reactions": reactions})
}

// MarkSeen records a read receipt for a message.
func (h *Handler) MarkSeen(c echo.Context) error {
	var req struct {
		User string `json:"user"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	receipt, err := h.service.MarkSeen(c.Request().Context(), c.Param("id"), req.User)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"seenBy": receipt.SeenBy,
		"seenAt": receipt.SeenAt,
	})
}

// DeleteMessage soft-deletes a message on behalf of its sender.
func (h *Handler) DeleteMessage(c echo.Context) error {
	var req struct {
		User string `json:"user"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	msg, err := h.service.Delete(c.Request().Context(), c.Param("id"), req.User)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msg)
}

// RestoreMessage restores a soft-deleted message within its window.
func (h *Handler) RestoreMessage(c echo.Context) error {
	msg, err := h.service.Restore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msg)
}

// httpError maps domain errors onto HTTP statuses. The error text is shown
// inline to the user, so the sentinel messages pass through unchanged.
func httpError(err error) error {
	switch {
	case domain.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrMessageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotDeleted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrWindowExpired):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}
