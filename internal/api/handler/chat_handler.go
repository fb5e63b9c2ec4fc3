package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/api/metrics"
	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

// ChatHandler handles HTTP requests for the chat module.
type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Complete handles POST /v1/chat.
//
// @Summary      Send a prompt and receive the full completion
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Prompt"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/chat [post]
func (h *ChatHandler) Complete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.service.Complete(c.Request().Context(), userID, req.Prompt)
	if err != nil {
		metrics.ChatCompletionsTotal.WithLabelValues("blocking", "error").Inc()
		return err
	}

	if result.Cached {
		metrics.ChatCompletionsTotal.WithLabelValues("blocking", "cache_hit").Inc()
	} else {
		metrics.ChatCompletionsTotal.WithLabelValues("blocking", "ok").Inc()
	}
	metrics.ChatCompletionDuration.WithLabelValues("blocking").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, chatResponse{
		Response: result.Response,
		Model:    result.Model,
		Usage:    result.Usage,
		Cached:   result.Cached,
	})
}

// Stream handles POST /v1/chat/stream, relaying completion deltas as
// server-sent events. Each frame is `data: {"content":"..."}`; the stream
// terminates with `data: [DONE]`.
//
// @Summary      Send a prompt and stream the completion
// @Tags         chat
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body  body  chatRequest  true  "Prompt"
// @Success      200
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/chat/stream [post]
func (h *ChatHandler) Stream(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	chunks, errs := h.service.StreamComplete(ctx, userID, req.Prompt)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	start := time.Now()
	for chunk := range chunks {
		if chunk.Content == "" {
			continue
		}
		if err := writeEvent(res, streamEvent{Content: chunk.Content}); err != nil {
			return nil // client went away
		}
		res.Flush()
	}

	if err := <-errs; err != nil {
		metrics.ChatCompletionsTotal.WithLabelValues("stream", "error").Inc()
		// Headers are already out; report the failure in-band.
		_ = writeEvent(res, streamEvent{Error: "stream interrupted"})
		res.Flush()
		return nil
	}

	metrics.ChatCompletionsTotal.WithLabelValues("stream", "ok").Inc()
	metrics.ChatCompletionDuration.WithLabelValues("stream").Observe(time.Since(start).Seconds())

	_, _ = fmt.Fprint(res, "data: [DONE]\n\n")
	res.Flush()
	return nil
}

// History handles GET /v1/chat/history with page/limit pagination.
//
// @Summary      List chat history
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Items per page (max 100)"
// @Success      200    {object}  chatHistoryResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/chat/history [get]
func (h *ChatHandler) History(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListHistory(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}

	resp := chatHistoryResponse{
		History: make([]chatRecordResponse, 0, len(result.Items)),
		Pagination: paginationResponse{
			CurrentPage:  result.Page,
			TotalPages:   result.TotalPages,
			TotalItems:   result.Total,
			ItemsPerPage: result.Limit,
		},
	}
	for _, record := range result.Items {
		resp.History = append(resp.History, toChatRecordResponse(record))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/chat/history/:id.
//
// @Summary      Get one chat exchange
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Chat id"
// @Success      200 {object}  chatRecordResponse
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/chat/history/{id} [get]
func (h *ChatHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	record, err := h.service.GetChat(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChatRecordResponse(record))
}

// Delete handles DELETE /v1/chat/history/:id.
//
// @Summary      Delete one chat exchange
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Chat id"
// @Success      200 {object}  messageResponse
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/chat/history/{id} [delete]
func (h *ChatHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteChat(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "chat deleted successfully"})
}

// DeleteAll handles DELETE /v1/chat/history.
//
// @Summary      Delete the user's entire chat history
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  deleteHistoryResponse
// @Failure      401 {object}  errorResponse
// @Router       /v1/chat/history [delete]
func (h *ChatHandler) DeleteAll(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	count, err := h.service.DeleteHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteHistoryResponse{
		Message:      "chat history deleted",
		DeletedCount: count,
	})
}

func writeEvent(w http.ResponseWriter, event streamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

func toChatRecordResponse(record *domain.ChatRecord) chatRecordResponse {
	return chatRecordResponse{
		ID:        record.ID,
		Prompt:    record.Prompt,
		Response:  record.Response,
		Model:     record.Model,
		Usage:     record.Usage,
		CreatedAt: record.CreatedAt,
	}
}
