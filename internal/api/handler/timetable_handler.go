package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

// TimetableHandler handles HTTP requests for timetable entries.
type TimetableHandler struct {
	service ports.TimetableService
}

func NewTimetableHandler(service ports.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Create handles POST /v1/timetable.
//
// @Summary      Create a timetable entry
// @Tags         timetable
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      entryRequest  true  "Entry details"
// @Success      201   {object}  entryEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/timetable [post]
func (h *TimetableHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.CreateEntry(c.Request().Context(), userID, toEntryInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entryEnvelope{
		Message: "timetable entry created",
		Data:    toEntryResponse(entry),
	})
}

// List handles GET /v1/timetable. An optional [start,end] pair narrows the
// range; results are sorted by start time ascending.
//
// @Summary      List timetable entries
// @Tags         timetable
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "Range start (RFC 3339)"
// @Param        end    query     string  false  "Range end (RFC 3339)"
// @Success      200    {object}  listEntriesResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/timetable [get]
func (h *TimetableHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var from, to time.Time
	if s, e := c.QueryParam("start"), c.QueryParam("end"); s != "" && e != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start time")
		}
		if to, err = time.Parse(time.RFC3339, e); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end time")
		}
	}

	entries, err := h.service.ListEntries(c.Request().Context(), userID, from, to)
	if err != nil {
		return err
	}

	resp := listEntriesResponse{Data: make([]entryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Data = append(resp.Data, toEntryResponse(entry))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /v1/timetable/:id.
//
// @Summary      Update a timetable entry
// @Tags         timetable
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Entry id"
// @Param        body  body      entryRequest  true  "Entry details"
// @Success      200   {object}  entryEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/timetable/{id} [put]
func (h *TimetableHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.UpdateEntry(c.Request().Context(), userID, c.Param("id"), toEntryInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entryEnvelope{
		Message: "timetable entry updated",
		Data:    toEntryResponse(entry),
	})
}

// Delete handles DELETE /v1/timetable/:id.
//
// @Summary      Delete a timetable entry
// @Tags         timetable
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Entry id"
// @Success      200 {object}  messageResponse
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/timetable/{id} [delete]
func (h *TimetableHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteEntry(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "entry deleted successfully"})
}

func toEntryInput(req entryRequest) ports.EntryInput {
	return ports.EntryInput{
		Subject:   req.Subject,
		Location:  req.Location,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	}
}

func toEntryResponse(entry *domain.TimetableEntry) entryResponse {
	return entryResponse{
		ID:        entry.ID,
		Subject:   entry.Subject,
		Location:  entry.Location,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}
