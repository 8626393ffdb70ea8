package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// CalendarHandler 船期日历 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// VesselCalendar 单船 ICS 日历订阅源
// GET /api/v1/vessels/:id/calendar.ics
func (h *CalendarHandler) VesselCalendar(c *gin.Context) {
	vesselID := c.Param("id")
	if vesselID == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	if !CheckVesselScope(c, vesselID) {
		return
	}

	ics, err := h.calendarSvc.VesselCalendar(c.Request.Context(), vesselID)
	if err != nil {
		if errors.Is(err, service.ErrVesselNotFound) {
			response.NotFound(c, 12001, "船舶不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=vessel-calendar.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
