package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"hadirin.app/hadirin/attendance/core"
	"hadirin.app/hadirin/attendance/device"
	"hadirin.app/hadirin/attendance/model"
	"hadirin.app/hadirin/report"
	"hadirin.app/hadirin/web/common"
	"hadirin.app/hadirin/web/middlewares"
)

// Tracker is the slice of core.Tracker the handlers call. Narrowed to an
// interface so handler tests can script outcomes.
type Tracker interface {
	Today(ctx context.Context, userID string) (*model.AttendanceRecord, core.State, error)
	CheckIn(ctx context.Context, userID string, broker device.Broker) (*model.AttendanceRecord, error)
	CheckOut(ctx context.Context, userID string) (*model.AttendanceRecord, error)
}

type Endpoint struct {
	tracker  Tracker
	exporter *report.Exporter
}

func Register(r *gin.RouterGroup, tracker Tracker, exporter *report.Exporter) {
	endpoint := &Endpoint{tracker: tracker, exporter: exporter}
	r.GET("/attendance/today", endpoint.Today)
	r.POST("/attendance/check-in", endpoint.CheckIn)
	r.POST("/attendance/check-out", endpoint.CheckOut)
	r.GET("/attendance/report/:month", endpoint.MonthlyReport)
}

type attendanceDTO struct {
	Record *model.AttendanceRecord `json:"record"`
	State  core.State              `json:"state"`
}

const maxSelfieBytes = 10 << 20

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

func (ep *Endpoint) Today(c *gin.Context) {
	userID := c.GetString(middlewares.UserIDKey)

	rec, state, err := ep.tracker.Today(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(attendanceDTO{Record: rec, State: state}))
}

func (ep *Endpoint) CheckIn(c *gin.Context) {
	userID := c.GetString(middlewares.UserIDKey)

	var form CheckInForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	broker := &requestBroker{form: form}
	if fh, err := c.FormFile("selfie"); err == nil {
		if fh.Size > maxSelfieBytes {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Selfie exceeds the 10 MB limit"))
			return
		}
		file, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
			return
		}
		broker.photo = data
		broker.contentType = fh.Header.Get("Content-Type")
		if broker.contentType == "" {
			broker.contentType = "image/jpeg"
		}
	}

	rec, err := ep.tracker.CheckIn(c.Request.Context(), userID, broker)
	if err != nil {
		status, msg := mapAttendanceError(err)
		c.JSON(status, common.NewErrorResponse(msg))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(attendanceDTO{Record: rec, State: core.StateCheckedIn}))
}

func (ep *Endpoint) CheckOut(c *gin.Context) {
	userID := c.GetString(middlewares.UserIDKey)

	rec, err := ep.tracker.CheckOut(c.Request.Context(), userID)
	if err != nil {
		status, msg := mapAttendanceError(err)
		c.JSON(status, common.NewErrorResponse(msg))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(attendanceDTO{Record: rec, State: core.StateCheckedOut}))
}

func (ep *Endpoint) MonthlyReport(c *gin.Context) {
	userID := c.GetString(middlewares.UserIDKey)

	month := c.Param("month")
	if !monthRe.MatchString(month) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid month, expected yyyy-MM"))
		return
	}

	wb, err := ep.exporter.MonthlyWorkbook(c.Request.Context(), userID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, month))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
	}
}

// mapAttendanceError gives every failure kind its own status and an
// actionable message. Orphaned writes get called out explicitly because the
// record exists and needs follow-up, unlike a plain failed attempt.
func mapAttendanceError(err error) (int, string) {
	switch {
	case errors.Is(err, device.ErrPermissionDenied):
		return http.StatusForbidden, "Location and camera permissions are required to check in"
	case errors.Is(err, device.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity, "Could not get a location fix, move somewhere with better signal and retry"
	case errors.Is(err, device.ErrCaptureCancelled):
		return http.StatusUnprocessableEntity, "Selfie capture was cancelled, nothing was recorded"
	case errors.Is(err, device.ErrCaptureFailed):
		return http.StatusUnprocessableEntity, "Selfie capture failed, retry the check-in"
	case errors.Is(err, core.ErrUploadFailed):
		return http.StatusBadGateway, "Selfie upload failed, nothing was recorded, retry the check-in"
	case errors.Is(err, core.ErrDuplicateRecord):
		return http.StatusConflict, "Attendance for today already exists"
	case errors.Is(err, core.ErrOrphanedWrite):
		return http.StatusInternalServerError, "Check-in was recorded but its location was not saved; HR has been notified, do not check in again"
	case errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound, "No check-in found for today"
	case errors.Is(err, core.ErrAlreadyCheckedOut):
		return http.StatusConflict, "Already checked out for today"
	}
	return http.StatusInternalServerError, err.Error()
}
