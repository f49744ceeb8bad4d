package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Assign(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request)
	RemoveAssignment(w http.ResponseWriter, r *http.Request)

	Coverage(w http.ResponseWriter, r *http.Request)
	CoverageSummary(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if !decodeJSON(w, r, "CreateShift", &req) {
		return
	}

	created, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", created)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shiftService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, shifts, listMeta(len(shifts)))
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.shiftService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements ShiftHandler.
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftRequest
	if !decodeJSON(w, r, "UpdateShift", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", updated)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// Assign implements ShiftHandler.
func (h *shiftHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignEmployeeRequest
	if !decodeJSON(w, r, "AssignEmployee", &req) {
		return
	}
	req.ShiftID = chi.URLParam(r, "id")

	result, err := h.shiftService.AssignEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	msg := "Employee assigned successfully"
	if result.CapacityExceeded {
		msg = "Employee assigned; shift capacity exceeded"
	}
	response.Created(w, msg, result)
}

// ListAssignments implements ShiftHandler.
func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	req := shift.ListAssignmentsRequest{
		ShiftID: chi.URLParam(r, "id"),
		Date:    optionalQuery(r, "date"),
	}

	assignments, err := h.shiftService.ListAssignments(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, assignments, listMeta(len(assignments)))
}

// UpdateAssignmentStatus implements ShiftHandler.
func (h *shiftHandlerImpl) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateAssignmentStatusRequest
	if !decodeJSON(w, r, "UpdateAssignmentStatus", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.shiftService.UpdateAssignmentStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment updated successfully", updated)
}

// RemoveAssignment implements ShiftHandler.
func (h *shiftHandlerImpl) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.RemoveAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment removed successfully", nil)
}

// Coverage implements ShiftHandler.
func (h *shiftHandlerImpl) Coverage(w http.ResponseWriter, r *http.Request) {
	req := shift.CoverageRequest{
		ShiftID: chi.URLParam(r, "id"),
		Date:    optionalQuery(r, "date"),
	}

	coverage, err := h.shiftService.Coverage(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, coverage)
}

// CoverageSummary implements ShiftHandler.
func (h *shiftHandlerImpl) CoverageSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.shiftService.CoverageSummary(r.Context(), optionalQuery(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, summary, listMeta(len(summary)))
}
