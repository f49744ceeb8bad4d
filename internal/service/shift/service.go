package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type shiftServiceImpl struct {
	tx             database.Transactor
	shiftRepo      shift.ShiftRepository
	assignmentRepo shift.AssignmentRepository
	queryTimeout   time.Duration
}

func NewShiftService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.AssignmentRepository,
	queryTimeout time.Duration,
) shift.ShiftService {
	return &shiftServiceImpl{
		tx:             tx,
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		queryTimeout:   queryTimeout,
	}
}

// ========== SHIFT TEMPLATES ==========

// CreateShift implements shift.ShiftService.
func (s *shiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = generateShiftCode()
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		Type:          shift.ShiftType(req.Type),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationHours: req.DurationHours,
		MaxEmployees:  req.MaxEmployees,
		Location:      req.Location,
		Color:         req.Color,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, shift.ErrShiftCodeExists) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return shift.NewShiftResponse(created), nil
}

// GetShift implements shift.ShiftService.
func (s *shiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	found, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(found), nil
}

// ListShifts implements shift.ShiftService.
func (s *shiftServiceImpl) ListShifts(ctx context.Context) ([]shift.ShiftResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.NewShiftResponse(sh))
	}
	return responses, nil
}

// UpdateShift implements shift.ShiftService.
func (s *shiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var updated shift.Shift
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.shiftRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		merged, err := req.Apply(current)
		if err != nil {
			return err
		}

		updated, err = s.shiftRepo.Update(ctx, merged)
		return err
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return shift.NewShiftResponse(updated), nil
}

// DeleteShift implements shift.ShiftService.
func (s *shiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.shiftRepo.GetByID(ctx, id); err != nil {
			return err
		}

		removed, err := s.assignmentRepo.DeleteByShiftID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete shift assignments: %w", err)
		}

		if err := s.shiftRepo.Delete(ctx, id); err != nil {
			return err
		}

		slog.Info("Deleted shift", "shift_id", id, "assignments_removed", removed)
		return nil
	})
}

// ========== ASSIGNMENTS ==========

// AssignEmployee implements shift.ShiftService.
func (s *shiftServiceImpl) AssignEmployee(ctx context.Context, req shift.AssignEmployeeRequest) (shift.AssignmentResult, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResult{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	status := shift.AssignmentStatusConfirmed
	if req.Status != "" {
		status = shift.AssignmentStatus(req.Status)
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var result shift.AssignmentResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Serialize assignments into the same shift-day so the count is exact.
		if err := s.tx.Lock(ctx, "shift:"+req.ShiftID+":"+req.Date); err != nil {
			return err
		}

		target, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
		if err != nil {
			return err
		}

		count, err := s.assignmentRepo.CountActive(ctx, target.ID, &date)
		if err != nil {
			return fmt.Errorf("failed to count assignments: %w", err)
		}

		created, err := s.assignmentRepo.Create(ctx, shift.Assignment{
			ShiftID:  target.ID,
			Employee: strings.TrimSpace(req.Employee),
			Role:     req.Role,
			Date:     date,
			Status:   status,
		})
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		result = shift.AssignmentResult{
			Assignment:       shift.NewAssignmentResponse(created),
			CapacityExceeded: count >= target.MaxEmployees,
			AssignedCount:    count,
			Capacity:         target.MaxEmployees,
		}
		if status != shift.AssignmentStatusCancelled {
			result.AssignedCount++
		}
		return nil
	})
	if err != nil {
		return shift.AssignmentResult{}, err
	}

	if result.CapacityExceeded {
		slog.Warn("Shift capacity exceeded",
			"shift_id", req.ShiftID,
			"date", req.Date,
			"assigned", result.AssignedCount,
			"capacity", result.Capacity,
		)
	}

	return result, nil
}

// ListAssignments implements shift.ShiftService.
func (s *shiftServiceImpl) ListAssignments(ctx context.Context, req shift.ListAssignmentsRequest) ([]shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	filter := shift.AssignmentFilter{ShiftID: req.ShiftID}
	if req.Date != nil {
		date, _ := validator.IsValidDate(*req.Date)
		filter.Date = &date
	}

	if filter.ShiftID != "" {
		if _, err := s.shiftRepo.GetByID(ctx, filter.ShiftID); err != nil {
			return nil, err
		}
	}

	assignments, err := s.assignmentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, shift.NewAssignmentResponse(a))
	}
	return responses, nil
}

// UpdateAssignmentStatus implements shift.ShiftService.
func (s *shiftServiceImpl) UpdateAssignmentStatus(ctx context.Context, req shift.UpdateAssignmentStatusRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	updated, err := s.assignmentRepo.UpdateStatus(ctx, req.ID, shift.AssignmentStatus(req.Status))
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	return shift.NewAssignmentResponse(updated), nil
}

// RemoveAssignment implements shift.ShiftService.
func (s *shiftServiceImpl) RemoveAssignment(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.assignmentRepo.Delete(ctx, id)
}

// ========== COVERAGE ==========

// Coverage implements shift.ShiftService.
func (s *shiftServiceImpl) Coverage(ctx context.Context, req shift.CoverageRequest) (shift.CoverageResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.CoverageResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	target, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return shift.CoverageResponse{}, err
	}

	return s.coverageOf(ctx, target, req.Date)
}

// CoverageSummary implements shift.ShiftService.
func (s *shiftServiceImpl) CoverageSummary(ctx context.Context, date *string) ([]shift.CoverageResponse, error) {
	if date != nil {
		if _, ok := validator.IsValidDate(*date); !ok {
			var errs validator.ValidationErrors
			errs.Add("date", "must be a date in YYYY-MM-DD format")
			return nil, errs
		}
	}

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	summary := make([]shift.CoverageResponse, 0, len(shifts))
	for _, sh := range shifts {
		cov, err := s.coverageOf(ctx, sh, date)
		if err != nil {
			return nil, err
		}
		summary = append(summary, cov)
	}
	return summary, nil
}

func (s *shiftServiceImpl) coverageOf(ctx context.Context, target shift.Shift, date *string) (shift.CoverageResponse, error) {
	var day *time.Time
	if date != nil {
		d, _ := validator.IsValidDate(*date)
		day = &d
	}

	assigned, err := s.assignmentRepo.CountActive(ctx, target.ID, day)
	if err != nil {
		return shift.CoverageResponse{}, fmt.Errorf("failed to count assignments: %w", err)
	}

	return shift.CoverageResponse{
		ShiftID:   target.ID,
		ShiftName: target.Name,
		Date:      date,
		Assigned:  assigned,
		Capacity:  target.MaxEmployees,
		Percent:   shift.CoveragePercent(assigned, target.MaxEmployees),
	}, nil
}

func generateShiftCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SHF-" + strings.ToUpper(raw[len(raw)-6:])
}
