package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	queryTimeout   time.Duration
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	queryTimeout time.Duration,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		queryTimeout:   queryTimeout,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	record, err := s.mutate(ctx, req.EmployeeID, date, func(rec *attendance.Record, exists bool) error {
		rec.EmployeeName = strings.TrimSpace(req.EmployeeName)
		if exists && rec.CheckIn != nil && *rec.CheckIn != req.Time {
			// The old checkout belonged to the old check-in.
			rec.CheckOut = nil
			rec.WorkedHours = nil
		}
		if rec.CheckOut != nil {
			hours, err := attendance.WorkedHours(req.Time, *rec.CheckOut)
			if err != nil {
				return err
			}
			rec.WorkedHours = &hours
		}
		checkIn := req.Time
		rec.CheckIn = &checkIn
		rec.Status = attendance.StatusPresent
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	record, err := s.mutate(ctx, req.EmployeeID, date, func(rec *attendance.Record, exists bool) error {
		if !exists || rec.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		hours, err := attendance.WorkedHours(*rec.CheckIn, req.Time)
		if err != nil {
			return err
		}
		checkOut := req.Time
		rec.CheckOut = &checkOut
		rec.WorkedHours = &hours
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(record), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkStatusRequest) (attendance.AttendanceResponse, error) {
	return s.mark(ctx, req, attendance.StatusAbsent)
}

// MarkOnLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkOnLeave(ctx context.Context, req attendance.MarkStatusRequest) (attendance.AttendanceResponse, error) {
	return s.mark(ctx, req, attendance.StatusOnLeave)
}

func (s *AttendanceServiceImpl) mark(ctx context.Context, req attendance.MarkStatusRequest, status attendance.Status) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	record, err := s.mutate(ctx, req.EmployeeID, date, func(rec *attendance.Record, exists bool) error {
		if !exists || rec.EmployeeName == "" {
			rec.EmployeeName = strings.TrimSpace(req.EmployeeName)
		}
		rec.Status = status
		if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
			rec.Notes = req.Reason
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(record), nil
}

// UpdateStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateStatus(ctx context.Context, req attendance.UpdateStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	record, err := s.mutate(ctx, req.EmployeeID, date, func(rec *attendance.Record, exists bool) error {
		if !exists {
			return attendance.ErrAttendanceNotFound
		}
		rec.Status = attendance.Status(req.Status)
		if req.Notes != nil {
			rec.Notes = req.Notes
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(record), nil
}

// mutate loads the (employee, date) record, applies fn and upserts the result
// inside one unit of work locked on the natural key. Nothing is written when fn
// fails.
func (s *AttendanceServiceImpl) mutate(
	ctx context.Context,
	employeeID string,
	date time.Time,
	fn func(rec *attendance.Record, exists bool) error,
) (attendance.Record, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var saved attendance.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.Lock(ctx, "attendance:"+employeeID+":"+date.Format(validator.DateLayout)); err != nil {
			return err
		}

		rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
		exists := true
		if err != nil {
			if !errors.Is(err, attendance.ErrAttendanceNotFound) {
				return fmt.Errorf("failed to get attendance: %w", err)
			}
			exists = false
			rec = attendance.Record{EmployeeID: employeeID, Date: date}
		}

		if err := fn(&rec, exists); err != nil {
			return err
		}

		saved, err = s.attendanceRepo.Upsert(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		return nil
	})
	return saved, err
}

// QueryByEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) QueryByEmployee(ctx context.Context, req attendance.EmployeeRangeRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Bounds()

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, err := s.attendanceRepo.ListByEmployee(ctx, req.EmployeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toResponses(records), nil
}

// QueryByDateRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) QueryByDateRange(ctx context.Context, req attendance.DateRangeRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, _ := validator.IsValidDate(req.Start)
	end, _ := validator.IsValidDate(req.End)

	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, err := s.attendanceRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toResponses(records), nil
}

// Stats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Stats(ctx context.Context, req attendance.EmployeeRangeRequest) (attendance.StatsResponse, error) {
	if err := req.ValidateBounded(); err != nil {
		return attendance.StatsResponse{}, err
	}
	start, end := req.Bounds()

	stats, err := s.StatsBetween(ctx, req.EmployeeID, start, end)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	return attendance.StatsResponse{
		EmployeeID:  stats.EmployeeID,
		Start:       req.Start,
		End:         req.End,
		PresentDays: stats.PresentDays,
		AbsentDays:  stats.AbsentDays,
		LeaveDays:   stats.LeaveDays,
		TotalHours:  stats.TotalHours,
		TotalDays:   stats.TotalDays,
	}, nil
}

// StatsBetween aggregates an employee's records in the inclusive range. It is
// the read path the payroll engine uses.
func (s *AttendanceServiceImpl) StatsBetween(ctx context.Context, employeeID string, start, end *time.Time) (attendance.Stats, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, err := s.attendanceRepo.ListByEmployee(ctx, employeeID, start, end)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.Summarize(employeeID, records), nil
}

// MarkMissingAbsent marks every given employee without a record on date as
// absent and returns how many were marked.
func (s *AttendanceServiceImpl) MarkMissingAbsent(ctx context.Context, date time.Time, employees []employee.Employee) (int, error) {
	lookupCtx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	ids, err := s.attendanceRepo.ListEmployeeIDsOnDate(lookupCtx, date)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to list attendance on date: %w", err)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	reason := "no attendance recorded"
	marked := 0
	for _, emp := range employees {
		if _, ok := seen[emp.ID]; ok {
			continue
		}
		_, err := s.MarkAbsent(ctx, attendance.MarkStatusRequest{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Date:         date.Format(validator.DateLayout),
			Reason:       &reason,
		})
		if err != nil {
			return marked, fmt.Errorf("failed to mark %s absent: %w", emp.ID, err)
		}
		marked++
	}
	return marked, nil
}

func toResponses(records []attendance.Record) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses
}
