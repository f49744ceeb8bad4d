package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, annual_total, annual_used, sick_total, sick_used,
			   emergency_total, emergency_used, updated_at
		FROM leave_balances
		WHERE employee_id = $1
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&b.EmployeeID, &b.AnnualTotal, &b.AnnualUsed, &b.SickTotal, &b.SickUsed,
		&b.EmergencyTotal, &b.EmergencyUsed, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Upsert implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			employee_id, annual_total, annual_used, sick_total, sick_used, emergency_total, emergency_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id) DO UPDATE SET
			annual_total    = EXCLUDED.annual_total,
			annual_used     = EXCLUDED.annual_used,
			sick_total      = EXCLUDED.sick_total,
			sick_used       = EXCLUDED.sick_used,
			emergency_total = EXCLUDED.emergency_total,
			emergency_used  = EXCLUDED.emergency_used,
			updated_at      = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		b.EmployeeID, b.AnnualTotal, b.AnnualUsed, b.SickTotal, b.SickUsed, b.EmergencyTotal, b.EmergencyUsed,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return b, nil
}
