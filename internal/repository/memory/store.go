// Package memory implements every repository on process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type attendanceKey struct {
	employeeID string
	date       string
}

type payrollKey struct {
	employeeID string
	year       int
	month      int
}

type tables struct {
	shifts        map[string]shift.Shift
	assignments   map[string]shift.Assignment
	attendance    map[attendanceKey]attendance.Record
	leaveRequests map[string]leave.LeaveRequest
	balances      map[string]leave.Balance
	payroll       map[string]payroll.PayrollRecord
	payrollIndex  map[payrollKey]string
	journal       map[string]journal.Entry
	employees     map[string]employee.Employee
}

func newTables() tables {
	return tables{
		shifts:        make(map[string]shift.Shift),
		assignments:   make(map[string]shift.Assignment),
		attendance:    make(map[attendanceKey]attendance.Record),
		leaveRequests: make(map[string]leave.LeaveRequest),
		balances:      make(map[string]leave.Balance),
		payroll:       make(map[string]payroll.PayrollRecord),
		payrollIndex:  make(map[payrollKey]string),
		journal:       make(map[string]journal.Entry),
		employees:     make(map[string]employee.Employee),
	}
}

// Values are stored by value and replaced on update, so shallow map copies are
// enough for a snapshot.
func (t tables) clone() tables {
	return tables{
		shifts:        maps.Clone(t.shifts),
		assignments:   maps.Clone(t.assignments),
		attendance:    maps.Clone(t.attendance),
		leaveRequests: maps.Clone(t.leaveRequests),
		balances:      maps.Clone(t.balances),
		payroll:       maps.Clone(t.payroll),
		payrollIndex:  maps.Clone(t.payrollIndex),
		journal:       maps.Clone(t.journal),
		employees:     maps.Clone(t.employees),
	}
}

// Store holds all tables. Units of work run one at a time; a failed unit of
// work restores the snapshot taken when it began. Reads outside a unit of work
// wait for the running one to finish, so they only see committed data.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	data tables
	now  func() time.Time
}

type txKey struct{}

func NewStore() *Store {
	return &Store{data: newTables(), now: time.Now}
}

var _ database.Transactor = (*Store)(nil)

// WithinTx implements database.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// Lock implements database.Transactor. Units of work are already serialized.
func (s *Store) Lock(ctx context.Context, keys ...string) error {
	return ctx.Err()
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) restore(snapshot tables) {
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
}

// write runs fn with exclusive access. Outside a unit of work it also waits for
// any running one so a rollback cannot discard the write.
func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
