package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/workforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/ledger"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/attendance"
	journalService "github.com/cmlabs-hris/workforce-backend-go/internal/service/journal"
	leaveService "github.com/cmlabs-hris/workforce-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/workforce-backend-go/internal/service/payroll"
	shiftService "github.com/cmlabs-hris/workforce-backend-go/internal/service/shift"
)

const version = "v1.0.0"

// repositories is one storage backend's set of repositories.
type repositories struct {
	tx           database.Transactor
	shifts       shift.ShiftRepository
	assignments  shift.AssignmentRepository
	attendance   attendance.AttendanceRepository
	leaveRequest leave.LeaveRequestRepository
	leaveBalance leave.LeaveBalanceRepository
	payroll      payroll.PayrollRepository
	journal      journal.EntryRepository
	employees    employee.DirectoryStore
	close        func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	setupLogger(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	if cfg.App.EmployeeSeedFile != "" {
		employees, err := employee.LoadSeedFile(cfg.App.EmployeeSeedFile)
		if err != nil {
			return err
		}
		if err := repos.employees.Seed(ctx, employees); err != nil {
			return fmt.Errorf("failed to seed employees: %w", err)
		}
		slog.Info("Employee directory seeded", "count", len(employees), "file", cfg.App.EmployeeSeedFile)
	}

	timeout := cfg.Database.QueryTimeout

	// A nil *ledger.Client stored in the interface would not compare equal to
	// nil, so the interface stays unset without a URL.
	var ledgerClient journal.LedgerClient
	if cfg.Ledger.URL != "" {
		ledgerClient = ledger.NewClient(cfg.Ledger.URL, cfg.Ledger.RequestTimeout)
	}

	journalSvc := journalService.NewJournalService(repos.journal, ledgerClient, timeout)
	shiftSvc := shiftService.NewShiftService(repos.tx, repos.shifts, repos.assignments, timeout)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.attendance, timeout)
	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.leaveRequest, repos.leaveBalance, attendanceSvc, leaveService.Options{
		Policy: leave.BalancePolicy(cfg.Leave.BalancePolicy),
		Allotment: leave.Allotment{
			Annual:    cfg.Leave.DefaultAnnual,
			Sick:      cfg.Leave.DefaultSick,
			Emergency: cfg.Leave.DefaultEmergency,
		},
		QueryTimeout: timeout,
	})
	payrollSvc := payrollService.NewPayrollService(repos.tx, repos.payroll, attendanceSvc, repos.employees, journalSvc, payrollService.Options{
		Currency:      cfg.Payroll.Currency,
		StandardHours: cfg.Payroll.StandardHours,
		Accounts: map[payroll.PaymentMethod]string{
			payroll.PaymentMethodCash:  cfg.Ledger.AccountCash,
			payroll.PaymentMethodBank:  cfg.Ledger.AccountBank,
			payroll.PaymentMethodCheck: cfg.Ledger.AccountCheck,
		},
		QueryTimeout: timeout,
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, repos.employees, cfg.Jobs.AbsenceCutoffHour).RegisterJobs(scheduler)
	if ledgerClient != nil {
		cron.NewJournalJobs(journalSvc, cfg.Ledger.RelayInterval).RegisterJobs(scheduler)
	} else {
		slog.Warn("LEDGER_URL not set, journal entries stay in the outbox")
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
		},
		appHTTP.Handlers{
			Shift:      appHTTP.NewShiftHandler(shiftSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Journal:    appHTTP.NewJournalHandler(journalSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Database.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		slog.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			tx:           store,
			shifts:       memory.NewShiftRepository(store),
			assignments:  memory.NewAssignmentRepository(store),
			attendance:   memory.NewAttendanceRepository(store),
			leaveRequest: memory.NewLeaveRequestRepository(store),
			leaveBalance: memory.NewLeaveBalanceRepository(store),
			payroll:      memory.NewPayrollRepository(store),
			journal:      memory.NewJournalRepository(store),
			employees:    memory.NewEmployeeDirectory(store),
			close:        func() {},
		}, nil

	case config.StorageDriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		db, err := database.NewPostgreSQLDB(connectCtx, cfg.DatabaseURL(), database.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := postgresql.Migrate(connectCtx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			tx:           postgresql.NewTransactor(db),
			shifts:       postgresql.NewShiftRepository(db),
			assignments:  postgresql.NewAssignmentRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			leaveRequest: postgresql.NewLeaveRequestRepository(db),
			leaveBalance: postgresql.NewLeaveBalanceRepository(db),
			payroll:      postgresql.NewPayrollRepository(db),
			journal:      postgresql.NewJournalRepository(db),
			employees:    postgresql.NewEmployeeDirectory(db),
			close:        db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Database.Driver)
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
