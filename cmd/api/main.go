package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appHTTP.ParseLogLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	payrollSvc := payrollService.WithSnapshot(
		payrollService.NewPayrollService(employeeRepo, attendanceRepo, leaveRequestRepo, payrollService.Settings{
			StandardTimeIn:        cfg.Payroll.StandardTimeIn,
			StandardTimeOut:       cfg.Payroll.StandardTimeOut,
			GraceMinutes:          cfg.Payroll.GraceMinutes,
			FallbackMonthlySalary: cfg.Payroll.FallbackMonthlySalary,
			UnpaidLeaveType:       cfg.Payroll.UnpaidLeaveType,
			Location:              cfg.Payroll.Location,
		}),
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithReadOnlySnapshot(ctx, db, fn)
		},
	)
	batchSvc := payrollService.NewBatchRunner(payrollSvc, cfg.Payroll.BatchConcurrency)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, batchSvc)

	router := appHTTP.NewRouter(JWTService, cfg.App, payrollHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server error: ", err)
	}
	slog.Info("Server stopped")
}
