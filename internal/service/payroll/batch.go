package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const DefaultBatchConcurrency = 4

// BatchRunner calculates one period for many employees in parallel. A failed
// employee is recorded and does not stop the run; only cancellation does.
type BatchRunner struct {
	calculator  payroll.PayrollService
	concurrency int
}

func NewBatchRunner(calculator payroll.PayrollService, concurrency int) payroll.BatchService {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchRunner{calculator: calculator, concurrency: concurrency}
}

func (r *BatchRunner) Run(ctx context.Context, employeeIDs []int64, period payroll.Period) (payroll.BatchResult, error) {
	if len(employeeIDs) == 0 {
		return payroll.BatchResult{}, payroll.NewInputError(0, "employee_ids", "at least one employee is required", payroll.ErrEmptyBatch)
	}
	if err := validatePeriod(0, period); err != nil {
		return payroll.BatchResult{}, err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return payroll.BatchResult{}, fmt.Errorf("failed to generate run id: %w", err)
	}

	ids := uniqueIDs(employeeIDs)
	results := make([]*payroll.PayrollResult, len(ids))
	failures := make([]error, len(ids))
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := r.calculator.Calculate(gctx, id, period)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil && isCancellation(err) {
					return ctxErr
				}
				slog.Warn("Payroll calculation failed in run", "run_id", runID.String(), "employee_id", id, "error", err)
				failures[i] = err
				return nil
			}
			results[i] = &result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payroll.BatchResult{}, fmt.Errorf("payroll run %s aborted: %w", runID, err)
	}

	batch := payroll.BatchResult{
		RunID:           runID.String(),
		Period:          period,
		Results:         make([]payroll.PayrollResult, 0, len(ids)),
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
	}
	for i, id := range ids {
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, payroll.BatchFailure{EmployeeID: id, Err: failures[i]})
			continue
		}
		res := *results[i]
		batch.Results = append(batch.Results, res)
		batch.TotalGross = batch.TotalGross.Add(res.GrossPay)
		batch.TotalDeductions = batch.TotalDeductions.Add(res.TotalDeductions)
		batch.TotalNet = batch.TotalNet.Add(res.NetPay)
	}

	slog.Info("Payroll run completed",
		"run_id", batch.RunID,
		"employees", len(ids),
		"succeeded", len(batch.Results),
		"failed", len(batch.Failures),
		"total_net", batch.TotalNet.String(),
		"duration", time.Since(started).String(),
	)

	return batch, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
