// Package checkout drives a cart through stock verification into a
// prepared draft order, tracking the attempt as an explicit state
// machine instead of scattered flags.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/orders"
	"github.com/modamarket/backend/internal/stock"
	"github.com/modamarket/backend/pkg/logger"
	"github.com/modamarket/backend/pkg/metrics"
)

const failedRetryMessage = "요청 중 문제가 발생했습니다."
const redirectMissingMessage = "주문 페이지 이동 실패"

type stockChecker interface {
	Check(ctx context.Context, lines []stock.CheckLine) ([]stock.Issue, error)
	BuildReport(ctx context.Context, submitted []stock.CheckLine, issues []stock.Issue) []stock.ReportLine
}

type orderPreparer interface {
	Prepare(ctx context.Context, userID int64, lines []orders.PrepareLine, bonusPointsUsed int) (*orders.PrepareResult, error)
}

// Result is the terminal outcome of one checkout attempt.
type Result struct {
	State       State
	RedirectURL string
	Report      []stock.ReportLine
	Message     string
	Trace       []State
}

// Orchestrator runs checkout attempts.
type Orchestrator struct {
	stock   stockChecker
	orders  orderPreparer
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// NewOrchestrator wires the checkout dependencies. Metrics and logger
// may be nil in tests.
func NewOrchestrator(stockSvc stockChecker, orderSvc orderPreparer, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Orchestrator, error) {
	if stockSvc == nil {
		return nil, fmt.Errorf("stock checker required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order preparer required")
	}
	return &Orchestrator{stock: stockSvc, orders: orderSvc, metrics: m, logg: logg}, nil
}

type attempt struct {
	state State
	trace []State
}

func newAttempt() *attempt {
	return &attempt{state: StateIdle, trace: []State{StateIdle}}
}

func (a *attempt) to(next State) {
	if !CanTransition(a.state, next) {
		// a forbidden hop is a programming error, not shopper input
		panic(fmt.Sprintf("checkout: illegal transition %s -> %s", a.state, next))
	}
	a.state = next
	a.trace = append(a.trace, next)
}

// Run executes one attempt over the shopper's cart lines using the
// provided collection strategy.
func (o *Orchestrator) Run(ctx context.Context, userID int64, cartLines []cart.LineItem, collector Collector, bonusPointsUsed int) Result {
	started := time.Now()
	a := newAttempt()

	a.to(StateCollecting)
	collected := collector.Collect(cartLines)
	if len(collected) == 0 {
		a.to(StateFailed)
		return o.finish(a, started, Result{Message: collector.EmptyMessage()})
	}

	a.to(StateCheckingStock)
	checkLines := make([]stock.CheckLine, 0, len(collected))
	for _, line := range collected {
		checkLines = append(checkLines, stock.CheckLine{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}
	issues, err := o.stock.Check(ctx, checkLines)
	if err != nil {
		if o.logg != nil {
			o.logg.Error(ctx, "checkout stock check failed", err)
		}
		a.to(StateFailed)
		return o.finish(a, started, Result{Message: failedRetryMessage})
	}

	if len(issues) > 0 {
		for _, issue := range issues {
			o.metrics.IncConflict(issue.IssueType.String())
		}
		a.to(StateReportingConflicts)
		report := o.stock.BuildReport(ctx, checkLines, issues)
		return o.finish(a, started, Result{Report: report})
	}

	a.to(StatePreparingOrder)
	prepareLines := make([]orders.PrepareLine, 0, len(collected))
	for _, line := range collected {
		prepareLines = append(prepareLines, orders.PrepareLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
		})
	}
	prepared, err := o.orders.Prepare(ctx, userID, prepareLines, bonusPointsUsed)
	if err != nil {
		if o.logg != nil {
			o.logg.Error(ctx, "checkout order prepare failed", err)
		}
		a.to(StateFailed)
		return o.finish(a, started, Result{Message: failedRetryMessage})
	}
	if prepared == nil || prepared.RedirectURL == "" {
		a.to(StateFailed)
		return o.finish(a, started, Result{Message: redirectMissingMessage})
	}

	a.to(StateRedirected)
	return o.finish(a, started, Result{RedirectURL: prepared.RedirectURL})
}

func (o *Orchestrator) finish(a *attempt, started time.Time, res Result) Result {
	res.State = a.state
	res.Trace = a.trace

	outcome := map[State]string{
		StateRedirected:         "prepared",
		StateReportingConflicts: "conflict",
		StateFailed:             "failed",
	}[a.state]
	o.metrics.IncOutcome(outcome)
	o.metrics.ObserveDuration(outcome, time.Since(started))
	return res
}
