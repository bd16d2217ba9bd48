package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/notification"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/logger"
	"github.com/retifica/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service brings the records around a budget into the approved state.
// Every write is keyed by a natural key, so re-running Approve for the same
// budget converges instead of duplicating.
type Service struct {
	repos    Repositories
	scope    TransitionScope
	workflow WorkflowTrigger
	locker   Locker
	metrics  MetricsRecorder
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a new budget approval service. workflow and locker may be nil.
func NewService(
	repos Repositories,
	scope TransitionScope,
	workflow WorkflowTrigger,
	locker Locker,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repos:    repos,
		scope:    scope,
		workflow: workflow,
		locker:   locker,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// run accumulates counters and soft failures of one Approve call
type run struct {
	log      *logger.ContextLogger
	now      time.Time
	budget   *budget.Budget
	order    *order.Order
	decision budget.Decision
	result   ApproveBudgetResult
}

func (r *run) warn(stage Stage, partCode string, err error) {
	r.log.Warn("budget approval step failed",
		zap.String("stage", string(stage)),
		zap.String("part_code", partCode),
		zap.Error(err),
	)
	r.result.Warnings = append(r.result.Warnings, Warning{
		Stage:    stage,
		PartCode: partCode,
		Message:  err.Error(),
	})
}

// SetMetrics attaches a recorder for approval outcomes
func (s *Service) SetMetrics(m MetricsRecorder) {
	s.metrics = m
}

// Approve approves a budget on behalf of actor
func (s *Service) Approve(ctx context.Context, actor Actor, req ApproveBudgetRequest) (*ApproveBudgetResult, error) {
	start := time.Now()
	result, err := s.approve(ctx, actor, req)
	if s.metrics != nil {
		s.metrics.RecordApproval(ctx, outcomeOf(req, result, err, time.Since(start)))
	}
	return result, err
}

func outcomeOf(req ApproveBudgetRequest, result *ApproveBudgetResult, err error, elapsed time.Duration) telemetry.ApprovalOutcome {
	o := telemetry.ApprovalOutcome{
		Outcome:      telemetry.OutcomeApproved,
		ApprovalType: "unknown",
		Duration:     elapsed,
	}
	if t, perr := budget.ParseApprovalType(req.ApprovalType); perr == nil {
		o.ApprovalType = t.String()
	}
	if err != nil {
		o.Outcome = telemetry.OutcomeError
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			o.Outcome = strings.ToLower(domainErr.Code)
		}
		return o
	}
	o.Reservations = result.ReservationsCreated
	o.PurchaseNeeds = result.PurchaseNeedsCreated
	o.Alerts = result.AlertsCreated
	for _, w := range result.Warnings {
		o.WarningStages = append(o.WarningStages, string(w.Stage))
	}
	return o
}

func (s *Service) approve(ctx context.Context, actor Actor, req ApproveBudgetRequest) (*ApproveBudgetResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "budget_approval", "approve")
	defer span.End()

	if actor.UserID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	in, err := Validate(actor, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBudgetID, in.BudgetID.String(),
		telemetry.SpanAttrApprovalType, in.Decision.Type.String(),
		telemetry.SpanAttrAmount, in.Decision.Amount.String(),
	)

	log := logger.WithLogger(ctx, s.logger).With(zap.String("budget_id", in.BudgetID.String()))

	var lease Lease
	if s.locker != nil {
		lease, err = s.locker.Lock(ctx, LockKey(in.BudgetID), s.cfg.LockTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			if errors.Is(err, ErrLockNotObtained) {
				return nil, ErrApprovalInProgress
			}
			return nil, fmt.Errorf("acquire approval lock: %w", err)
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release approval lock", zap.Error(err))
			}
		}()
	}

	b, err := s.repos.Budgets.FindByID(ctx, in.BudgetID)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if actor.TenantID != uuid.Nil && b.TenantID != actor.TenantID {
		return nil, ErrBudgetNotFound
	}

	o, err := s.repos.Orders.FindByID(ctx, b.OrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	r := &run{
		log:      log.With(zap.String("order_id", o.ID.String()), zap.String("tenant_id", b.TenantID.String())),
		now:      s.cfg.Now(),
		budget:   b,
		order:    o,
		decision: in.Decision,
		result: ApproveBudgetResult{
			BudgetID:            b.ID,
			OrderID:             o.ID,
			OrderStatus:         order.StatusApproved,
			PreviousOrderStatus: o.Status,
			Warnings:            []Warning{},
		},
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, b.TenantID.String(),
		telemetry.SpanAttrOrderID, o.ID.String(),
		"parts_count", len(b.Parts),
	)

	for _, part := range b.Parts {
		s.reconcilePart(ctx, r, part)
		if err := s.extendLease(ctx, r, lease); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.upsertReceivable(ctx, r); err != nil {
		if s.cfg.StrictReceivable {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("%w: %v", ErrReceivableFailed, err)
		}
		r.warn(StageReceivable, "", err)
	}

	if err := s.transition(ctx, r); err != nil {
		telemetry.RecordError(span, err)
		r.log.Error("budget approval transition failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransitionFailed, err)
	}

	if s.workflow != nil {
		if err := s.workflow.CreateFromEngineType(ctx, o.ID); err != nil {
			r.warn(StageWorkflow, "", err)
		}
	}

	history := order.NewStatusHistory(b.TenantID, o.ID, r.result.PreviousOrderStatus, order.StatusApproved,
		in.Decision.RegisteredBy, order.ApprovalNote(in.Decision.Type.String(), in.Decision.Notes), r.now)
	if err := s.repos.History.Append(ctx, history); err != nil {
		r.warn(StageStatusHistory, "", err)
	}

	if err := s.upsertApproval(ctx, r); err != nil {
		r.warn(StageApprovalRecord, "", err)
	}

	telemetry.SetAttributes(span,
		"reservations_created", r.result.ReservationsCreated,
		"purchase_needs_created", r.result.PurchaseNeedsCreated,
		"alerts_created", r.result.AlertsCreated,
		"warnings", len(r.result.Warnings),
	)
	r.log.Info("budget approved",
		zap.String("previous_order_status", r.result.PreviousOrderStatus.String()),
		zap.Int("reservations_created", r.result.ReservationsCreated),
		zap.Int("purchase_needs_created", r.result.PurchaseNeedsCreated),
		zap.Int("alerts_created", r.result.AlertsCreated),
		zap.Int("warnings", len(r.result.Warnings)),
	)

	return &r.result, nil
}

// extendLease keeps the approval lock alive across long part lists.
// A lost lease means another caller now owns the budget and the run stops.
// Any other refresh failure is logged and the run goes on under the current TTL.
func (s *Service) extendLease(ctx context.Context, r *run, lease Lease) error {
	if lease == nil {
		return nil
	}
	err := lease.Refresh(ctx, s.cfg.LockTTL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrLockLost):
		r.log.Warn("approval lock lost mid-run", zap.Int("reservations_created", r.result.ReservationsCreated))
		return ErrApprovalInProgress
	default:
		r.log.Warn("failed to refresh approval lock", zap.Error(err))
		return nil
	}
}

// reconcilePart handles shortage and reservation for one budget line
func (s *Service) reconcilePart(ctx context.Context, r *run, part budget.BudgetPart) {
	ctx, span := telemetry.StartSpan(ctx, "budget_approval.reconcile_part",
		telemetry.SpanAttrPartCode, part.PartCode,
	)
	defer span.End()

	tenantID := r.budget.TenantID

	stock, err := s.repos.Stock.FindRepresentative(ctx, tenantID, part.PartCode)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			r.warn(StageStockLookup, part.PartCode, err)
		}
		stock = nil
	}

	available, err := s.repos.Stock.SumAvailable(ctx, tenantID, part.PartCode)
	if err != nil {
		telemetry.RecordError(span, err)
		r.warn(StageStockLookup, part.PartCode, err)
		return
	}

	required := part.Quantity
	shortage := inventory.Shortage(required, available)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrQuantity, required.String(),
		"available", available.String(),
		telemetry.SpanAttrShortage, shortage.String(),
	)

	if shortage.IsPositive() {
		s.raiseShortage(ctx, r, part, available, shortage)
	}

	if available.IsPositive() && stock != nil {
		s.reserve(ctx, r, part, stock, available)
	}
}

// raiseShortage upserts the stock alert, the pending purchase need and its mirrored alert
func (s *Service) raiseShortage(ctx context.Context, r *run, part budget.BudgetPart, available, shortage decimal.Decimal) {
	tenantID := r.budget.TenantID

	stockAlert := inventory.NewInsufficientStockAlert(tenantID, part.PartCode, part.PartName, available, part.Quantity, r.now)
	if err := s.repos.StockAlerts.Upsert(ctx, stockAlert); err != nil {
		r.warn(StageStockAlert, part.PartCode, err)
	} else {
		r.result.AlertsCreated++
	}

	shortfall := purchasing.Shortfall{
		PartCode:  part.PartCode,
		PartName:  part.PartName,
		Required:  part.Quantity,
		Available: available,
		Shortage:  shortage,
		UnitPrice: part.UnitPrice,
		OrderID:   r.order.ID,
	}

	need, err := s.repos.PurchaseNeeds.FindPending(ctx, tenantID, part.PartCode)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		need = purchasing.NewPurchaseNeed(tenantID, shortfall, s.cfg.PurchaseNeedLeadTime, r.now)
	case err != nil:
		r.warn(StagePurchaseNeed, part.PartCode, err)
		return
	default:
		need.Refresh(shortfall, s.cfg.PurchaseNeedLeadTime, r.now)
	}
	if err := s.repos.PurchaseNeeds.Save(ctx, need); err != nil {
		r.warn(StagePurchaseNeed, part.PartCode, err)
		return
	}
	r.result.PurchaseNeedsCreated++

	// Re-read so the alert points at whichever row won a concurrent insert.
	pending, err := s.repos.PurchaseNeeds.FindPending(ctx, tenantID, part.PartCode)
	if err != nil {
		r.warn(StageNeedAlert, part.PartCode, err)
		return
	}

	alert, err := s.repos.Alerts.FindActiveByPurchaseNeed(ctx, tenantID, pending.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		alert = notification.NewPurchaseNeedAlert(pending, s.cfg.AlertExpiry, r.now)
	case err != nil:
		r.warn(StageNeedAlert, part.PartCode, err)
		return
	default:
		alert.MirrorPurchaseNeed(pending, s.cfg.AlertExpiry, r.now)
	}
	if err := s.repos.Alerts.Save(ctx, alert); err != nil {
		r.warn(StageNeedAlert, part.PartCode, err)
	}
}

// reserve creates the reservation of a budget line once, with its movement
func (s *Service) reserve(ctx context.Context, r *run, part budget.BudgetPart, stock *inventory.PartStock, available decimal.Decimal) {
	key := inventory.ReservationKey{
		BudgetID: r.budget.ID,
		OrderID:  r.order.ID,
		PartCode: part.PartCode,
	}

	exists, err := s.repos.Reservations.Exists(ctx, key)
	if err != nil {
		r.warn(StageReservation, part.PartCode, err)
		return
	}
	if exists {
		r.log.Debug("reservation already exists, skipping", zap.String("part_code", part.PartCode))
		return
	}

	quantity := inventory.ReservableQuantity(part.Quantity, available)
	reservation := inventory.NewPartsReservation(r.budget.TenantID, key, stock, part.PartName, quantity, r.decision.RegisteredBy, r.now)
	if err := s.repos.Reservations.Create(ctx, reservation); err != nil {
		r.warn(StageReservation, part.PartCode, err)
		return
	}
	r.result.ReservationsCreated++
	telemetry.AddEvent(ctx, "reservation_created",
		telemetry.SpanAttrPartCode, part.PartCode,
		telemetry.SpanAttrQuantity, quantity.String(),
	)

	movement := inventory.NewReservationMovement(reservation, available, r.now)
	if err := s.repos.Movements.Append(ctx, movement); err != nil {
		r.warn(StageMovement, part.PartCode, err)
	}
}

func (s *Service) upsertReceivable(ctx context.Context, r *run) error {
	var customerID *uuid.UUID
	if r.order.CustomerID != uuid.Nil {
		id := r.order.CustomerID
		customerID = &id
	}
	receivable, err := finance.NewAccountReceivable(
		r.budget.TenantID,
		r.order.ID,
		r.budget.ID,
		customerID,
		r.decision.Amount,
		r.now.Add(s.cfg.ReceivableDuePeriod),
		r.now,
	)
	if err != nil {
		return err
	}
	return s.repos.Receivables.Upsert(ctx, receivable)
}

func (s *Service) transition(ctx context.Context, r *run) error {
	b, o := *r.budget, *r.order
	b.Approve(r.now)
	previous := o.TransitionTo(order.StatusApproved, r.now)

	err := s.scope.Execute(ctx, func(repos TransitionalRepositories) error {
		if err := repos.BudgetRepo().UpdateStatus(ctx, b.ID, b.Status); err != nil {
			return fmt.Errorf("update budget status: %w", err)
		}
		if err := repos.OrderRepo().UpdateStatus(ctx, o.ID, o.Status); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*r.budget, *r.order = b, o
	r.result.OrderStatus = o.Status
	r.result.PreviousOrderStatus = previous
	return nil
}

func (s *Service) upsertApproval(ctx context.Context, r *run) error {
	existing, err := s.repos.Approvals.FindByBudget(ctx, r.budget.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return s.repos.Approvals.Save(ctx, budget.NewBudgetApproval(r.budget.TenantID, r.budget.ID, r.decision, r.now))
	case err != nil:
		return err
	}
	existing.ApplyDecision(r.decision, r.now)
	return s.repos.Approvals.Save(ctx, existing)
}

// GetApprovalSummary returns what an approval left behind for a budget
func (s *Service) GetApprovalSummary(ctx context.Context, actor Actor, budgetID uuid.UUID) (*ApprovalSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "budget_approval", "get_summary",
		telemetry.SpanAttrBudgetID, budgetID,
	)
	defer span.End()

	b, err := s.repos.Budgets.FindByID(ctx, budgetID)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if actor.TenantID != uuid.Nil && b.TenantID != actor.TenantID {
		return nil, ErrBudgetNotFound
	}

	summary := &ApprovalSummary{
		BudgetID:     b.ID,
		BudgetStatus: b.Status,
		OrderID:      b.OrderID,
		ApprovedAt:   b.ApprovedAt,
	}

	approval, err := s.repos.Approvals.FindByBudget(ctx, b.ID)
	switch {
	case err == nil:
		summary.Approval = approval
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("load approval: %w", err)
	}

	reservations, err := s.repos.Reservations.ListByBudget(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	summary.Reservations = len(reservations)

	receivable, err := s.repos.Receivables.FindByBudget(ctx, b.OrderID, b.ID)
	switch {
	case err == nil:
		summary.Receivable = receivable
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("load receivable: %w", err)
	}

	return summary, nil
}
