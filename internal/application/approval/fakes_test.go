package approval

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/notification"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory double of every store the reconciler touches.
// fail maps an operation name to the error it should return.
type memStore struct {
	mu sync.Mutex

	budgets      map[uuid.UUID]*budget.Budget
	orders       map[uuid.UUID]*order.Order
	stock        []inventory.PartStock
	stockAlerts  map[string]*inventory.StockAlert
	needs        []*purchasing.PurchaseNeed
	alerts       []*notification.Alert
	reservations []*inventory.PartsReservation
	movements    []*inventory.InventoryMovement
	receivables  map[[2]uuid.UUID]*finance.AccountReceivable
	history      []*order.StatusHistory
	approvals    map[uuid.UUID]*budget.BudgetApproval
	workflows    []uuid.UUID

	calls int
	fail  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		budgets:     map[uuid.UUID]*budget.Budget{},
		orders:      map[uuid.UUID]*order.Order{},
		stockAlerts: map[string]*inventory.StockAlert{},
		receivables: map[[2]uuid.UUID]*finance.AccountReceivable{},
		approvals:   map[uuid.UUID]*budget.BudgetApproval{},
		fail:        map[string]error{},
	}
}

func (m *memStore) enter(op string) error {
	m.mu.Lock()
	m.calls++
	err := m.fail[op]
	m.mu.Unlock()
	return err
}

func (m *memStore) repositories() Repositories {
	return Repositories{
		Budgets:       memBudgets{m},
		Approvals:     memApprovals{m},
		Orders:        memOrders{m},
		History:       memHistory{m},
		Stock:         memStock{m},
		StockAlerts:   memStockAlerts{m},
		Reservations:  memReservations{m},
		Movements:     memMovements{m},
		PurchaseNeeds: memNeeds{m},
		Alerts:        memAlerts{m},
		Receivables:   memReceivables{m},
	}
}

func (m *memStore) addStock(tenantID uuid.UUID, code string, qty int64, unitCost float64) {
	s := inventory.PartStock{
		TenantEntity: shared.NewTenantEntity(tenantID, time.Now()),
		PartCode:     code,
		PartName:     code,
		Quantity:     decimal.NewFromInt(qty),
		UnitCost:     decimal.NewFromFloat(unitCost),
	}
	m.stock = append(m.stock, s)
}

func (m *memStore) pendingNeeds(tenantID uuid.UUID, code string) []*purchasing.PurchaseNeed {
	var out []*purchasing.PurchaseNeed
	for _, n := range m.needs {
		if n.TenantID == tenantID && n.PartCode == code && n.Status == purchasing.NeedStatusPending {
			out = append(out, n)
		}
	}
	return out
}

type memBudgets struct{ m *memStore }

func (r memBudgets) FindByID(_ context.Context, id uuid.UUID) (*budget.Budget, error) {
	if err := r.m.enter("budget.find"); err != nil {
		return nil, err
	}
	b, ok := r.m.budgets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBudgets) UpdateStatus(_ context.Context, id uuid.UUID, status budget.Status) error {
	if err := r.m.enter("budget.update_status"); err != nil {
		return err
	}
	b, ok := r.m.budgets[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.Status = status
	return nil
}

type memOrders struct{ m *memStore }

func (r memOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	if err := r.m.enter("order.find"); err != nil {
		return nil, err
	}
	o, ok := r.m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r memOrders) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status) error {
	if err := r.m.enter("order.update_status"); err != nil {
		return err
	}
	o, ok := r.m.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	o.Status = status
	return nil
}

type memHistory struct{ m *memStore }

func (r memHistory) Append(_ context.Context, entry *order.StatusHistory) error {
	if err := r.m.enter("history.append"); err != nil {
		return err
	}
	r.m.history = append(r.m.history, entry)
	return nil
}

func (r memHistory) ListByOrder(_ context.Context, orderID uuid.UUID) ([]order.StatusHistory, error) {
	var out []order.StatusHistory
	for _, h := range r.m.history {
		if h.OrderID == orderID {
			out = append(out, *h)
		}
	}
	return out, nil
}

type memStock struct{ m *memStore }

func (r memStock) FindRepresentative(_ context.Context, tenantID uuid.UUID, code string) (*inventory.PartStock, error) {
	if err := r.m.enter("stock.find"); err != nil {
		return nil, err
	}
	for i := range r.m.stock {
		if r.m.stock[i].TenantID == tenantID && r.m.stock[i].PartCode == code {
			cp := r.m.stock[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memStock) SumAvailable(_ context.Context, tenantID uuid.UUID, code string) (decimal.Decimal, error) {
	if err := r.m.enter("stock.sum"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, s := range r.m.stock {
		if s.TenantID == tenantID && s.PartCode == code {
			total = total.Add(s.Quantity)
		}
	}
	return total, nil
}

type memStockAlerts struct{ m *memStore }

func (r memStockAlerts) Upsert(_ context.Context, alert *inventory.StockAlert) error {
	if err := r.m.enter("stock_alert.upsert"); err != nil {
		return err
	}
	key := alert.TenantID.String() + "/" + alert.PartCode
	if existing, ok := r.m.stockAlerts[key]; ok {
		alert.ID = existing.ID
	}
	cp := *alert
	r.m.stockAlerts[key] = &cp
	return nil
}

func (r memStockAlerts) FindByPartCode(_ context.Context, tenantID uuid.UUID, code string) (*inventory.StockAlert, error) {
	a, ok := r.m.stockAlerts[tenantID.String()+"/"+code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

type memNeeds struct{ m *memStore }

func (r memNeeds) FindPending(_ context.Context, tenantID uuid.UUID, code string) (*purchasing.PurchaseNeed, error) {
	if err := r.m.enter("need.find"); err != nil {
		return nil, err
	}
	pending := r.m.pendingNeeds(tenantID, code)
	if len(pending) == 0 {
		return nil, shared.ErrNotFound
	}
	cp := *pending[0]
	cp.RelatedOrders = append(purchasing.RelatedOrders{}, pending[0].RelatedOrders...)
	return &cp, nil
}

func (r memNeeds) Save(_ context.Context, need *purchasing.PurchaseNeed) error {
	if err := r.m.enter("need.save"); err != nil {
		return err
	}
	cp := *need
	for i, n := range r.m.needs {
		if n.ID == need.ID {
			r.m.needs[i] = &cp
			return nil
		}
	}
	if len(r.m.pendingNeeds(need.TenantID, need.PartCode)) > 0 {
		return shared.ErrAlreadyExists
	}
	r.m.needs = append(r.m.needs, &cp)
	return nil
}

type memAlerts struct{ m *memStore }

func (r memAlerts) FindActiveByPurchaseNeed(_ context.Context, tenantID, needID uuid.UUID) (*notification.Alert, error) {
	if err := r.m.enter("alert.find"); err != nil {
		return nil, err
	}
	for _, a := range r.m.alerts {
		if a.TenantID == tenantID && a.IsActive && a.PurchaseNeedID != nil && *a.PurchaseNeedID == needID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memAlerts) Save(_ context.Context, alert *notification.Alert) error {
	if err := r.m.enter("alert.save"); err != nil {
		return err
	}
	cp := *alert
	for i, a := range r.m.alerts {
		if a.ID == alert.ID {
			r.m.alerts[i] = &cp
			return nil
		}
	}
	r.m.alerts = append(r.m.alerts, &cp)
	return nil
}

type memReservations struct{ m *memStore }

func (r memReservations) Exists(_ context.Context, key inventory.ReservationKey) (bool, error) {
	if err := r.m.enter("reservation.exists"); err != nil {
		return false, err
	}
	for _, res := range r.m.reservations {
		if res.ReservationKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r memReservations) Create(_ context.Context, reservation *inventory.PartsReservation) error {
	if err := r.m.enter("reservation.create"); err != nil {
		return err
	}
	r.m.reservations = append(r.m.reservations, reservation)
	return nil
}

func (r memReservations) ListByBudget(_ context.Context, budgetID uuid.UUID) ([]inventory.PartsReservation, error) {
	if err := r.m.enter("reservation.list"); err != nil {
		return nil, err
	}
	var out []inventory.PartsReservation
	for _, res := range r.m.reservations {
		if res.BudgetID == budgetID {
			out = append(out, *res)
		}
	}
	return out, nil
}

type memMovements struct{ m *memStore }

func (r memMovements) Append(_ context.Context, movement *inventory.InventoryMovement) error {
	if err := r.m.enter("movement.append"); err != nil {
		return err
	}
	r.m.movements = append(r.m.movements, movement)
	return nil
}

type memReceivables struct{ m *memStore }

func (r memReceivables) Upsert(_ context.Context, receivable *finance.AccountReceivable) error {
	if err := r.m.enter("receivable.upsert"); err != nil {
		return err
	}
	key := [2]uuid.UUID{receivable.OrderID, receivable.BudgetID}
	if existing, ok := r.m.receivables[key]; ok {
		receivable.ID = existing.ID
	}
	cp := *receivable
	r.m.receivables[key] = &cp
	return nil
}

func (r memReceivables) FindByBudget(_ context.Context, orderID, budgetID uuid.UUID) (*finance.AccountReceivable, error) {
	if err := r.m.enter("receivable.find"); err != nil {
		return nil, err
	}
	ar, ok := r.m.receivables[[2]uuid.UUID{orderID, budgetID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return ar, nil
}

type memApprovals struct{ m *memStore }

func (r memApprovals) FindByBudget(_ context.Context, budgetID uuid.UUID) (*budget.BudgetApproval, error) {
	if err := r.m.enter("approval.find"); err != nil {
		return nil, err
	}
	a, ok := r.m.approvals[budgetID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memApprovals) Save(_ context.Context, approval *budget.BudgetApproval) error {
	if err := r.m.enter("approval.save"); err != nil {
		return err
	}
	cp := *approval
	r.m.approvals[approval.BudgetID] = &cp
	return nil
}

type memWorkflow struct{ m *memStore }

func (w memWorkflow) CreateFromEngineType(_ context.Context, orderID uuid.UUID) error {
	if err := w.m.enter("workflow.create"); err != nil {
		return err
	}
	w.m.workflows = append(w.m.workflows, orderID)
	return nil
}

// memTransitionScope snapshots statuses and restores them when fn fails
type memTransitionScope struct{ m *memStore }

func (s memTransitionScope) Execute(_ context.Context, fn func(repos TransitionalRepositories) error) error {
	budgetStatus := map[uuid.UUID]budget.Status{}
	for id, b := range s.m.budgets {
		budgetStatus[id] = b.Status
	}
	orderStatus := map[uuid.UUID]order.Status{}
	for id, o := range s.m.orders {
		orderStatus[id] = o.Status
	}
	if err := fn(NewNoOpTransitionScope(memBudgets{s.m}, memOrders{s.m})); err != nil {
		for id, st := range budgetStatus {
			s.m.budgets[id].Status = st
		}
		for id, st := range orderStatus {
			s.m.orders[id].Status = st
		}
		return err
	}
	return nil
}

// memLocker hands out each key once until released and counts refreshes
type memLocker struct {
	mu         sync.Mutex
	held       map[string]bool
	refreshes  []time.Duration
	refreshErr func(n int) error
}

func (l *memLocker) Lock(_ context.Context, key string, _ time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return nil, ErrLockNotObtained
	}
	l.held[key] = true
	return &memLease{l: l, key: key}, nil
}

type memLease struct {
	l   *memLocker
	key string
}

func (m *memLease) Refresh(_ context.Context, ttl time.Duration) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	m.l.refreshes = append(m.l.refreshes, ttl)
	if m.l.refreshErr != nil {
		return m.l.refreshErr(len(m.l.refreshes))
	}
	return nil
}

func (m *memLease) Release(context.Context) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	delete(m.l.held, m.key)
	return nil
}
