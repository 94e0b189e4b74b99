package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/inventory"
	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/paymentlog"
	"github.com/haimle/botshop/internal/domain/product"
)

// --- Order Repository Mock ---

// MockOrderRepository is a mock implementation of order.Repository. The
// default behavior mirrors the conditional-update semantics of the real
// repository, including the status guard on Transition.
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order

	CreateFunc         func(ctx context.Context, o *order.Order) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	ListByUserFunc     func(ctx context.Context, userID string) ([]*order.Order, error)
	ListFunc           func(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
	TransitionFunc     func(ctx context.Context, id uuid.UUID, from, to order.Status, transactionID *string) error
	SetFulfillmentFunc func(ctx context.Context, id uuid.UUID, link, code string) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[uuid.UUID]*order.Order)}
}

// AddOrder pre-populates the mock with an order.
func (m *MockOrderRepository) AddOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

// GetOrderByID returns the stored order (test helper, no context needed).
func (m *MockOrderRepository) GetOrderByID(id uuid.UUID) *order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*order.Order
	for _, o := range m.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MockOrderRepository) Transition(ctx context.Context, id uuid.UUID, from, to order.Status, transactionID *string) error {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, id, from, to, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if o.Status != from {
		return domainErrors.NewDomainError(
			"order_status_conflict",
			"order is no longer "+string(from),
			domainErrors.ErrInvalidStateTransition,
		)
	}
	o.Status = to
	if transactionID != nil {
		o.TransactionID = transactionID
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepository) SetFulfillment(ctx context.Context, id uuid.UUID, link, code string) error {
	if m.SetFulfillmentFunc != nil {
		return m.SetFulfillmentFunc(ctx, id, link, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	o.ChatbotLink = link
	o.ActivationCode = code
	o.UpdatedAt = time.Now()
	return nil
}

// --- Product Repository Mock ---

// MockProductRepository is a mock implementation of product.Repository.
type MockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product

	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	GetActiveFunc  func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	ListActiveFunc func(ctx context.Context) ([]*product.Product, error)
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[uuid.UUID]*product.Product)}
}

// AddProduct pre-populates the mock with a product.
func (m *MockProductRepository) AddProduct(p *product.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	return p, nil
}

func (m *MockProductRepository) GetActive(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, domainErrors.ErrProductNotFound
	}
	return p, nil
}

func (m *MockProductRepository) ListActive(ctx context.Context) ([]*product.Product, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*product.Product
	for _, p := range m.products {
		if p.IsActive {
			result = append(result, p)
		}
	}
	return result, nil
}

// --- Code Repository Mock ---

// MockCodeRepository is a mock implementation of inventory.Repository. Claim
// mirrors the real repository's atomic conditional update: under concurrent
// claims each code is handed out at most once.
type MockCodeRepository struct {
	mu    sync.Mutex
	codes []*inventory.ActivationCode

	ClaimFunc       func(ctx context.Context, productID, orderID uuid.UUID) (*inventory.ActivationCode, error)
	CountUnusedFunc func(ctx context.Context, productID uuid.UUID) (int, error)
	AddCodesFunc    func(ctx context.Context, productID uuid.UUID, codes []string) (int, error)
}

func NewMockCodeRepository() *MockCodeRepository {
	return &MockCodeRepository{}
}

// AddCode pre-populates the mock with an unused activation code.
func (m *MockCodeRepository) AddCode(productID uuid.UUID, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, &inventory.ActivationCode{
		ID:        uuid.New(),
		ProductID: productID,
		Code:      code,
		CreatedAt: time.Now(),
	})
}

func (m *MockCodeRepository) Claim(ctx context.Context, productID, orderID uuid.UUID) (*inventory.ActivationCode, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, productID, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.ProductID == productID && !c.IsUsed {
			c.IsUsed = true
			id := orderID
			c.UsedByOrderID = &id
			cp := *c
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrOutOfStock
}

func (m *MockCodeRepository) CountUnused(ctx context.Context, productID uuid.UUID) (int, error) {
	if m.CountUnusedFunc != nil {
		return m.CountUnusedFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.codes {
		if c.ProductID == productID && !c.IsUsed {
			n++
		}
	}
	return n, nil
}

func (m *MockCodeRepository) AddCodes(ctx context.Context, productID uuid.UUID, codes []string) (int, error) {
	if m.AddCodesFunc != nil {
		return m.AddCodesFunc(ctx, productID, codes)
	}
	for _, code := range codes {
		m.AddCode(productID, code)
	}
	return len(codes), nil
}

// --- Payment Log Repository Mock ---

// MockPaymentLogRepository is a mock implementation of paymentlog.Repository.
// Insert enforces the unique transaction-id constraint of the real table.
type MockPaymentLogRepository struct {
	mu      sync.Mutex
	entries map[string]*paymentlog.Entry

	InsertFunc             func(ctx context.Context, e *paymentlog.Entry) error
	GetByTransactionIDFunc func(ctx context.Context, transactionID string) (*paymentlog.Entry, error)
	ListByOrderFunc        func(ctx context.Context, orderID uuid.UUID) ([]*paymentlog.Entry, error)
}

func NewMockPaymentLogRepository() *MockPaymentLogRepository {
	return &MockPaymentLogRepository{entries: make(map[string]*paymentlog.Entry)}
}

func (m *MockPaymentLogRepository) Insert(ctx context.Context, e *paymentlog.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[e.TransactionID]; exists {
		return domainErrors.ErrDuplicateTransaction
	}
	m.entries[e.TransactionID] = e
	return nil
}

func (m *MockPaymentLogRepository) GetByTransactionID(ctx context.Context, transactionID string) (*paymentlog.Entry, error) {
	if m.GetByTransactionIDFunc != nil {
		return m.GetByTransactionIDFunc(ctx, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[transactionID]
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (m *MockPaymentLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*paymentlog.Entry, error) {
	if m.ListByOrderFunc != nil {
		return m.ListByOrderFunc(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*paymentlog.Entry
	for _, e := range m.entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

// EntryCount returns the number of stored entries (test helper).
func (m *MockPaymentLogRepository) EntryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// EntryByTransactionID returns the stored entry (test helper, no context).
func (m *MockPaymentLogRepository) EntryByTransactionID(transactionID string) *paymentlog.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[transactionID]
}

// --- Transaction Manager Mock ---

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}
