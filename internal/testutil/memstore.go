package testutil

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopapi/shopapi/internal/model"
	"github.com/shopapi/shopapi/internal/repository"
)

type pairKey struct {
	orderID   int64
	productID int64
}

type memState struct {
	users    map[int64]model.User
	products map[int64]model.Product
	orders   map[int64]model.Order
	lines    map[pairKey]struct{}
	nextID   map[string]int64
}

func (s memState) clone() memState {
	c := memState{
		users:    make(map[int64]model.User, len(s.users)),
		products: make(map[int64]model.Product, len(s.products)),
		orders:   make(map[int64]model.Order, len(s.orders)),
		lines:    make(map[pairKey]struct{}, len(s.lines)),
		nextID:   make(map[string]int64, len(s.nextID)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k := range s.lines {
		c.lines[k] = struct{}{}
	}
	for k, v := range s.nextID {
		c.nextID[k] = v
	}
	return c
}

// memCore is the state shared by a MemoryStore and its transaction views.
// txMu admits one writer at a time; mu guards st and err.
type memCore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   memState
	err  error
}

// MemoryStore is an in-process repository.Store with the same integrity
// rules as the PostgreSQL schema: unique email, foreign keys checked on
// write, RESTRICT on users and products, CASCADE from orders to lines.
// Writes outside InTx wait for any open transaction, so a rollback never
// discards them.
type MemoryStore struct {
	*memCore
	inTx bool
}

var _ repository.Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memCore: &memCore{st: memState{}.clone()}}
}

// SetError makes every subsequent call fail with err until cleared with nil.
func (s *MemoryStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// OrderProductCount returns the number of stored order lines.
func (s *MemoryStore) OrderProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.lines)
}

// UserCount returns the number of stored users.
func (s *MemoryStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.users)
}

func (s *MemoryStore) next(table string) int64 {
	s.st.nextID[table]++
	return s.st.nextID[table]
}

func (s *MemoryStore) lock() (func(), error) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

// lockWrite is lock for mutators. Outside a transaction it also holds txMu.
func (s *MemoryStore) lockWrite() (func(), error) {
	if s.inTx {
		return s.lock()
	}
	s.txMu.Lock()
	unlock, err := s.lock()
	if err != nil {
		s.txMu.Unlock()
		return nil, err
	}
	return func() {
		unlock()
		s.txMu.Unlock()
	}, nil
}

// InTx serializes fn against other writers and restores the previous state
// when fn fails. A nested call joins the outer transaction.
func (s *MemoryStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	tx := &MemoryStore{memCore: s.memCore, inTx: true}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping reports the injected error, if any.
func (s *MemoryStore) Ping(ctx context.Context) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (s *MemoryStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.st.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if s.emailTaken(user.Email, 0) {
		return repository.ErrEmailExists
	}
	user.ID = s.next("users")
	s.st.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := s.st.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	users := make([]model.User, 0, len(s.st.users))
	for _, u := range s.st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *model.User) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return repository.ErrEmailExists
	}
	s.st.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for _, o := range s.st.orders {
		if o.UserID == id {
			return repository.ErrUserHasOrders
		}
	}
	delete(s.st.users, id)
	return nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, product *model.Product) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	product.Price = roundCents(product.Price)
	product.ID = s.next("products")
	s.st.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.st.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	products := make([]model.Product, 0, len(s.st.products))
	for _, p := range s.st.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	product.Price = roundCents(product.Price)
	s.st.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	for k := range s.st.lines {
		if k.productID == id {
			return repository.ErrProductInOrders
		}
	}
	delete(s.st.products, id)
	return nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *model.Order) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.users[order.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	order.OrderDate = order.OrderDate.UTC().Truncate(time.Microsecond)
	order.ID = s.next("orders")
	s.st.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	o, ok := s.st.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.listOrders(func(model.Order) bool { return true })
}

func (s *MemoryStore) ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.listOrders(func(o model.Order) bool { return o.UserID == userID })
}

func (s *MemoryStore) listOrders(keep func(model.Order) bool) ([]model.Order, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	orders := []model.Order{}
	for _, o := range s.st.orders {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id int64) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	for k := range s.st.lines {
		if k.orderID == id {
			delete(s.st.lines, k)
		}
	}
	delete(s.st.orders, id)
	return nil
}

func (s *MemoryStore) CreateOrderProduct(ctx context.Context, op *model.OrderProduct) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.st.orders[op.OrderID]; !ok {
		return repository.ErrOrderNotFound
	}
	if _, ok := s.st.products[op.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	key := pairKey{op.OrderID, op.ProductID}
	if _, ok := s.st.lines[key]; ok {
		return repository.ErrOrderProductExists
	}
	s.st.lines[key] = struct{}{}
	return nil
}

func (s *MemoryStore) ListOrderProducts(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	lines := []model.OrderProduct{}
	for k := range s.st.lines {
		if k.orderID == orderID {
			lines = append(lines, model.OrderProduct{OrderID: k.orderID, ProductID: k.productID})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (s *MemoryStore) DeleteOrderProduct(ctx context.Context, orderID, productID int64) error {
	unlock, err := s.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	key := pairKey{orderID, productID}
	if _, ok := s.st.lines[key]; !ok {
		return repository.ErrOrderProductNotFound
	}
	delete(s.st.lines, key)
	return nil
}

// roundCents mirrors NUMERIC(12, 2) storage.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
