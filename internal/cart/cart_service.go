package cart

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=cart_service.go -destination=../mock/cart/cart_service_mock.go -package=mock
type Service interface {
	Detail(ctx context.Context, cartID string) (CartResponse, error)
	Quantity(ctx context.Context, cartID string, productID ProductID) (QuantityResponse, error)
	Billing(ctx context.Context, cartID string) (BillingResponse, error)

	AddItem(ctx context.Context, cartID string, req AddItemRequest) (CartResponse, error)
	Increment(ctx context.Context, cartID string, productID ProductID) (CartResponse, error)
	Decrement(ctx context.Context, cartID string, productID ProductID) (CartResponse, error)
	DeleteItem(ctx context.Context, cartID string, productID ProductID) (CartResponse, error)
	Clear(ctx context.Context, cartID string) (CartResponse, error)

	// Close stops the background work attached to every cart.
	Close()
}

type Deps struct {
	Catalog   ProductLookup
	Publisher EventPublisher

	// BillingDebounce enables a per-cart BillingWatcher that publishes
	// BILLING_UPDATED once a cart goes quiet. Zero disables it.
	BillingDebounce time.Duration

	// IdleTTL evicts carts nobody touched for that long. Zero keeps them.
	IdleTTL time.Duration

	Logger *zap.Logger
	Now    func() time.Time
}

type service struct {
	registry  *Registry
	catalog   ProductLookup
	publisher EventPublisher
	validate  *validator.Validate
	debounce  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(deps Deps) Service {
	if deps.Catalog == nil {
		panic("cart: product lookup cannot be nil")
	}
	s := &service{
		catalog:   deps.Catalog,
		publisher: deps.Publisher,
		validate:  validator.New(),
		debounce:  deps.BillingDebounce,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if s.publisher == nil {
		s.publisher = nopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.L().Named("cart.service")
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.registry = NewRegistry(deps.IdleTTL, s.attach)
	s.registry.now = s.now
	return s
}

func (s *service) parseCartID(cartID string) error {
	if _, err := uuid.Parse(cartID); err != nil {
		return ErrInvalidCartID
	}
	return nil
}

// attach runs once per new cart.
func (s *service) attach(cartID string, store *Store) func() {
	if s.debounce <= 0 {
		return nil
	}
	w := NewBillingWatcher(store, s.debounce, func(b Billing) {
		evt := newEvent(cartID, EventBillingUpdated, "", b, s.now())
		s.publish(context.Background(), evt)
	})
	return w.Close
}

func (s *service) publish(ctx context.Context, evt Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish cart event",
			zap.String("cart_id", evt.CartID),
			zap.String("event_type", evt.Type),
			zap.Error(err),
		)
	}
}

func (s *service) dispatch(ctx context.Context, cartID string, cmd Command) (CartResponse, error) {
	if err := s.parseCartID(cartID); err != nil {
		return CartResponse{}, err
	}

	log := s.logger.With(
		zap.String("cart_id", cartID),
		zap.String("command", string(cmd.Type())),
		zap.String("product_id", TargetID(cmd).String()),
	)

	// only an add can turn an unknown cart into a non-empty one
	var store *Store
	if _, ok := cmd.(AddToCart); ok {
		store = s.registry.GetOrCreate(cartID)
	} else if existing, ok := s.registry.Get(cartID); ok {
		store = existing
	} else {
		log.Debug("cart command on unknown cart ignored")
		return toCartResponse(cartID, Empty()), nil
	}

	next, changed := store.Dispatch(cmd)
	if !changed {
		log.Debug("cart command left the cart unchanged")
		return toCartResponse(cartID, next), nil
	}

	b := next.Billing()
	log.Debug("cart updated", zap.Int("items", b.ItemCount), zap.Int("units", b.Units))
	s.publish(ctx, newEvent(cartID, string(cmd.Type()), TargetID(cmd), b, s.now()))

	return toCartResponse(cartID, next), nil
}

func (s *service) snapshot(cartID string) (State, error) {
	if err := s.parseCartID(cartID); err != nil {
		return State{}, err
	}
	store, ok := s.registry.Get(cartID)
	if !ok {
		return Empty(), nil
	}
	return store.Snapshot(), nil
}

func (s *service) Detail(ctx context.Context, cartID string) (CartResponse, error) {
	st, err := s.snapshot(cartID)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(cartID, st), nil
}

func (s *service) Quantity(ctx context.Context, cartID string, productID ProductID) (QuantityResponse, error) {
	st, err := s.snapshot(cartID)
	if err != nil {
		return QuantityResponse{}, err
	}
	return QuantityResponse{ProductID: productID, Quantity: st.Quantity(productID)}, nil
}

func (s *service) Billing(ctx context.Context, cartID string) (BillingResponse, error) {
	st, err := s.snapshot(cartID)
	if err != nil {
		return BillingResponse{}, err
	}
	return BillingResponse{CartID: cartID, Billing: st.Billing()}, nil
}

func (s *service) AddItem(ctx context.Context, cartID string, req AddItemRequest) (CartResponse, error) {
	if err := s.parseCartID(cartID); err != nil {
		return CartResponse{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return CartResponse{}, MapValidationError(err)
	}

	var product Product
	if req.Price == nil {
		p, err := s.catalog.Lookup(ctx, req.ID)
		if err != nil {
			s.logger.Warn("product lookup failed",
				zap.String("cart_id", cartID),
				zap.String("product_id", req.ID.String()),
				zap.Error(err),
			)
			return CartResponse{}, err
		}
		product = p
	} else {
		if req.Price.IsNegative() {
			return CartResponse{}, ErrNegativePrice
		}
		product = Product{
			ID:         req.ID,
			Name:       req.Name,
			Price:      *req.Price,
			Image:      req.Image,
			Attributes: req.Attributes,
		}
	}
	if product.Image == nil {
		product.Image = []string{}
	}

	return s.dispatch(ctx, cartID, AddToCart{Product: product})
}

func (s *service) Increment(ctx context.Context, cartID string, productID ProductID) (CartResponse, error) {
	return s.dispatch(ctx, cartID, IncrementQuantity{ID: productID})
}

func (s *service) Decrement(ctx context.Context, cartID string, productID ProductID) (CartResponse, error) {
	return s.dispatch(ctx, cartID, DecrementQuantity{ID: productID})
}

func (s *service) DeleteItem(ctx context.Context, cartID string, productID ProductID) (CartResponse, error) {
	return s.dispatch(ctx, cartID, RemoveFromCart{ID: productID})
}

func (s *service) Clear(ctx context.Context, cartID string) (CartResponse, error) {
	return s.dispatch(ctx, cartID, ClearCart{})
}

func (s *service) Close() {
	s.registry.Close()
}
