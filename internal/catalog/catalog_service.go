package catalog

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_service.go -destination=../mock/catalog/catalog_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, keyword string) ([]Product, error)
	Detail(ctx context.Context, id string) (ProductDetail, error)
}

type Deps struct {
	Client         Client
	Cache          Cache
	ImageBaseURL   string
	DefaultKeyword string
	Logger         *zap.Logger
}

type service struct {
	client         Client
	cache          Cache
	imageBase      string
	defaultKeyword string
	logger         *zap.Logger
	tracer         trace.Tracer
}

func NewService(deps Deps) Service {
	if deps.Client == nil {
		panic("catalog: client cannot be nil")
	}
	s := &service{
		client:         deps.Client,
		cache:          deps.Cache,
		imageBase:      deps.ImageBaseURL,
		defaultKeyword: deps.DefaultKeyword,
		logger:         deps.Logger,
		tracer:         otel.Tracer("go-storefront/internal/catalog"),
	}
	if s.cache == nil {
		s.cache = NopCache{}
	}
	if s.logger == nil {
		s.logger = zap.L().Named("catalog.service")
	}
	return s
}

func (s *service) List(ctx context.Context, keyword string) ([]Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = s.defaultKeyword
	}

	ctx, span := s.tracer.Start(ctx, "catalog.List",
		trace.WithAttributes(attribute.String("catalog.keyword", keyword)))
	defer span.End()

	key := "list:" + strings.ToLower(keyword)
	var cached []Product
	if s.readCache(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("catalog.cache_hit", true))
		return cached, nil
	}

	raws, err := s.client.Search(ctx, keyword)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		s.logger.Error("catalog search failed", zap.String("keyword", keyword), zap.Error(err))
		return nil, err
	}

	products := make([]Product, 0, len(raws))
	for i, raw := range raws {
		p, _, ok := toProduct(raw, listPriceKeys, s.imageBase)
		if !ok {
			s.logger.Warn("skipping catalog product without id", zap.Int("index", i))
			continue
		}
		products = append(products, p)
	}
	span.SetAttributes(attribute.Int("catalog.results", len(products)))

	s.writeCache(ctx, key, products)
	return products, nil
}

func (s *service) Detail(ctx context.Context, id string) (ProductDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ProductDetail{}, ErrInvalidProductID
	}

	ctx, span := s.tracer.Start(ctx, "catalog.Detail",
		trace.WithAttributes(attribute.String("catalog.product_id", id)))
	defer span.End()

	key := "product:" + id
	var cached ProductDetail
	if s.readCache(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("catalog.cache_hit", true))
		return cached, nil
	}

	raw, err := s.client.Product(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product lookup failed")
		s.logger.Warn("catalog product lookup failed", zap.String("product_id", id), zap.Error(err))
		return ProductDetail{}, err
	}

	detail, ok := toDetail(raw, s.imageBase)
	if !ok {
		// upstream answered without an id; fall back to the one we asked for
		raw["id"] = id
		detail, _ = toDetail(raw, s.imageBase)
	}

	s.writeCache(ctx, key, detail)
	return detail, nil
}

func (s *service) readCache(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *service) writeCache(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
