package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/models"
)

const tracerName = "github.com/storefront/inventory-api/app/inventory"

// Storage is the persistence collaborator. Every service operation runs
// inside exactly one Transaction.
type Storage interface {
	Transaction(ctx context.Context, fn models.TxFunc) error
}

// Service owns the inventory rules for categories and products.
type Service struct {
	store  Storage
	logger *zap.Logger
	tracer trace.Tracer
}

func NewService(store Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger.Named("inventory"),
		tracer: otel.Tracer(tracerName),
	}
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
}

// finish ends the span. Domain errors are expected outcomes and only tagged;
// anything else is a storage failure and is logged.
func (s *Service) finish(span trace.Span, op string, err error) {
	defer span.End()
	if err == nil {
		return
	}

	var de *Error
	if errors.As(err, &de) {
		span.SetAttributes(attribute.String("inventory.error_kind", string(de.Kind)))
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
}

func loadCategory(ctx context.Context, repo models.Repository, op string, id uint) (*models.Category, error) {
	category, err := repo.GetCategory(ctx, id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		return nil, notFound(op, ErrCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load category %d: %w", op, id, err)
	}
	return category, nil
}

// lockProduct reads a product for the rest of the transaction.
func lockProduct(ctx context.Context, repo models.Repository, op string, id uint) (*models.Product, error) {
	product, err := repo.GetProductForUpdate(ctx, id)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil, notFound(op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load product %d: %w", op, id, err)
	}
	return product, nil
}

// reloadProduct returns the stored product with its category attached.
func reloadProduct(ctx context.Context, repo models.Repository, op string, id uint) (*models.Product, error) {
	product, err := repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: reload product %d: %w", op, id, err)
	}
	return product, nil
}
