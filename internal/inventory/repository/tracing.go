package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormLedgerRepositoryWithTracing wraps GormLedgerRepository with tracing
// spans on the hot ledger paths.
type GormLedgerRepositoryWithTracing struct {
	*GormLedgerRepository
}

// NewGormLedgerRepositoryWithTracing creates a ledger repository with tracing.
func NewGormLedgerRepositoryWithTracing(db *gorm.DB) *GormLedgerRepositoryWithTracing {
	return &GormLedgerRepositoryWithTracing{
		GormLedgerRepository: NewGormLedgerRepository(db),
	}
}

// FindIngredientWithContext traces an ingredient lookup.
func (r *GormLedgerRepositoryWithTracing) FindIngredientWithContext(ctx context.Context, id uint) (*domain.Ingredient, error) {
	_, span := tracer.Start(ctx, "repository.FindIngredient",
		trace.WithAttributes(attribute.Int("ingredient.id", int(id))),
	)
	defer span.End()

	ingredient, err := r.GormLedgerRepository.FindIngredient(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Float64("ingredient.stock", ingredient.Stock))
	return ingredient, nil
}

// SaveIngredientWithContext traces a ledger write.
func (r *GormLedgerRepositoryWithTracing) SaveIngredientWithContext(ctx context.Context, ingredient *domain.Ingredient) error {
	_, span := tracer.Start(ctx, "repository.SaveIngredient",
		trace.WithAttributes(
			attribute.Int("ingredient.id", int(ingredient.ID)),
			attribute.Float64("ingredient.stock", ingredient.Stock),
		),
	)
	defer span.End()

	if err := r.GormLedgerRepository.SaveIngredient(ingredient); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// ArchiveIngredientWithContext traces one entity's rollover transaction.
func (r *GormLedgerRepositoryWithTracing) ArchiveIngredientWithContext(ctx context.Context, ingredient *domain.Ingredient, asOf time.Time) error {
	_, span := tracer.Start(ctx, "repository.ArchiveIngredient",
		trace.WithAttributes(
			attribute.Int("ingredient.id", int(ingredient.ID)),
			attribute.String("rollover.as_of", asOf.Format("2006-01-02")),
		),
	)
	defer span.End()

	if err := r.GormLedgerRepository.ArchiveIngredient(ingredient, asOf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
