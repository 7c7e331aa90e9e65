package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Ingredient{},
		&domain.IngredientPrice{},
		&domain.IngredientComposition{},
		&domain.Gudang{},
		&domain.DailyIngredientStock{},
		&domain.DailyGudangStock{},
		&domain.Supplier{},
	)
}

func (r *GormLedgerRepository) CreateIngredient(ingredient *domain.Ingredient) error {
	return r.db.Create(ingredient).Error
}

func (r *GormLedgerRepository) FindIngredient(id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := r.db.Preload("Prices").Preload("Composition").First(&ingredient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient %d not found", id)
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *GormLedgerRepository) FindActiveIngredients() ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	err := r.db.Where("is_active = ?", true).Order("id").Find(&ingredients).Error
	return ingredients, err
}

func (r *GormLedgerRepository) SaveIngredient(ingredient *domain.Ingredient) error {
	return r.db.Save(ingredient).Error
}

func (r *GormLedgerRepository) DeactivateIngredient(id uint) error {
	result := r.db.Model(&domain.Ingredient{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("ingredient %d not found", id)
	}
	return nil
}

func (r *GormLedgerRepository) CreateGudang(gudang *domain.Gudang) error {
	return r.db.Create(gudang).Error
}

func (r *GormLedgerRepository) FindGudang(id uint) (*domain.Gudang, error) {
	var gudang domain.Gudang
	err := r.db.First(&gudang, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("gudang entry %d not found", id)
		}
		return nil, err
	}
	return &gudang, nil
}

func (r *GormLedgerRepository) FindActiveGudang() ([]domain.Gudang, error) {
	var entries []domain.Gudang
	err := r.db.Where("is_active = ?", true).Order("id").Find(&entries).Error
	return entries, err
}

func (r *GormLedgerRepository) SaveGudang(gudang *domain.Gudang) error {
	return r.db.Save(gudang).Error
}

// ArchiveIngredient writes the history snapshot and resets the live
// counters in one transaction, so a single entity is never half-rolled.
// The per-entity loop above it stays best-effort.
func (r *GormLedgerRepository) ArchiveIngredient(ingredient *domain.Ingredient, asOf time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		snapshot := domain.DailyIngredientStock{
			IngredientID: ingredient.ID,
			Date:         asOf,
			Start:        ingredient.Start,
			StockIn:      ingredient.StockIn,
			Used:         ingredient.Used,
			Wasted:       ingredient.Wasted,
			Stock:        ingredient.Stock,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		ingredient.Reset()
		return tx.Save(ingredient).Error
	})
}

func (r *GormLedgerRepository) ArchiveGudang(gudang *domain.Gudang, asOf time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		snapshot := domain.DailyGudangStock{
			GudangID: gudang.ID,
			Date:     asOf,
			Start:    gudang.Start,
			StockIn:  gudang.StockIn,
			Used:     gudang.Used,
			Wasted:   gudang.Wasted,
			Stock:    gudang.Stock,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		gudang.Reset()
		return tx.Save(gudang).Error
	})
}

func (r *GormLedgerRepository) IngredientHistory(start, end time.Time) ([]domain.DailyIngredientStock, error) {
	var rows []domain.DailyIngredientStock
	err := r.db.Where("date BETWEEN ? AND ?", start, end).
		Order("ingredient_id, date").
		Find(&rows).Error
	return rows, err
}

func (r *GormLedgerRepository) GudangHistory(start, end time.Time) ([]domain.DailyGudangStock, error) {
	var rows []domain.DailyGudangStock
	err := r.db.Where("date BETWEEN ? AND ?", start, end).
		Order("gudang_id, date").
		Find(&rows).Error
	return rows, err
}

func (r *GormLedgerRepository) CountIngredientsBelowMin() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Ingredient{}).
		Where("is_active = ? AND stock < stock_min", true).
		Count(&count).Error
	return count, err
}

// GormSupplierRepository handles supplier reference records.
type GormSupplierRepository struct {
	db *gorm.DB
}

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) Create(supplier *domain.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *GormSupplierRepository) FindByID(id uint) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.First(&supplier, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier %d not found", id)
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *GormSupplierRepository) FindAll(limit, offset int) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := r.db.Limit(limit).Offset(offset).Find(&suppliers).Error
	return suppliers, err
}

func (r *GormSupplierRepository) Update(supplier *domain.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *GormSupplierRepository) Deactivate(id uint) error {
	result := r.db.Model(&domain.Supplier{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("supplier %d not found", id)
	}
	return nil
}
