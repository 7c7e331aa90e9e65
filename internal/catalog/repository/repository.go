package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	invdomain "github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

type GormMenuRepository struct {
	db *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

func (r *GormMenuRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Category{},
		&domain.Menu{},
		&domain.MenuIngredient{},
		&domain.Modifier{},
		&domain.Discount{},
		&domain.Tax{},
		&domain.Gratuity{},
	)
}

func (r *GormMenuRepository) Create(menu *domain.Menu) error {
	return r.db.Create(menu).Error
}

func (r *GormMenuRepository) FindByID(id uint) (*domain.Menu, error) {
	var menu domain.Menu
	err := r.db.Preload("Category").Preload("Ingredients").First(&menu, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("menu %d not found", id)
		}
		return nil, err
	}
	return &menu, nil
}

func (r *GormMenuRepository) FindAll(limit, offset int) ([]domain.Menu, error) {
	var menus []domain.Menu
	err := r.db.Preload("Category").Limit(limit).Offset(offset).Find(&menus).Error
	return menus, err
}

func (r *GormMenuRepository) FindActive() ([]domain.Menu, error) {
	var menus []domain.Menu
	err := r.db.Where("is_active = ?", true).Order("id").Find(&menus).Error
	return menus, err
}

func (r *GormMenuRepository) Update(menu *domain.Menu) error {
	return r.db.Save(menu).Error
}

func (r *GormMenuRepository) UpdateCost(menuID uint, cost float64) error {
	return r.db.Model(&domain.Menu{}).
		Where("id = ?", menuID).
		Update("harga_bakul", cost).Error
}

func (r *GormMenuRepository) Deactivate(id uint) error {
	result := r.db.Model(&domain.Menu{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("menu %d not found", id)
	}
	return nil
}

func (r *GormMenuRepository) Composition(menuID uint) ([]domain.MenuIngredient, error) {
	var lines []domain.MenuIngredient
	err := r.db.Where("menu_id = ?", menuID).Find(&lines).Error
	return lines, err
}

func (r *GormMenuRepository) ReplaceComposition(menuID uint, lines []domain.MenuIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menuID).Delete(&domain.MenuIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].MenuID = menuID
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// GormIngredientSource adapts the inventory tables to the cost engine.
type GormIngredientSource struct {
	db *gorm.DB
}

func NewGormIngredientSource(db *gorm.DB) *GormIngredientSource {
	return &GormIngredientSource{db: db}
}

func (s *GormIngredientSource) Ingredient(id uint) (*invdomain.Ingredient, error) {
	var ingredient invdomain.Ingredient
	err := s.db.First(&ingredient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient %d not found", id)
		}
		return nil, err
	}
	return &ingredient, nil
}

func (s *GormIngredientSource) ActivePrice(ingredientID uint) (*invdomain.IngredientPrice, error) {
	var price invdomain.IngredientPrice
	err := s.db.Where("ingredient_id = ? AND is_active = ?", ingredientID, true).
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (s *GormIngredientSource) SemiComposition(ingredientID uint) ([]invdomain.IngredientComposition, error) {
	var lines []invdomain.IngredientComposition
	err := s.db.Where("semi_ingredient_id = ?", ingredientID).Find(&lines).Error
	return lines, err
}

// GormReferenceRepository handles the reference entities around the menu.
type GormReferenceRepository struct {
	db *gorm.DB
}

func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) CreateCategory(category *domain.Category) error {
	return r.db.Create(category).Error
}

func (r *GormReferenceRepository) FindCategories() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Where("is_active = ?", true).Find(&categories).Error
	return categories, err
}

func (r *GormReferenceRepository) CreateModifier(modifier *domain.Modifier) error {
	return r.db.Create(modifier).Error
}

func (r *GormReferenceRepository) FindModifiers() ([]domain.Modifier, error) {
	var modifiers []domain.Modifier
	err := r.db.Where("is_active = ?", true).Find(&modifiers).Error
	return modifiers, err
}

func (r *GormReferenceRepository) CreateDiscount(discount *domain.Discount) error {
	return r.db.Create(discount).Error
}

func (r *GormReferenceRepository) FindDiscounts() ([]domain.Discount, error) {
	var discounts []domain.Discount
	err := r.db.Where("is_active = ?", true).Find(&discounts).Error
	return discounts, err
}

func (r *GormReferenceRepository) CreateTax(tax *domain.Tax) error {
	return r.db.Create(tax).Error
}

func (r *GormReferenceRepository) FindTaxes() ([]domain.Tax, error) {
	var taxes []domain.Tax
	err := r.db.Where("is_active = ?", true).Find(&taxes).Error
	return taxes, err
}

func (r *GormReferenceRepository) CreateGratuity(gratuity *domain.Gratuity) error {
	return r.db.Create(gratuity).Error
}

func (r *GormReferenceRepository) FindGratuities() ([]domain.Gratuity, error) {
	var gratuities []domain.Gratuity
	err := r.db.Where("is_active = ?", true).Find(&gratuities).Error
	return gratuities, err
}

func (r *GormReferenceRepository) DeactivateReference(model interface{}, id uint) error {
	result := r.db.Model(model).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("record %d not found", id)
	}
	return nil
}
