package repository

import (
	"errors"

	"gorm.io/gorm"

	catalogdomain "github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/order/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// GormMenuCatalog resolves menu details from the catalog tables for
// order placement.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a new gorm-backed menu catalog.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// MenuDetails returns the name, category name and price of an active menu.
func (c *GormMenuCatalog) MenuDetails(menuID uint) (*command.MenuDetails, error) {
	var menu catalogdomain.Menu
	if err := c.db.Preload("Category").First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("menu not found")
		}
		return nil, apperr.Persistence("find menu", err)
	}
	if !menu.IsActive {
		return nil, apperr.Validation("menu is not available")
	}

	details := &command.MenuDetails{
		Name:  menu.Name,
		Price: menu.Price,
	}
	if menu.Category != nil {
		details.CategoryName = menu.Category.Name
	}
	return details, nil
}
