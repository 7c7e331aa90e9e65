package domain

import (
	"time"

	"gorm.io/gorm"
)

// Menu is a sellable catalog item. HargaBakul is the derived ingredient
// cost maintained by the recipe cost engine, not entered by hand.
type Menu struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null;index"`
	CategoryID *uint          `json:"category_id" gorm:"index"`
	Category   *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price      float64        `json:"price" gorm:"not null"`
	HargaBakul float64        `json:"harga_bakul" gorm:"not null;default:0"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Ingredients []MenuIngredient `json:"ingredients,omitempty" gorm:"foreignKey:MenuID"`
	Modifiers   []Modifier       `json:"modifiers,omitempty" gorm:"many2many:menu_modifiers"`
	Discounts   []Discount       `json:"discounts,omitempty" gorm:"many2many:menu_discounts"`
}

func (Menu) TableName() string { return "menus" }

// MenuIngredient is one composition line: the amount of an ingredient
// consumed per unit of menu item sold.
type MenuIngredient struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	MenuID       uint    `json:"menu_id" gorm:"not null;index"`
	IngredientID uint    `json:"ingredient_id" gorm:"not null;index"`
	Amount       float64 `json:"amount" gorm:"not null"`
}

func (MenuIngredient) TableName() string { return "menu_ingredients" }

// Category groups menus and ingredients.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string { return "categories" }

// Modifier is an optional menu add-on with its own price.
type Modifier struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Price     float64        `json:"price" gorm:"not null;default:0"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Modifier) TableName() string { return "modifiers" }

// Discount types
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountNormal     = "NORMAL"
)

// Discount is a price reduction applied to menus or whole orders.
type Discount struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Type      string         `json:"type" gorm:"type:varchar(20);not null;default:'PERCENTAGE'"`
	Scale     float64        `json:"scale" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Discount) TableName() string { return "discounts" }

// Tax is a percentage applied on top of an order subtotal.
type Tax struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Value     float64        `json:"value" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Tax) TableName() string { return "taxes" }

// Gratuity is a service charge percentage.
type Gratuity struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Value     float64        `json:"value" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Gratuity) TableName() string { return "gratuities" }

// MenuRepository is the persistence contract for the catalog.
type MenuRepository interface {
	Create(menu *Menu) error
	FindByID(id uint) (*Menu, error)
	FindAll(limit, offset int) ([]Menu, error)
	FindActive() ([]Menu, error)
	Update(menu *Menu) error
	UpdateCost(menuID uint, cost float64) error
	Deactivate(id uint) error

	Composition(menuID uint) ([]MenuIngredient, error)
	ReplaceComposition(menuID uint, lines []MenuIngredient) error
}

// ReferenceRepository covers the simple reference entities around the menu.
type ReferenceRepository interface {
	CreateCategory(category *Category) error
	FindCategories() ([]Category, error)
	CreateModifier(modifier *Modifier) error
	FindModifiers() ([]Modifier, error)
	CreateDiscount(discount *Discount) error
	FindDiscounts() ([]Discount, error)
	CreateTax(tax *Tax) error
	FindTaxes() ([]Tax, error)
	CreateGratuity(gratuity *Gratuity) error
	FindGratuities() ([]Gratuity, error)
	DeactivateReference(model interface{}, id uint) error
}
