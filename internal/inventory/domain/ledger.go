package domain

import (
	"time"

	"gorm.io/gorm"
)

// LedgerKind selects one of the two parallel stock ledgers.
type LedgerKind string

const (
	LedgerIngredient LedgerKind = "ingredient"
	LedgerGudang     LedgerKind = "gudang"
)

// IngredientType distinguishes raw materials from semi-finished goods that
// decompose into raw ingredients through a composition graph.
type IngredientType string

const (
	IngredientRaw          IngredientType = "RAW"
	IngredientSemiFinished IngredientType = "SEMI_FINISHED"
)

// Counters is the running counter set shared by both ledgers.
// Invariant: Stock == Start + StockIn - Used - Wasted, maintained on every
// mutating write and never recomputed lazily by readers.
type Counters struct {
	Start   float64 `json:"start" gorm:"not null;default:0"`
	StockIn float64 `json:"stock_in" gorm:"not null;default:0"`
	Used    float64 `json:"used" gorm:"not null;default:0"`
	Wasted  float64 `json:"wasted" gorm:"not null;default:0"`
	Stock   float64 `json:"stock" gorm:"not null;default:0"`
}

// Recompute restores the ledger invariant after counter mutation.
func (c *Counters) Recompute() {
	c.Stock = c.Start + c.StockIn - c.Used - c.Wasted
}

// Reset archives the period: the ending stock becomes the next period's
// opening stock and all movement counters return to zero.
func (c *Counters) Reset() {
	c.Start = c.Stock
	c.StockIn = 0
	c.Used = 0
	c.Wasted = 0
	c.Recompute()
}

// Ingredient is the café-level stock ledger entry.
type Ingredient struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null;index"`
	Unit       string         `json:"unit" gorm:"not null;default:'gram'"`
	Type       IngredientType `json:"type" gorm:"type:varchar(20);not null;default:'RAW'"`
	Counters   `json:"counters" gorm:"embedded"`
	StockMin   float64        `json:"stock_min" gorm:"not null;default:0"`
	CategoryID *uint          `json:"category_id" gorm:"index"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Prices      []IngredientPrice       `json:"prices,omitempty" gorm:"foreignKey:IngredientID"`
	Composition []IngredientComposition `json:"composition,omitempty" gorm:"foreignKey:SemiIngredientID"`
}

func (Ingredient) TableName() string { return "ingredients" }

// IngredientPrice is one price record for an ingredient. At most one per
// ingredient is flagged active; the active record is authoritative. Unit
// encodes the priced quantity of base units, e.g. "100" means the price
// covers 100 base units.
type IngredientPrice struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	IngredientID uint      `json:"ingredient_id" gorm:"not null;index"`
	Price        float64   `json:"price" gorm:"not null"`
	Unit         string    `json:"unit" gorm:"not null;default:'1'"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (IngredientPrice) TableName() string { return "ingredient_prices" }

// IngredientComposition is one line of a semi-finished ingredient's recipe:
// the amount of a raw (or nested semi-finished) ingredient consumed per
// unit produced. The schema does not prevent cycles; readers must guard.
type IngredientComposition struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	SemiIngredientID uint    `json:"semi_ingredient_id" gorm:"not null;index"`
	RawIngredientID  uint    `json:"raw_ingredient_id" gorm:"not null;index"`
	Amount           float64 `json:"amount" gorm:"not null"`
}

func (IngredientComposition) TableName() string { return "ingredient_compositions" }

// Gudang is the warehouse-level ledger, a parallel counter set per
// ingredient with its own baseline.
type Gudang struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	IngredientID uint           `json:"ingredient_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"not null"`
	Unit         string         `json:"unit" gorm:"not null;default:'gram'"`
	Counters     `json:"counters" gorm:"embedded"`
	StockMin     float64        `json:"stock_min" gorm:"not null;default:0"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Gudang) TableName() string { return "gudangs" }

// DailyIngredientStock is an immutable snapshot of one ingredient ledger at
// rollover time. Created only by the rollover operation, never mutated.
type DailyIngredientStock struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	IngredientID uint      `json:"ingredient_id" gorm:"not null;index"`
	Date         time.Time `json:"date" gorm:"not null;index"`
	Start        float64   `json:"start" gorm:"not null"`
	StockIn      float64   `json:"stock_in" gorm:"not null"`
	Used         float64   `json:"used" gorm:"not null"`
	Wasted       float64   `json:"wasted" gorm:"not null"`
	Stock        float64   `json:"stock" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DailyIngredientStock) TableName() string { return "daily_ingredient_stocks" }

// DailyGudangStock mirrors DailyIngredientStock for the warehouse ledger.
type DailyGudangStock struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GudangID  uint      `json:"gudang_id" gorm:"not null;index"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Start     float64   `json:"start" gorm:"not null"`
	StockIn   float64   `json:"stock_in" gorm:"not null"`
	Used      float64   `json:"used" gorm:"not null"`
	Wasted    float64   `json:"wasted" gorm:"not null"`
	Stock     float64   `json:"stock" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (DailyGudangStock) TableName() string { return "daily_gudang_stocks" }

// Supplier is a reference record with soft delete via IsActive.
type Supplier struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Address   string         `json:"address"`
	Phone     string         `json:"phone"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Supplier) TableName() string { return "suppliers" }

// LedgerRepository is the persistence contract for both stock ledgers and
// their snapshot history.
type LedgerRepository interface {
	CreateIngredient(ingredient *Ingredient) error
	FindIngredient(id uint) (*Ingredient, error)
	FindActiveIngredients() ([]Ingredient, error)
	SaveIngredient(ingredient *Ingredient) error
	DeactivateIngredient(id uint) error

	CreateGudang(gudang *Gudang) error
	FindGudang(id uint) (*Gudang, error)
	FindActiveGudang() ([]Gudang, error)
	SaveGudang(gudang *Gudang) error

	// ArchiveIngredient snapshots the ledger into history and resets the
	// live counters atomically for this one entity.
	ArchiveIngredient(ingredient *Ingredient, asOf time.Time) error
	ArchiveGudang(gudang *Gudang, asOf time.Time) error

	IngredientHistory(start, end time.Time) ([]DailyIngredientStock, error)
	GudangHistory(start, end time.Time) ([]DailyGudangStock, error)

	CountIngredientsBelowMin() (int64, error)
}

// SupplierRepository handles the supplier reference records.
type SupplierRepository interface {
	Create(supplier *Supplier) error
	FindByID(id uint) (*Supplier, error)
	FindAll(limit, offset int) ([]Supplier, error)
	Update(supplier *Supplier) error
	Deactivate(id uint) error
}
