package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API speaks plain JSON numbers for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	// ErrNotFound is returned when a product id does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid product input")
)

// Status is the sale status of a product.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Label is the display text for s.
func (s Status) Label() string {
	if s == StatusActive {
		return "On sale"
	}
	return "Off shelf"
}

// Product represents a product in the catalog
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput is the payload for creating or fully replacing a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Status      Status          `json:"status"`
}

// NewProductInput returns the empty form used for new products.
func NewProductInput() ProductInput {
	return ProductInput{Price: decimal.Zero, Status: StatusActive}
}

// Input copies the editable fields of p.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Status:      p.Status,
	}
}

// Validate checks the required fields and ranges. A missing status defaults to active.
func (in *ProductInput) Validate() error {
	if in.Status == "" {
		in.Status = StatusActive
	}
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		problems = append(problems, "category is required")
	}
	if in.Price.IsNegative() {
		problems = append(problems, "price must be >= 0")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock must be >= 0")
	}
	if !in.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", in.Status))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, ", "))
	}
	return nil
}

// CreateProductRequest is the POST body. Price and stock have no default and
// must be present.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    string           `json:"category"`
	Status      Status           `json:"status"`
}

// Input checks the required fields and returns the validated product input.
func (r CreateProductRequest) Input() (ProductInput, error) {
	var missing []string
	if r.Price == nil {
		missing = append(missing, "price is required")
	}
	if r.Stock == nil {
		missing = append(missing, "stock is required")
	}
	if len(missing) > 0 {
		return ProductInput{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	in := ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Stock:       *r.Stock,
		Category:    r.Category,
		Status:      r.Status,
	}
	if err := in.Validate(); err != nil {
		return ProductInput{}, err
	}
	return in, nil
}

// UpdateProductRequest represents the payload for updating a product.
// Only non-nil fields are applied.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Status      *Status          `json:"status,omitempty"`
}

// Validate checks the supplied fields only.
func (r UpdateProductRequest) Validate() error {
	var problems []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		problems = append(problems, "name must not be empty")
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		problems = append(problems, "category must not be empty")
	}
	if r.Price != nil && r.Price.IsNegative() {
		problems = append(problems, "price must be >= 0")
	}
	if r.Stock != nil && *r.Stock < 0 {
		problems = append(problems, "stock must be >= 0")
	}
	if r.Status != nil && !r.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", *r.Status))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, ", "))
	}
	return nil
}

// Empty reports whether no field is set.
func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil &&
		r.Stock == nil && r.Category == nil && r.Status == nil
}
