package domain

import "time"

// Product types accepted by the catalog.
const (
	ProductTypeFood        = "Food"
	ProductTypeElectronics = "Electronics"
	ProductTypeClothing    = "Clothing"
	ProductTypeBooks       = "Books"
	ProductTypeOther       = "Other"
)

// Exchange eligibility values.
const (
	ExchangeYes = "YES"
	ExchangeNo  = "NO"
)

// Product is the sole persisted entity: one listing in a principal's catalog.
// The id is assigned at creation and never reused; published is toggled
// independently of edits.
type Product struct {
	ID                  int64     `json:"id,string" form:"id"`
	ProductName         string    `json:"productName" form:"productName"`
	ProductType         string    `json:"productType" form:"productType"`
	QuantityStock       int       `json:"quantityStock" form:"quantityStock"`
	Mrp                 float64   `json:"mrp" form:"mrp"`
	SellingPrice        float64   `json:"sellingPrice" form:"sellingPrice"`
	BrandName           string    `json:"brandName" form:"brandName"`
	ProductImage        string    `json:"productImage,omitempty" form:"productImage"`
	ImageCount          int       `json:"imageCount" form:"imageCount"`
	ExchangeEligibility string    `json:"exchangeEligibility" form:"exchangeEligibility"`
	Published           bool      `json:"published" form:"published"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProductDraft is the unsaved form data for a product. Numeric fields are
// pointers so a missing field can be told apart from an explicit zero.
type ProductDraft struct {
	ProductName         string   `json:"productName" form:"productName"`
	ProductType         string   `json:"productType" form:"productType"`
	QuantityStock       *int     `json:"quantityStock" form:"quantityStock"`
	Mrp                 *float64 `json:"mrp" form:"mrp"`
	SellingPrice        *float64 `json:"sellingPrice" form:"sellingPrice"`
	BrandName           string   `json:"brandName" form:"brandName"`
	ProductImage        string   `json:"productImage" form:"productImage"`
	ImageCount          int      `json:"imageCount" form:"imageCount"`
	ExchangeEligibility string   `json:"exchangeEligibility" form:"exchangeEligibility"`
}

// ValidProductType reports whether t is one of the accepted catalog types.
func ValidProductType(t string) bool {
	switch t {
	case ProductTypeFood, ProductTypeElectronics, ProductTypeClothing,
		ProductTypeBooks, ProductTypeOther:
		return true
	}
	return false
}
