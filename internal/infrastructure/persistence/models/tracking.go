package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

// PurchaseOrderLineModel is the persistence model for a purchase order line
// of the tracking read model.
type PurchaseOrderLineModel struct {
	LineID   int64  `gorm:"primaryKey;column:line_id"`
	PONumber string `gorm:"type:varchar(50);not null;index"`

	PODate time.Time `gorm:"column:po_date;not null;index"`
	ETD    time.Time `gorm:"column:etd;index"`
	ETA    time.Time `gorm:"column:eta;index"`

	VendorCode     string `gorm:"type:varchar(50);index"`
	VendorName     string `gorm:"type:varchar(200);not null"`
	VendorType     string `gorm:"type:varchar(20)"`
	VendorLocation string `gorm:"type:varchar(20)"`
	VendorCountry  string `gorm:"type:varchar(10)"`

	LegalEntityCode string `gorm:"type:varchar(50)"`
	LegalEntity     string `gorm:"type:varchar(200)"`

	ProductName string `gorm:"type:varchar(300);not null"`
	PTCode      string `gorm:"column:pt_code;type:varchar(50);index"`
	Brand       string `gorm:"type:varchar(100)"`
	PackageSize string `gorm:"type:varchar(100)"`

	OrderedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DeliveredQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoicedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency     string          `gorm:"type:varchar(10)"`

	UnitCostUSD           decimal.Decimal `gorm:"column:unit_cost_usd;type:decimal(18,4);not null;default:0"`
	TotalAmountUSD        decimal.Decimal `gorm:"column:total_amount_usd;type:decimal(18,2);not null;default:0"`
	OutstandingArrivalUSD decimal.Decimal `gorm:"column:outstanding_arrival_usd;type:decimal(18,2);not null;default:0"`
	OutstandingInvoiceUSD decimal.Decimal `gorm:"column:outstanding_invoice_usd;type:decimal(18,2);not null;default:0"`

	PaymentTerm string `gorm:"type:varchar(100)"`
	CreatedBy   string `gorm:"type:varchar(100)"`
	Status      string `gorm:"type:varchar(30);not null;index"`
	Critical    bool   `gorm:"not null;default:false"`

	UpdatedBy string    `gorm:"type:varchar(100)"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain purchase order line
func (m *PurchaseOrderLineModel) ToDomain() tracking.PurchaseOrderLine {
	return tracking.PurchaseOrderLine{
		LineID:                m.LineID,
		PONumber:              m.PONumber,
		PODate:                m.PODate,
		ETD:                   m.ETD,
		ETA:                   m.ETA,
		VendorCode:            m.VendorCode,
		VendorName:            m.VendorName,
		VendorType:            tracking.VendorType(m.VendorType),
		VendorLocation:        tracking.VendorLocation(m.VendorLocation),
		VendorCountry:         m.VendorCountry,
		LegalEntityCode:       m.LegalEntityCode,
		LegalEntity:           m.LegalEntity,
		ProductName:           m.ProductName,
		PTCode:                m.PTCode,
		Brand:                 m.Brand,
		PackageSize:           m.PackageSize,
		OrderedQty:            m.OrderedQty,
		DeliveredQty:          m.DeliveredQty,
		InvoicedQty:           m.InvoicedQty,
		Currency:              m.Currency,
		UnitCostUSD:           m.UnitCostUSD,
		TotalAmountUSD:        m.TotalAmountUSD,
		OutstandingArrivalUSD: m.OutstandingArrivalUSD,
		OutstandingInvoiceUSD: m.OutstandingInvoiceUSD,
		PaymentTerm:           m.PaymentTerm,
		CreatedBy:             m.CreatedBy,
		Status:                tracking.POStatus(m.Status),
		Critical:              m.Critical,
	}
}
