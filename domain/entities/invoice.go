package entities

import "time"

// InvoiceDraft is the payload handed to the external invoicing subsystem
// when a job is invoiced. It is computed from the job's accumulated logs
// and never persisted here.
type InvoiceDraft struct {
	JobID        int64
	SourceType   SourceType
	SourceID     int64
	Title        string
	CustomerCity string

	PricingMode PricingMode
	TimeLines     []InvoiceTimeLine
	MaterialLines []InvoiceMaterialLine
	ExpenseLines  []InvoiceExpenseLine

	LaborCents    int64
	MaterialCents int64
	ExpenseCents  int64
	BonusCents    int64
	TotalCents    int64

	GeneratedAt time.Time
}

// InvoiceTimeLine is one billable time entry on a draft.
type InvoiceTimeLine struct {
	WorkerID  int64
	Hours     float64
	RateCents int64
	TotalCents int64
	Note      string
}

// InvoiceMaterialLine is one billable material entry on a draft.
type InvoiceMaterialLine struct {
	Name           string
	Quantity       float64
	UnitPriceCents int64
	TotalCents     int64
}

// InvoiceExpenseLine is one billable expense entry on a draft.
type InvoiceExpenseLine struct {
	Description string
	AmountCents int64
}
