package domain

import (
	"fmt"
	"regexp"

	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

// WorkOrder is the JSON document the remote server stores as
// <folder>/<folder>.json. Field names are part of the stored format.
type WorkOrder struct {
	Technician          string `json:"technician"`
	Date                string `json:"date"`
	InTime              string `json:"inTime"`
	OutTime             string `json:"outTime"`
	WorkOrderNumber     string `json:"workOrderNumber"`
	PurchaseOrderNumber string `json:"purchaseOrderNumber"`
	Customer            string `json:"customer"`
	SiteAddress         string `json:"siteAddress"`
	TravelLocation      string `json:"travelLocation"`
	TravelHours         string `json:"travelHours"`
	SiteContact         string `json:"siteContact"`
	PhoneNumber         string `json:"phoneNumber"`
	JobDescription      string `json:"jobDescription"`
	WorkPerformed       string `json:"workPerformed"`
	Parts               []Part `json:"parts"`
	TotalBeforeTax      string `json:"totalBeforeTax"`
	TaxAmount           string `json:"taxAmount"`
	TotalAfterTax       string `json:"totalAfterTax"`
	JobStatus           string `json:"jobStatus"`
	Orientation         string `json:"orientation"`
	HotWorkPermit       string `json:"hotWorkPermit"`
	Week                string `json:"week"`
	// WeekNumber is the label older documents were stored with.
	WeekNumber string `json:"weekNumber,omitempty"`

	// FolderName is filled in by readers; the remote document does not carry it.
	FolderName string `json:"folder_name,omitempty"`
}

// Part is a stored line item with its rounded line total.
type Part struct {
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	Quantity   string `json:"quantity"`
	TotalPrice string `json:"total_price,omitempty"`
}

// LineItem drops the derived total.
func (p Part) LineItem() pricing.LineItem {
	return pricing.LineItem{Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity}
}

// PriceParts fills TotalPrice on each line item.
func PriceParts(items []pricing.LineItem) []Part {
	parts := make([]Part, len(items))
	for i, it := range items {
		parts[i] = Part{
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			TotalPrice: it.FormattedLineTotal(),
		}
	}
	return parts
}

// LineItems returns the parts as pricing input.
func (w *WorkOrder) LineItems() []pricing.LineItem {
	items := make([]pricing.LineItem, len(w.Parts))
	for i, p := range w.Parts {
		items[i] = p.LineItem()
	}
	return items
}

// ApplyTotals writes totals into the stored string fields.
func (w *WorkOrder) ApplyTotals(t pricing.OrderTotals) {
	w.TotalBeforeTax, w.TaxAmount, w.TotalAfterTax = t.Formatted()
}

// Totals reads the stored totals back.
func (w *WorkOrder) Totals() pricing.OrderTotals {
	return pricing.OrderTotals{
		Subtotal: pricing.ParseAmount(w.TotalBeforeTax),
		Tax:      pricing.ParseAmount(w.TaxAmount),
		Total:    pricing.ParseAmount(w.TotalAfterTax),
	}
}

// Reprice recomputes line totals and order totals after an edit. Stored
// orders have always been re-summed from the rounded line totals.
func (w *WorkOrder) Reprice() {
	w.Parts = PriceParts(w.LineItems())
	lineTotals := make([]string, len(w.Parts))
	for i, p := range w.Parts {
		lineTotals[i] = p.TotalPrice
	}
	w.ApplyTotals(pricing.ComputeTotalsFromLineTotals(lineTotals))
}

// JobStatus is the closing state a technician picks for the job.
type JobStatus string

const (
	StatusNone             JobStatus = ""
	StatusJobComplete      JobStatus = "Job Complete"
	StatusTemporaryRepairs JobStatus = "Temporary Repairs"
	StatusMaintenance      JobStatus = "Maintenance Problems"
	StatusSafetyIssues     JobStatus = "Safety Issues Repairs Required"
)

// JobStatuses lists the selectable statuses in display order.
var JobStatuses = []JobStatus{
	StatusJobComplete,
	StatusTemporaryRepairs,
	StatusMaintenance,
	StatusSafetyIssues,
}

// Valid reports whether s is empty or one of JobStatuses.
func (s JobStatus) Valid() bool {
	if s == StatusNone {
		return true
	}
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

var (
	folderPattern = regexp.MustCompile(`^\d{8}_\d+$`)
	numberPattern = regexp.MustCompile(`^\d+$`)
)

// FolderName builds the remote folder for a work order created on date
// (YYYY-MM-DD): 20240115_1234.
func FolderName(date, workOrderNumber string) string {
	compact := make([]byte, 0, 8)
	for i := 0; i < len(date) && len(compact) < 8; i++ {
		if date[i] >= '0' && date[i] <= '9' {
			compact = append(compact, date[i])
		}
	}
	return fmt.Sprintf("%s_%s", compact, workOrderNumber)
}

// IsWorkOrderFolder reports whether folder follows the FolderName layout.
func IsWorkOrderFolder(folder string) bool {
	return folderPattern.MatchString(folder)
}

// ValidWorkOrderNumber reports whether n can be used in a folder name.
func ValidWorkOrderNumber(n string) bool {
	return numberPattern.MatchString(n)
}
