package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/allstar-electrical/workorders/internal/workorder/calendar"
	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

// ErrInvalidForm wraps every Form validation failure.
var ErrInvalidForm = errors.New("invalid work order form")

// Form holds everything a technician edits on the create and edit screens.
// Totals and the week label are derived from it by Build, never typed in.
type Form struct {
	Technician          string             `json:"technician"`
	InTime              string             `json:"in_time"`
	OutTime             string             `json:"out_time"`
	WorkOrderNumber     string             `json:"work_order_number"`
	PurchaseOrderNumber string             `json:"purchase_order_number"`
	Customer            string             `json:"customer"`
	SiteAddress         string             `json:"site_address"`
	SiteContact         string             `json:"site_contact"`
	PhoneNumber         string             `json:"phone_number"`
	TravelLocation      string             `json:"travel_location"`
	TravelHours         string             `json:"travel_hours"`
	JobDescription      string             `json:"job_description"`
	WorkPerformed       string             `json:"work_performed"`
	Parts               []pricing.LineItem `json:"parts"`
	JobStatus           JobStatus          `json:"job_status"`
	Orientation         string             `json:"orientation"`
	HotWorkPermit       string             `json:"hot_work_permit"`

	// Week overrides the derived week label when set (the edit screen lets
	// technicians correct it).
	Week string `json:"week,omitempty"`
}

// Validate checks the fields the remote server relies on.
func (f *Form) Validate() error {
	var problems []string
	if strings.TrimSpace(f.Technician) == "" {
		problems = append(problems, "technician is required")
	}
	if !ValidWorkOrderNumber(f.WorkOrderNumber) {
		problems = append(problems, "work_order_number must be digits")
	}
	if !f.JobStatus.Valid() {
		problems = append(problems, fmt.Sprintf("unknown job_status %q", f.JobStatus))
	}
	if _, err := NormalizeClock(f.InTime); err != nil {
		problems = append(problems, "in_time: "+err.Error())
	}
	if _, err := NormalizeClock(f.OutTime); err != nil {
		problems = append(problems, "out_time: "+err.Error())
	}
	if f.Week != "" {
		if _, err := strconv.Atoi(f.Week); err != nil {
			problems = append(problems, "week must be an integer")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(problems, "; "))
	}
	return nil
}

// Build validates the form and produces the work order document to submit,
// dated today in the resolver's location.
func (f *Form) Build(weeks *calendar.Resolver) (*WorkOrder, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	inTime, _ := NormalizeClock(f.InTime)
	outTime, _ := NormalizeClock(f.OutTime)

	week := f.Week
	if week == "" {
		week = strconv.Itoa(weeks.Current())
	}

	wo := &WorkOrder{
		Technician:          strings.TrimSpace(f.Technician),
		Date:                weeks.Today(),
		InTime:              inTime,
		OutTime:             outTime,
		WorkOrderNumber:     f.WorkOrderNumber,
		PurchaseOrderNumber: f.PurchaseOrderNumber,
		Customer:            f.Customer,
		SiteAddress:         f.SiteAddress,
		TravelLocation:      f.TravelLocation,
		TravelHours:         f.TravelHours,
		SiteContact:         f.SiteContact,
		PhoneNumber:         f.PhoneNumber,
		JobDescription:      f.JobDescription,
		WorkPerformed:       f.WorkPerformed,
		Parts:               PriceParts(f.Parts),
		JobStatus:           string(f.JobStatus),
		Orientation:         f.Orientation,
		HotWorkPermit:       f.HotWorkPermit,
		Week:                week,
	}
	wo.ApplyTotals(pricing.ComputeTotals(f.Parts))
	wo.FolderName = FolderName(wo.Date, wo.WorkOrderNumber)
	return wo, nil
}

// ApplyEdit copies the form onto a stored work order, keeping its date,
// folder and (unless the form overrides it) its week, then reprices it.
func (f *Form) ApplyEdit(wo *WorkOrder) error {
	if err := f.Validate(); err != nil {
		return err
	}
	inTime, _ := NormalizeClock(f.InTime)
	outTime, _ := NormalizeClock(f.OutTime)

	wo.Technician = strings.TrimSpace(f.Technician)
	wo.InTime = inTime
	wo.OutTime = outTime
	wo.WorkOrderNumber = f.WorkOrderNumber
	wo.PurchaseOrderNumber = f.PurchaseOrderNumber
	wo.Customer = f.Customer
	wo.SiteAddress = f.SiteAddress
	wo.TravelLocation = f.TravelLocation
	wo.TravelHours = f.TravelHours
	wo.SiteContact = f.SiteContact
	wo.PhoneNumber = f.PhoneNumber
	wo.JobDescription = f.JobDescription
	wo.WorkPerformed = f.WorkPerformed
	wo.Parts = PriceParts(f.Parts)
	wo.JobStatus = string(f.JobStatus)
	wo.Orientation = f.Orientation
	wo.HotWorkPermit = f.HotWorkPermit
	if f.Week != "" {
		wo.Week = f.Week
	}
	wo.Reprice()
	return nil
}

// FormFromWorkOrder loads a stored work order into an editable form.
func FormFromWorkOrder(wo *WorkOrder) *Form {
	items := wo.LineItems()
	return &Form{
		Technician:          wo.Technician,
		InTime:              wo.InTime,
		OutTime:             wo.OutTime,
		WorkOrderNumber:     wo.WorkOrderNumber,
		PurchaseOrderNumber: wo.PurchaseOrderNumber,
		Customer:            wo.Customer,
		SiteAddress:         wo.SiteAddress,
		SiteContact:         wo.SiteContact,
		PhoneNumber:         wo.PhoneNumber,
		TravelLocation:      wo.TravelLocation,
		TravelHours:         wo.TravelHours,
		JobDescription:      wo.JobDescription,
		WorkPerformed:       wo.WorkPerformed,
		Parts:               items,
		JobStatus:           JobStatus(wo.JobStatus),
		Orientation:         wo.Orientation,
		HotWorkPermit:       wo.HotWorkPermit,
		Week:                wo.Week,
	}
}

var (
	clock12 = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s?(AM|PM)$`)
	clock24 = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseClock reads "2:48 PM" or "14:48" into hours and minutes.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if m := clock12.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		pm := strings.EqualFold(m[3], "PM")
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("hour %d out of range", hour)
		}
		if pm && hour < 12 {
			hour += 12
		}
		if !pm && hour == 12 {
			hour = 0
		}
	} else if m := clock24.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour > 23 {
			return 0, 0, fmt.Errorf("hour %d out of range", hour)
		}
	} else {
		return 0, 0, fmt.Errorf("unrecognized time %q", s)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("minute %d out of range", minute)
	}
	return hour, minute, nil
}

// NormalizeClock renders a clock time as "03:04 PM". Empty stays empty.
func NormalizeClock(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return time.Date(2000, 1, 1, h, m, 0, 0, time.UTC).Format("03:04 PM"), nil
}
