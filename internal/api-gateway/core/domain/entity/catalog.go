package entity

// CatalogPart is a parts catalog row as returned by the remote server.
type CatalogPart struct {
	PartID     int      `json:"part_id"`
	PartName   string   `json:"part_name"`
	PartNumber *string  `json:"part_number"`
	UnitCost   *float64 `json:"unit_cost"`
	UnitPrice  *float64 `json:"unit_price"`
	PartPic    *string  `json:"part_pic"`
}

// TravelTime is a travel catalog row.
type TravelTime struct {
	Location        string  `json:"location"`
	TravelTimeHours float64 `json:"travel_time_hours"`
}

// SearchMatch is one hit of the remote work order search.
type SearchMatch struct {
	Folder      string `json:"folder"`
	Customer    string `json:"customer"`
	SiteAddress string `json:"site_address"`
	PONumber    string `json:"po_number"`
	SiteContact string `json:"site_contact"`
}
