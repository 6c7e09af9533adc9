package ghl

// LocationRequest is the body of POST /locations/ (sub-account creation).
type LocationRequest struct {
	Name         string           `json:"name"`
	CompanyID    string           `json:"companyId,omitempty"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	PostalCode   string           `json:"postalCode"`
	Country      string           `json:"country"`
	Phone        string           `json:"phone"`
	Website      string           `json:"website"`
	Timezone     string           `json:"timezone"`
	ProspectInfo ProspectInfo     `json:"prospectInfo"`
	Settings     LocationSettings `json:"settings"`
}

type ProspectInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LocationSettings are the duplicate-merge flags; the zero value disables all of them.
type LocationSettings struct {
	AllowDuplicateContact     bool `json:"allowDuplicateContact"`
	AllowDuplicateOpportunity bool `json:"allowDuplicateOpportunity"`
	AllowFacebookNameMerge    bool `json:"allowFacebookNameMerge"`
	DisableContactTimezone    bool `json:"disableContactTimezone"`
}

type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	Email     string `json:"email,omitempty"`
}

type listLocationsResponse struct {
	Locations []Location `json:"locations"`
}
