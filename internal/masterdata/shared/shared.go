// Package shared holds helpers common to the master data packages.
package shared

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

const (
	DefaultPage  = 1
	DefaultLimit = 10

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Contact is the billing/contact block shared by companies and clients.
type Contact struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// FullAddress renders the single-line postal address.
func (c Contact) FullAddress() string {
	return c.Address + ", " + c.City + ", " + c.State + " " + c.ZipCode
}
