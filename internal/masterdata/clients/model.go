package clients

import (
	"time"

	"github.com/invoicer-app/invoicer/internal/masterdata/shared"
)

// Client is a billable customer, optionally tagged with a project label.
type Client struct {
	ID int64 `json:"id"`
	shared.Contact
	Project   string    `json:"project"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
