// Package stylesheets manages the per-company presentation records used to
// render printable invoices.
package stylesheets

import "time"

// Stylesheet carries a company's presentation text blocks and the stored
// path of its uploaded asset.
type Stylesheet struct {
	ID               int64     `json:"id"`
	CompanyID        int64     `json:"company_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Path             string    `json:"path"`
	IntroductionText string    `json:"introduction_text"`
	FeedbackText     string    `json:"feedback_text"`
	MiscText         string    `json:"misc_text"`
	ThankYouText     string    `json:"thank_you_text"`
	CreatedAt        time.Time `json:"created_at"`
}
