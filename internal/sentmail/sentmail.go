// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

// Package sentmail tracks individual campaign deliveries.
//
// Each record is an immutable snapshot of one email sent to one customer,
// keeping the subject as it was at send time even if the campaign later
// changes. The only mutation allowed afterwards is a bounce notification.
package sentmail

import "time"

// # Delivery Status

const (
	StatusSent    = "sent"
	StatusBounced = "bounced"
)

// SentEmail records a single delivery of a campaign email to a customer.
type SentEmail struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	CustomerID string    `json:"customer_id"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sent_at"`
}
