package domain

import "time"

type ContactStatus string

const (
	ContactStatusPending ContactStatus = "PENDING"
	ContactStatusSent    ContactStatus = "SENT"
	ContactStatusFailed  ContactStatus = "FAILED"
)

// ContactRequest records one outreach attempt between two profile owners.
// It is created once and mutated once, to SENT or FAILED, after the delivery
// attempt. A FAILED request is never retried.
type ContactRequest struct {
	ID          string        `json:"id" firestore:"id"`
	FromUID     string        `json:"from_uid" firestore:"fromUid"`
	FromName    string        `json:"from_name" firestore:"fromName"`
	FromEmail   string        `json:"from_email" firestore:"fromEmail"`
	ToUID       string        `json:"to_uid" firestore:"toUid"`
	ToName      string        `json:"to_name" firestore:"toName"`
	ToEmail     string        `json:"to_email" firestore:"toEmail"`
	Subject     string        `json:"subject" firestore:"subject"`
	Message     string        `json:"message" firestore:"message"`
	Status      ContactStatus `json:"status" firestore:"status"`
	DateCreated time.Time     `json:"date_created" firestore:"dateCreated"`
}
