package domain

import "time"

// Webinar is an announced live session. IsLive and IsCompleted are derived
// from the wall clock by the nightly sweep rather than computed on read, so
// the directory frontend can filter on them with plain equality queries.
type Webinar struct {
	ID              string    `json:"id" firestore:"id"`
	Title           string    `json:"title" firestore:"title"`
	Description     string    `json:"description,omitempty" firestore:"description,omitempty"`
	Speaker         string    `json:"speaker,omitempty" firestore:"speaker,omitempty"`
	RegistrationURL string    `json:"registration_url,omitempty" firestore:"registrationUrl,omitempty"`
	StartTime       time.Time `json:"start_time" firestore:"startTime"`
	EndTime         time.Time `json:"end_time" firestore:"endTime"`
	IsLive          bool      `json:"is_live" firestore:"isLive"`
	IsCompleted     bool      `json:"is_completed" firestore:"isCompleted"`
}
