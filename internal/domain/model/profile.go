package model

import "time"

// Identity is the minimal viewer identity supplied by the authentication
// layer. Any field may be empty; enrichment substitutes defaults.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	Phone       string
}

// CandidateProfile is the best-effort display profile attached to an outgoing
// application. Every field is always populated: strings default to "", Skills
// to an empty (never nil) slice. Built transiently per submission.
type CandidateProfile struct {
	Name       string
	Email      string
	Phone      string
	Skills     []string // ordered, deduplicated
	Experience string
	Education  string
	ResumeRef  string
}

// Application is one submission record handed to the persistence collaborator.
type Application struct {
	ID          string
	ListingID   string
	ApplicantID string
	Profile     CandidateProfile
	SubmittedAt time.Time
}
