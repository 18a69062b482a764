package models

import (
	"time"
)

// User is the platform profile stored in Firestore. Role and TenantDomain back identity
// resolution when the ID token carries no custom claims.
type User struct {
	UID          string    `firestore:"uid" json:"uid"`
	Email        string    `firestore:"email" json:"email"`
	FirstName    string    `firestore:"firstName" json:"firstName"`
	LastName     string    `firestore:"lastName" json:"lastName"`
	Role         string    `firestore:"role" json:"role"`
	TenantDomain string    `firestore:"tenantDomain" json:"tenantDomain"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Identity is the authenticated caller as seen by the dashboard.
type Identity struct {
	UserID       string `json:"userId"`
	Role         Role   `json:"role"`
	TenantDomain string `json:"tenantDomain,omitempty"`
}
