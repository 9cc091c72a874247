package session

import "time"

// Session is a persisted login. The raw token is never stored, only its fingerprint.
type Session struct {
	Fingerprint string    `gorm:"column:fingerprint;type:text;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`

	// Best effort client metadata, never used for authorization.
	IPAddress *string `gorm:"column:ip_address;type:text"`
	UserAgent *string `gorm:"column:user_agent;type:text"`
}

func (Session) TableName() string {
	return "sessions"
}

// Metadata is the client information captured when a session is created.
type Metadata struct {
	IPAddress string
	UserAgent string
}

// Issued is returned once to the caller that logged in.
type Issued struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Info is a read-only view of a session for display purposes.
type Info struct {
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
