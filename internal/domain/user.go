package domain

import "time"

// User is the durable record created by a successful verification. It
// survives restarts until logout removes it.
type User struct {
	SessionID  string    `bson:"session_id" json:"-"`
	Email      string    `bson:"email" json:"email"`
	Name       string    `bson:"name" json:"name"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	IsVerified bool      `bson:"is_verified" json:"is_verified"`
	LoginTime  time.Time `bson:"login_time" json:"login_time"`
}

// PendingAuth is an issued-but-unconfirmed verification challenge. It lives
// only in the volatile session store, so it never survives a restart.
type PendingAuth struct {
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Code     string    `json:"verification_code"`
	IssuedAt time.Time `json:"timestamp"`
}
