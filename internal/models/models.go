package models

import (
	"time"

	"humsafar/internal/biodata"
)

const (
	RoleSuper  = "super"
	RoleGroup  = "group"
	RoleMember = "member"
)

const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimRejected = "rejected"
)

// Account is a login identity: the super admin, one admin per group, or
// a self-registered member.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `gorm:"index;not null" json:"role"`
	GroupID      *uint     `gorm:"index" json:"group_id,omitempty"`
	ManagedBy    string    `json:"managed_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Group is one WhatsApp matchmaking community. Code is the short prefix
// used in group profile numbers (e.g. "JPR" in JPR-0042).
type Group struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null" json:"name"`
	Code           string    `gorm:"uniqueIndex;not null" json:"code"`
	City           string    `json:"city"`
	AdminAccountID uint      `gorm:"index" json:"admin_account_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is a stored biodata record: the parsed fields plus ownership,
// numbering and publication metadata.
type Profile struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	biodata.Profile `gorm:"embedded"`
	RawText         string     `json:"raw_text,omitempty"`
	GroupID         uint       `gorm:"index" json:"group_id"`
	GroupName       string     `json:"group_name"`
	GlobalProfileNo string     `gorm:"index" json:"globalProfileNo"`
	GroupProfileNo  string     `gorm:"index" json:"groupProfileNo"`
	Published       bool       `gorm:"index" json:"published"`
	ManagedBy       string     `json:"managed_by"`
	AddedByID       uint       `gorm:"index" json:"added_by_id"`
	MemberAccountID *uint      `gorm:"index" json:"member_account_id,omitempty"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Redacted returns a copy safe for anonymous visitors: contact details
// and the raw pasted message (which usually repeats them) are withheld.
func (p Profile) Redacted() Profile {
	p.Contact = ""
	p.RawText = ""
	return p
}

// ProfileClaim is a member's request to take ownership of a profile a
// group admin entered on their behalf.
type ProfileClaim struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProfileID       uint      `gorm:"index;not null" json:"profile_id"`
	MemberAccountID uint      `gorm:"index;not null" json:"member_account_id"`
	GroupID         uint      `gorm:"index" json:"group_id"`
	Note            string    `json:"note"`
	Status          string    `gorm:"index;default:pending" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
