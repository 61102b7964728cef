package model

import (
	"fmt"
	"net/url"
)

type EnrollmentStatus string

const (
	EnrollmentStatusNone            EnrollmentStatus = "none"
	EnrollmentStatusPendingApproval EnrollmentStatus = "pendingApproval"
	EnrollmentStatusApproved        EnrollmentStatus = "approved"
	EnrollmentStatusRejected        EnrollmentStatus = "rejected"
)

func ParseEnrollmentStatus(status string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(status) {
	case EnrollmentStatusNone, EnrollmentStatusPendingApproval, EnrollmentStatusApproved, EnrollmentStatusRejected:
		return EnrollmentStatus(status), nil
	default:
		return "", fmt.Errorf("unsupported enrollment status: %s", status)
	}
}

func (s EnrollmentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether s is a verification outcome.
func (s EnrollmentStatus) IsTerminal() bool {
	return s == EnrollmentStatusApproved || s == EnrollmentStatusRejected
}

// Action is the API path segment that moves an enrollment into s.
func (s EnrollmentStatus) Action() string {
	if s == EnrollmentStatusApproved {
		return "approve"
	}
	return "reject"
}

// Extension is one answer of the hackathon's custom registration form.
type Extension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Enrollment struct {
	Base
	HackathonName string           `json:"hackathonName"`
	UserID        string           `json:"userId"`
	User          User             `json:"user"`
	Status        EnrollmentStatus `json:"status"`
	Extensions    []Extension      `json:"extensions"`
}

type EnrollmentFilter struct {
	Status        EnrollmentStatus
	UserID        string
	HackathonName string
}

// Query encodes the non-empty predicates of f.
func (f EnrollmentFilter) Query() string {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", f.Status.String())
	}
	if f.UserID != "" {
		values.Set("userId", f.UserID)
	}
	if f.HackathonName != "" {
		values.Set("hackathonName", f.HackathonName)
	}
	return values.Encode()
}
