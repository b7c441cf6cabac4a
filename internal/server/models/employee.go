package models

import "time"

// Employee is an immutable snapshot of an employee record. Updates build a
// new snapshot from the fields explicitly supplied in the request; the
// struct itself is never mutated in place across calls.
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Gender        string // one of Male/Female/Other, empty when unset
	Designation   string
	Salary        float64
	DateOfJoining time.Time
	Department    string
	PhotoURL      string // empty when no photo was ever attached
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
