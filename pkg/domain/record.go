// Package domain defines the livestock record, its identifier rules and the
// udder-count state machine used by herdcheck.
package domain

import (
	"strings"
	"sync"
)

// Category names recognised by the lookup service. Comparison is case-insensitive.
const (
	CategoryCow  = "cow"
	CategoryGoat = "goat"
)

// UdderCount is an optional, non-negative udder count. The zero value means
// no count was recorded.
type UdderCount struct {
	n  int
	ok bool
}

// Udders returns a recorded count. Negative input yields an absent count.
func Udders(n int) UdderCount {
	if n < 0 {
		return UdderCount{}
	}
	return UdderCount{n: n, ok: true}
}

// NoUdders returns an absent count.
func NoUdders() UdderCount { return UdderCount{} }

// Get returns the count and whether one was recorded.
func (u UdderCount) Get() (int, bool) { return u.n, u.ok }

// Known reports whether a count was recorded.
func (u UdderCount) Known() bool { return u.ok }

// Ptr returns the count as a pointer, nil when absent.
func (u UdderCount) Ptr() *int {
	if !u.ok {
		return nil
	}
	n := u.n
	return &n
}

// Record is one livestock entry. Identity and age fields are fixed at
// construction; the udder count is written only by UdderMachine.
type Record struct {
	id        string
	category  string
	ageYears  int
	ageMonths int

	mu     sync.Mutex
	udders UdderCount
}

// NewRecord constructs a record. Negative ages are clamped to zero and the
// category is stored trimmed.
func NewRecord(id, category string, ageYears, ageMonths int, udders UdderCount) *Record {
	return &Record{
		id:        id,
		category:  strings.TrimSpace(category),
		ageYears:  max(ageYears, 0),
		ageMonths: max(ageMonths, 0),
		udders:    udders,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Category returns the category as loaded.
func (r *Record) Category() string { return r.category }

// Kind returns the normalised category used for dispatch.
func (r *Record) Kind() string { return strings.ToLower(r.category) }

// AgeYears returns the age in whole years.
func (r *Record) AgeYears() int { return r.ageYears }

// AgeMonths returns the additional months of age.
func (r *Record) AgeMonths() int { return r.ageMonths }

// Udders returns the current udder count.
func (r *Record) Udders() UdderCount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.udders
}

// RecordView is a point-in-time copy of a record suitable for encoding.
type RecordView struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	AgeYears  int    `json:"age_years"`
	AgeMonths int    `json:"age_months"`
	Udders    *int   `json:"udders"`
}

// View snapshots the record.
func (r *Record) View() RecordView {
	return RecordView{
		ID:        r.id,
		Category:  r.category,
		AgeYears:  r.ageYears,
		AgeMonths: r.ageMonths,
		Udders:    r.Udders().Ptr(),
	}
}
