// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Company, Deal, Quote, SalesOrder and Activity structs
package models

import (
	"strings"
	"time"
)

// Address is a nested postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// String renders the non-empty parts of the address on one line.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Contact struct {
	ID          int64      `json:"Id"`
	FirstName   string     `json:"firstName" validate:"notblank"`
	LastName    string     `json:"lastName" validate:"notblank"`
	Email       string     `json:"email" validate:"notblank,simpleemail"`
	Phone       string     `json:"phone,omitempty" validate:"omitempty,phone"`
	Company     string     `json:"company"`
	Tags        []string   `json:"tags"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastContact *time.Time `json:"lastContact,omitempty"`
}

func (c Contact) RecordID() int64 { return c.ID }

// FullName joins first and last name with a single space.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// TagSet returns the contact's tags, never nil.
func (c Contact) TagSet() []string {
	if c.Tags == nil {
		return []string{}
	}
	return c.Tags
}

func (c *Contact) StampCreated(now time.Time) {
	if c.CreatedAt == nil {
		c.CreatedAt = &now
	}
	if c.LastContact == nil {
		c.LastContact = &now
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// Company sizes.
const (
	SizeSmall      = "Small"
	SizeMedium     = "Medium"
	SizeLarge      = "Large"
	SizeEnterprise = "Enterprise"
)

type Company struct {
	ID       int64    `json:"Id"`
	Name     string   `json:"name" validate:"notblank"`
	Industry string   `json:"industry,omitempty"`
	Size     string   `json:"size,omitempty" validate:"omitempty,oneof=Small Medium Large Enterprise"`
	Website  string   `json:"website,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

func (c Company) RecordID() int64 { return c.ID }

// Deal stages, in pipeline order.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed-won"
	StageClosedLost  = "closed-lost"
)

// Stage is a pipeline column key with its display label.
type Stage struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Stages is the fixed, ordered pipeline.
var Stages = []Stage{
	{Key: StageLead, Label: "Lead"},
	{Key: StageQualified, Label: "Qualified"},
	{Key: StageProposal, Label: "Proposal"},
	{Key: StageNegotiation, Label: "Negotiation"},
	{Key: StageClosedWon, Label: "Closed Won"},
	{Key: StageClosedLost, Label: "Closed Lost"},
}

// IsValidStage reports whether stage is one of the pipeline keys.
func IsValidStage(stage string) bool {
	for _, s := range Stages {
		if s.Key == stage {
			return true
		}
	}
	return false
}

// StageKeys returns the pipeline keys in order.
func StageKeys() []string {
	keys := make([]string, len(Stages))
	for i, s := range Stages {
		keys[i] = s.Key
	}
	return keys
}

type Deal struct {
	ID                int64      `json:"Id"`
	Title             string     `json:"title" validate:"notblank"`
	Value             float64    `json:"value" validate:"gte=0"`
	Stage             string     `json:"stage" validate:"notblank,stage"`
	Probability       int        `json:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	ContactID         *int64     `json:"contactId,omitempty"`
	CompanyID         *int64     `json:"companyId,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

func (d Deal) RecordID() int64 { return d.ID }

func (d *Deal) StampCreated(now time.Time) {
	if d.CreatedAt == nil {
		d.CreatedAt = &now
	}
}

// Quote statuses.
const (
	QuoteDraft    = "Draft"
	QuoteSent     = "Sent"
	QuoteAccepted = "Accepted"
	QuoteDeclined = "Declined"
	QuoteExpired  = "Expired"
)

type Quote struct {
	ID              int64      `json:"Id"`
	Name            string     `json:"name" validate:"notblank"`
	Tags            []string   `json:"tags"`
	Company         string     `json:"company,omitempty"`
	Contact         string     `json:"contact,omitempty"`
	Deal            string     `json:"deal,omitempty"`
	QuoteDate       *time.Time `json:"quoteDate,omitempty"`
	Status          string     `json:"status" validate:"omitempty,oneof=Draft Sent Accepted Declined Expired"`
	DeliveryMethod  string     `json:"deliveryMethod,omitempty"`
	ExpiresOn       *time.Time `json:"expiresOn,omitempty"`
	BillingAddress  *Address   `json:"billingAddress,omitempty"`
	ShippingAddress *Address   `json:"shippingAddress,omitempty"`
}

func (q Quote) RecordID() int64 { return q.ID }

// Sales order statuses.
const (
	OrderDraft     = "Draft"
	OrderConfirmed = "Confirmed"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

type SalesOrder struct {
	ID           int64      `json:"Id"`
	Name         string     `json:"name" validate:"notblank"`
	Tags         []string   `json:"tags"`
	OrderNumber  string     `json:"orderNumber,omitempty"`
	OrderDate    *time.Time `json:"orderDate,omitempty"`
	CustomerName string     `json:"customerName,omitempty"`
	TotalAmount  float64    `json:"totalAmount" validate:"gte=0"`
	Status       string     `json:"status" validate:"omitempty,oneof=Draft Confirmed Shipped Delivered Cancelled"`
}

func (o SalesOrder) RecordID() int64 { return o.ID }

// Activity types.
const (
	ActivityCall    = "call"
	ActivityEmail   = "email"
	ActivityMeeting = "meeting"
	ActivityNote    = "note"
	ActivityTask    = "task"
)

type Activity struct {
	ID          int64      `json:"Id"`
	Type        string     `json:"type" validate:"oneof=call email meeting note task"`
	Description string     `json:"description,omitempty"`
	ContactID   *int64     `json:"contactId,omitempty"`
	DealID      *int64     `json:"dealId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

func (a Activity) RecordID() int64 { return a.ID }

func (a *Activity) StampCreated(now time.Time) {
	if a.Date == nil {
		a.Date = &now
	}
}
