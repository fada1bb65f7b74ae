// ABOUTME: Filter engine configurations for each list view
// ABOUTME: Declares which fields each entity searches and which facets it offers

package filter

import (
	"github.com/harperreed/dealdesk/models"
)

// Contacts searches first name, last name, email and company, each on its
// own; facets on company and tags.
func Contacts() *Engine[models.Contact] {
	return New[models.Contact]().
		Search(func(c models.Contact) string { return c.FirstName }).
		Search(func(c models.Contact) string { return c.LastName }).
		Search(func(c models.Contact) string { return c.Email }).
		Search(func(c models.Contact) string { return c.Company }).
		Facet("company", func(c models.Contact) string { return c.Company }).
		SetFacet("tags", models.Contact.TagSet)
}

// Companies searches name and industry; facets on industry and size.
func Companies() *Engine[models.Company] {
	return New[models.Company]().
		Search(func(c models.Company) string { return c.Name }).
		Search(func(c models.Company) string { return c.Industry }).
		Facet("industry", func(c models.Company) string { return c.Industry }).
		Facet("size", func(c models.Company) string { return c.Size })
}

// Deals searches title and notes; facets on stage.
func Deals() *Engine[models.Deal] {
	return New[models.Deal]().
		Search(func(d models.Deal) string { return d.Title }).
		Search(func(d models.Deal) string { return d.Notes }).
		Facet("stage", func(d models.Deal) string { return d.Stage })
}

// Quotes searches name, company and contact; facets on status.
func Quotes() *Engine[models.Quote] {
	return New[models.Quote]().
		Search(func(q models.Quote) string { return q.Name }).
		Search(func(q models.Quote) string { return q.Company }).
		Search(func(q models.Quote) string { return q.Contact }).
		Facet("status", func(q models.Quote) string { return q.Status })
}

// SalesOrders searches name, order number and customer; facets on status.
func SalesOrders() *Engine[models.SalesOrder] {
	return New[models.SalesOrder]().
		Search(func(o models.SalesOrder) string { return o.Name }).
		Search(func(o models.SalesOrder) string { return o.OrderNumber }).
		Search(func(o models.SalesOrder) string { return o.CustomerName }).
		Facet("status", func(o models.SalesOrder) string { return o.Status })
}
