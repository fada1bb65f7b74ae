// ABOUTME: Schema declarations for every CRM collection
// ABOUTME: Keys are the in-process field names; columns follow the hosted backend's custom-field suffix
package schema

var Contacts = Entity{
	Name:  "contact",
	Table: "contact_c",
	Fields: []Field{
		{Key: "firstName", Column: "first_name_c", Type: TypeString, Required: true},
		{Key: "lastName", Column: "last_name_c", Type: TypeString, Required: true},
		{Key: "email", Column: "email_c", Type: TypeString, Required: true},
		{Key: "phone", Column: "phone_c", Type: TypeString},
		{Key: "company", Column: "company_c", Type: TypeString},
		{Key: "tags", Column: "Tags", Type: TypeTags, Default: []string{}},
		{Key: "notes", Column: "notes_c", Type: TypeString},
		{Key: "createdAt", Column: "created_at_c", Type: TypeDateTime},
		{Key: "lastContact", Column: "last_contact_c", Type: TypeDateTime},
	},
	SearchFields: []string{"firstName", "lastName", "email", "company"},
}

var Companies = Entity{
	Name:  "company",
	Table: "company_c",
	Fields: []Field{
		{Key: "name", Column: "name_c", Type: TypeString, Required: true},
		{Key: "industry", Column: "industry_c", Type: TypeString},
		{Key: "size", Column: "size_c", Type: TypeString},
		{Key: "website", Column: "website_c", Type: TypeString},
		{Key: "address", Column: "address_c", Type: TypeObject},
		{Key: "notes", Column: "notes_c", Type: TypeString},
	},
	SearchFields: []string{"name", "industry"},
}

var Deals = Entity{
	Name:  "deal",
	Table: "deal_c",
	Fields: []Field{
		{Key: "title", Column: "title_c", Type: TypeString, Required: true},
		{Key: "value", Column: "value_c", Type: TypeNumber, Default: 0},
		{Key: "stage", Column: "stage_c", Type: TypeString, Required: true, Default: "lead"},
		{Key: "probability", Column: "probability_c", Type: TypeInteger, Default: 0},
		{Key: "expectedCloseDate", Column: "expected_close_date_c", Type: TypeDate},
		{Key: "notes", Column: "notes_c", Type: TypeString},
		{Key: "contactId", Column: "contact_id_c", Type: TypeReference},
		{Key: "companyId", Column: "company_id_c", Type: TypeReference},
		{Key: "createdAt", Column: "created_at_c", Type: TypeDateTime},
	},
	SearchFields: []string{"title", "notes"},
}

var Quotes = Entity{
	Name:  "quote",
	Table: "quotes_c",
	Fields: []Field{
		{Key: "name", Column: "Name", Type: TypeString, Required: true},
		{Key: "tags", Column: "Tags", Type: TypeTags, Default: []string{}},
		{Key: "company", Column: "company_c", Type: TypeString},
		{Key: "contact", Column: "contact_c", Type: TypeString},
		{Key: "deal", Column: "deal_c", Type: TypeString},
		{Key: "quoteDate", Column: "quote_date_c", Type: TypeDate},
		{Key: "status", Column: "status_c", Type: TypeString, Default: "Draft"},
		{Key: "deliveryMethod", Column: "delivery_method_c", Type: TypeString},
		{Key: "expiresOn", Column: "expires_on_c", Type: TypeDate},
		{Key: "billingAddress", Column: "billing_address_c", Type: TypeObject},
		{Key: "shippingAddress", Column: "shipping_address_c", Type: TypeObject},
	},
	SearchFields: []string{"name", "company", "contact", "deal", "status"},
}

var SalesOrders = Entity{
	Name:  "sales order",
	Table: "sales_orders_c",
	Fields: []Field{
		{Key: "name", Column: "Name", Type: TypeString, Required: true},
		{Key: "tags", Column: "Tags", Type: TypeTags, Default: []string{}},
		{Key: "orderNumber", Column: "order_number_c", Type: TypeString},
		{Key: "orderDate", Column: "order_date_c", Type: TypeDate},
		{Key: "customerName", Column: "customer_name_c", Type: TypeString},
		{Key: "totalAmount", Column: "total_amount_c", Type: TypeNumber, Default: 0},
		{Key: "status", Column: "status_c", Type: TypeString, Default: "Draft"},
	},
	SearchFields: []string{"name", "orderNumber", "customerName", "status"},
}

var Activities = Entity{
	Name:  "activity",
	Table: "activity_c",
	Fields: []Field{
		{Key: "type", Column: "type_c", Type: TypeString, Required: true},
		{Key: "description", Column: "description_c", Type: TypeString},
		{Key: "contactId", Column: "contact_id_c", Type: TypeReference},
		{Key: "dealId", Column: "deal_id_c", Type: TypeReference},
		{Key: "date", Column: "date_c", Type: TypeDateTime},
	},
	SearchFields: []string{"description", "type"},
}

// All lists every collection schema in a stable order.
func All() []Entity {
	return []Entity{Contacts, Companies, Deals, Quotes, SalesOrders, Activities}
}
