package models

import "github.com/shopspring/decimal"

// eliteDiscount is the flat multiplier elite members receive on the basket
// subtotal before tax.
var eliteDiscount = decimal.NewFromFloat(0.1)

// Customer is the basket owner. Elite membership unlocks a flat discount.
type Customer struct {
	id            CustomerID
	isEliteMember bool
}

// NewCustomer constructs a Customer. A zero id is replaced with a generated one.
func NewCustomer(id CustomerID, isEliteMember bool) Customer {
	if id.IsZero() {
		id = NewCustomerID()
	}
	return Customer{id: id, isEliteMember: isEliteMember}
}

// ID returns the customer identifier.
func (c Customer) ID() CustomerID { return c.id }

// IsEliteMember reports whether the customer has elite status.
func (c Customer) IsEliteMember() bool { return c.isEliteMember }

// DiscountPercentage returns 0.1 for elite members and 0 otherwise.
func (c Customer) DiscountPercentage() decimal.Decimal {
	if c.isEliteMember {
		return eliteDiscount
	}
	return decimal.Zero
}
