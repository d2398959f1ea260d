package entity

// Price is a recurring price resolved from its lookup key.
type Price struct {
	ID          string
	LookupKey   string
	Currency    string
	UnitAmount  int64 // minor units
	Interval    string
	ProductName string
}

// PriceView is the public representation of a price with the amount in major units.
type PriceView struct {
	ID         string `json:"id"`
	LookupKey  string `json:"lookup_key"`
	Currency   string `json:"currency"`
	UnitAmount string `json:"unit_amount"`
	Interval   string `json:"interval,omitempty"`
	Product    string `json:"product,omitempty"`
}
