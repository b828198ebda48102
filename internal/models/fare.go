package models

import (
	"errors"
	"fmt"

	"golang.org/x/text/currency"
)

type FareType string

const (
	FareStandard   FareType = "standard"
	FareConcession FareType = "concession"
	FareStudent    FareType = "student"
	FareSenior     FareType = "senior"
	FareChild      FareType = "child"
	FareOther      FareType = "other"
)

func (f FareType) Valid() bool {
	switch f {
	case FareStandard, FareConcession, FareStudent, FareSenior, FareChild, FareOther:
		return true
	}
	return false
}

// Fare is a price published for a schedule. Departures reference fares by id.
type Fare struct {
	ID          string   `json:"id"`
	ScheduleID  string   `json:"scheduleId,omitempty"`
	Name        string   `json:"name"`
	FareType    FareType `json:"fareType"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Description string   `json:"description,omitempty"`
}

func (f *Fare) Validate() error {
	if f.ScheduleID == "" {
		return errors.New("scheduleId is required")
	}
	if f.Name == "" {
		return errors.New("name is required")
	}
	if f.FareType == "" {
		f.FareType = FareStandard
	}
	if !f.FareType.Valid() {
		return fmt.Errorf("unknown fare type %q", f.FareType)
	}
	if f.Price < 0 {
		return errors.New("price must be non-negative")
	}
	if f.Currency == "" {
		f.Currency = "USD"
	}
	if _, err := currency.ParseISO(f.Currency); err != nil {
		return fmt.Errorf("unknown currency %q", f.Currency)
	}
	return nil
}

// FormatPrice renders a price with its currency code, e.g. "USD 2.50".
func FormatPrice(price float64, currencyCode string) string {
	return fmt.Sprintf("%s %.2f", currencyCode, price)
}
