package models

import "errors"

// TimeAnnotation is a short symbol attached to departures, such as "c" for
// wheelchair accessible services.
type TimeAnnotation struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

func (a *TimeAnnotation) Validate() error {
	if a.Symbol == "" {
		return errors.New("symbol is required")
	}
	return nil
}
