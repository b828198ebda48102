package models

import "errors"

type PublicHoliday struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (h *PublicHoliday) Validate() error {
	if h.Date.IsZero() {
		return errors.New("date is required")
	}
	if h.Title == "" {
		return errors.New("title is required")
	}
	return nil
}
