package models

// ReferencesModel References model for related data
type ReferencesModel struct {
	Routes    []Route          `json:"routes"`
	TimeInfos []TimeAnnotation `json:"timeInfos"`
	Holidays  []PublicHoliday  `json:"holidays"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Routes:    []Route{},
		TimeInfos: []TimeAnnotation{},
		Holidays:  []PublicHoliday{},
	}
}
