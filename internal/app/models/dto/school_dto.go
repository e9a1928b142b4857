package dto

// CreateSchoolRequest is the body for POST /schools
type CreateSchoolRequest struct {
	Name        string `json:"name" example:"Hillside Primary"`
	Description string `json:"description" example:"Rural primary school"`
	District    string `json:"district" example:"Kisumu"`
	Status      string `json:"status,omitempty" example:"Active"`
}

func (r CreateSchoolRequest) MissingFields() bool {
	return blank(r.Name, r.Description, r.District)
}

// UpdateSchoolRequest carries only the fields to change
type UpdateSchoolRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	District    *string `json:"district,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Changes returns the column updates for the provided, non-empty fields
func (r UpdateSchoolRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setIfProvided(changes, "name", r.Name)
	setIfProvided(changes, "description", r.Description)
	setIfProvided(changes, "district", r.District)
	setIfProvided(changes, "status", r.Status)
	return changes
}

func setIfProvided(changes map[string]interface{}, column string, v *string) {
	if v != nil && *v != "" {
		changes[column] = *v
	}
}
