package dto

// CreateStudentRequest is the body for POST /students and each item of
// POST /students/multiple
type CreateStudentRequest struct {
	Name       string     `json:"name" example:"Amani Otieno"`
	Age        FlexString `json:"age" swaggertype:"string" example:"12"`
	Gender     string     `json:"gender" example:"Female"`
	Address    string     `json:"address" example:"12 Lake Rd"`
	Phone      string     `json:"phone" example:"+254700000000"`
	Email      string     `json:"email" example:"amani@example.org"`
	ParentName string     `json:"parentName" example:"Grace Otieno"`
	SchoolID   string     `json:"schoolId" binding:"omitempty,uuid" example:"8d7f0f1e-3b8c-4b7a-9a57-0d1f0a9b8c11"`
	UserID     string     `json:"userId,omitempty" binding:"omitempty,uuid"`
}

func (r CreateStudentRequest) MissingFields() bool {
	return blank(r.Name, r.Age.String(), r.Gender, r.Address, r.Phone, r.Email, r.ParentName, r.SchoolID)
}

// UpdateStudentRequest carries only the fields to change
type UpdateStudentRequest struct {
	Name       *string     `json:"name,omitempty"`
	Age        *FlexString `json:"age,omitempty" swaggertype:"string"`
	Gender     *string     `json:"gender,omitempty"`
	Address    *string     `json:"address,omitempty"`
	Phone      *string     `json:"phone,omitempty"`
	Email      *string     `json:"email,omitempty"`
	ParentName *string     `json:"parentName,omitempty"`
	SchoolID   *string     `json:"schoolId,omitempty" binding:"omitempty,uuid"`
}

// Changes returns the column updates for the provided, non-empty fields.
// school_id is left to the caller, which has to check the school exists.
func (r UpdateStudentRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setIfProvided(changes, "name", r.Name)
	if r.Age != nil && r.Age.String() != "" {
		changes["age"] = r.Age.String()
	}
	setIfProvided(changes, "gender", r.Gender)
	setIfProvided(changes, "address", r.Address)
	setIfProvided(changes, "phone", r.Phone)
	setIfProvided(changes, "email", r.Email)
	setIfProvided(changes, "parent_name", r.ParentName)
	return changes
}
