package dto

// CreateSponsorshipRequest is the body for POST /sponsorships
type CreateSponsorshipRequest struct {
	StudentID string `json:"studentId" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	StartDate string `json:"startDate" example:"2024-01-01"`
}

func (r CreateSponsorshipRequest) MissingFields() bool {
	return blank(r.StudentID, r.StartDate)
}

// UpdateSponsorshipStatusRequest is the body for PATCH /sponsorships/:id/status
type UpdateSponsorshipStatusRequest struct {
	Status string `json:"status" example:"Paused"`
}
