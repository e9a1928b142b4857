package dto

// CreateDonationRequest is the body for POST /payments/donations
type CreateDonationRequest struct {
	SponsorshipID string  `json:"sponsorshipId" binding:"omitempty,uuid"`
	Amount        float64 `json:"amount" example:"50"`
}

// DonationStats summarises the caller's giving
type DonationStats struct {
	TotalAmount   float64 `json:"totalAmount" example:"150"`
	DonationCount int64   `json:"donationCount" example:"3"`
	StudentCount  int64   `json:"studentCount" example:"2"`
}
