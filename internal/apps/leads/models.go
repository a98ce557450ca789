package leads

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidCallStatus = errors.New("call_status must be one of " + strings.Join(models.CallStatuses, ", "))
)

// --- DTOs ---

type CreateLeadRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Website    string `json:"website"`
	Address    string `json:"address"`
	CallStatus string `json:"call_status"`
}

func (r CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if !models.OneOf(r.CallStatus, models.CallStatuses) {
		return ErrInvalidCallStatus
	}
	return nil
}

func (r CreateLeadRequest) Lead() *models.Lead {
	return &models.Lead{
		Name:       strings.TrimSpace(r.Name),
		Phone:      r.Phone,
		Website:    r.Website,
		Address:    r.Address,
		CallStatus: r.CallStatus,
	}
}

type UpdateLeadRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Website    *string `json:"website"`
	Address    *string `json:"address"`
	CallStatus *string `json:"call_status"`
}

// Fields validates the request and returns the columns it sets.
func (r UpdateLeadRequest) Fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Website != nil {
		fields["website"] = *r.Website
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	if r.CallStatus != nil {
		if !models.OneOf(*r.CallStatus, models.CallStatuses) {
			return nil, ErrInvalidCallStatus
		}
		fields["call_status"] = *r.CallStatus
	}
	return fields, nil
}
