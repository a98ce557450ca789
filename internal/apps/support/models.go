package support

import (
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
)

var (
	ErrClientNameRequired = errors.New("client_name is required")
	ErrInvalidPlan        = errors.New("support_plan must be one of " + strings.Join(models.SupportPlans, ", "))
	ErrInvalidDate        = errors.New("dates must be formatted as YYYY-MM-DD")
)

// --- DTOs ---

type CreateSupportClientRequest struct {
	ClientName  string `json:"client_name"`
	Website     string `json:"website"`
	SupportPlan string `json:"support_plan"`
	StartDate   string `json:"start_date"`
	RenewalDate string `json:"renewal_date"`
	Feedback    string `json:"feedback"`
}

func (r CreateSupportClientRequest) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return ErrClientNameRequired
	}
	if !models.OneOf(r.SupportPlan, models.SupportPlans) {
		return ErrInvalidPlan
	}
	if !validDate(r.StartDate) || !validDate(r.RenewalDate) {
		return ErrInvalidDate
	}
	return nil
}

func (r CreateSupportClientRequest) SupportClient() *models.SupportClient {
	return &models.SupportClient{
		ClientName:  strings.TrimSpace(r.ClientName),
		Website:     r.Website,
		SupportPlan: r.SupportPlan,
		StartDate:   r.StartDate,
		RenewalDate: r.RenewalDate,
		Feedback:    r.Feedback,
	}
}

type UpdateSupportClientRequest struct {
	ClientName  *string `json:"client_name"`
	Website     *string `json:"website"`
	SupportPlan *string `json:"support_plan"`
	StartDate   *string `json:"start_date"`
	RenewalDate *string `json:"renewal_date"`
	Feedback    *string `json:"feedback"`
}

// Fields validates the request and returns the columns it sets.
func (r UpdateSupportClientRequest) Fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if r.ClientName != nil {
		name := strings.TrimSpace(*r.ClientName)
		if name == "" {
			return nil, ErrClientNameRequired
		}
		fields["client_name"] = name
	}
	if r.Website != nil {
		fields["website"] = *r.Website
	}
	if r.SupportPlan != nil {
		if !models.OneOf(*r.SupportPlan, models.SupportPlans) {
			return nil, ErrInvalidPlan
		}
		fields["support_plan"] = *r.SupportPlan
	}
	if r.StartDate != nil {
		if !validDate(*r.StartDate) {
			return nil, ErrInvalidDate
		}
		fields["start_date"] = *r.StartDate
	}
	if r.RenewalDate != nil {
		if !validDate(*r.RenewalDate) {
			return nil, ErrInvalidDate
		}
		fields["renewal_date"] = *r.RenewalDate
	}
	if r.Feedback != nil {
		fields["feedback"] = *r.Feedback
	}
	return fields, nil
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
