package projects

import (
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
)

var (
	ErrClientNameRequired = errors.New("client_name is required")
	ErrInvalidStatus      = errors.New("status must be one of " + strings.Join(models.ProjectStatuses, ", "))
	ErrInvalidDate        = errors.New("dates must be formatted as YYYY-MM-DD")
)

// --- DTOs ---

type CreateProjectRequest struct {
	ClientName       string `json:"client_name"`
	Contact          string `json:"contact"`
	Requirements     string `json:"requirements"`
	FeaturesRequired string `json:"features_required"`
	FirstPaymentDate string `json:"first_payment_date"`
	FinalPaymentDate string `json:"final_payment_date"`
	DeliveryDate     string `json:"delivery_date"`
	Status           string `json:"status"`
}

func (r CreateProjectRequest) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return ErrClientNameRequired
	}
	if !models.OneOf(r.Status, models.ProjectStatuses) {
		return ErrInvalidStatus
	}
	for _, d := range []string{r.FirstPaymentDate, r.FinalPaymentDate, r.DeliveryDate} {
		if !validDate(d) {
			return ErrInvalidDate
		}
	}
	return nil
}

func (r CreateProjectRequest) Project() *models.Project {
	return &models.Project{
		ClientName:       strings.TrimSpace(r.ClientName),
		Contact:          r.Contact,
		Requirements:     r.Requirements,
		FeaturesRequired: r.FeaturesRequired,
		FirstPaymentDate: r.FirstPaymentDate,
		FinalPaymentDate: r.FinalPaymentDate,
		DeliveryDate:     r.DeliveryDate,
		Status:           r.Status,
	}
}

type UpdateProjectRequest struct {
	ClientName       *string `json:"client_name"`
	Contact          *string `json:"contact"`
	Requirements     *string `json:"requirements"`
	FeaturesRequired *string `json:"features_required"`
	FirstPaymentDate *string `json:"first_payment_date"`
	FinalPaymentDate *string `json:"final_payment_date"`
	DeliveryDate     *string `json:"delivery_date"`
	Status           *string `json:"status"`
}

// Fields validates the request and returns the columns it sets.
func (r UpdateProjectRequest) Fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if r.ClientName != nil {
		name := strings.TrimSpace(*r.ClientName)
		if name == "" {
			return nil, ErrClientNameRequired
		}
		fields["client_name"] = name
	}
	if r.Contact != nil {
		fields["contact"] = *r.Contact
	}
	if r.Requirements != nil {
		fields["requirements"] = *r.Requirements
	}
	if r.FeaturesRequired != nil {
		fields["features_required"] = *r.FeaturesRequired
	}
	dates := map[string]*string{
		"first_payment_date": r.FirstPaymentDate,
		"final_payment_date": r.FinalPaymentDate,
		"delivery_date":      r.DeliveryDate,
	}
	for col, d := range dates {
		if d == nil {
			continue
		}
		if !validDate(*d) {
			return nil, ErrInvalidDate
		}
		fields[col] = *d
	}
	if r.Status != nil {
		if !models.OneOf(*r.Status, models.ProjectStatuses) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *r.Status
	}
	return fields, nil
}

// Empty dates are allowed; anything else must be a calendar date.
func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
