// Package lifecycle moves records forward through the pipeline:
// lead → project → support client.
//
// Each conversion is two sequential store calls (insert into the next table,
// then retire the source). The second call runs only if the first succeeded,
// and a failure of the second call is reported as a *TransitionError without
// any compensating action.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/google/uuid"
)

const (
	TransitionLeadToProject    = "lead_to_project"
	TransitionProjectToSupport = "project_to_support"

	StepDeleteLead      = "delete lead"
	StepCompleteProject = "complete project"

	DefaultRequirements     = "Website development project"
	DefaultFeaturesRequired = "Responsive design, CMS integration, SEO optimization"
	DefaultSupportFeedback  = "Great project delivery, looking forward to ongoing support"

	dateLayout = "2006-01-02"
)

type Engine struct {
	leads    *store.LeadStore
	projects *store.ProjectStore
	support  *store.SupportClientStore
	locker   Locker
	now      func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now; conversions use the UTC calendar date of it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLocker(l Locker) Option {
	return func(e *Engine) { e.locker = l }
}

func NewEngine(leads *store.LeadStore, projects *store.ProjectStore, support *store.SupportClientStore, opts ...Option) *Engine {
	e := &Engine{
		leads:    leads,
		projects: projects,
		support:  support,
		locker:   NewMemoryLocker(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConvertLeadToProject creates a planning-stage project from the lead and
// then deletes the lead.
func (e *Engine) ConvertLeadToProject(ctx context.Context, sess *session.Session, leadID uuid.UUID) (*models.Project, error) {
	release, err := e.acquire(ctx, TransitionLeadToProject, leadID)
	if err != nil {
		return nil, err
	}
	defer release()

	lead, err := e.leads.Get(ctx, sess.UserID, leadID)
	if err != nil {
		metrics.ObserveTransition(TransitionLeadToProject, metrics.OutcomeError)
		return nil, err
	}

	project := ProjectFromLead(lead, e.today())
	if err := e.projects.Create(ctx, sess.UserID, project); err != nil {
		metrics.ObserveTransition(TransitionLeadToProject, metrics.OutcomeError)
		return nil, fmt.Errorf("create project from lead: %w", err)
	}

	if err := e.leads.Delete(ctx, sess.UserID, lead.ID); err != nil {
		metrics.ObserveTransition(TransitionLeadToProject, metrics.OutcomePartial)
		return project, &TransitionError{
			Transition: TransitionLeadToProject,
			Step:       StepDeleteLead,
			CreatedID:  project.ID,
			SourceID:   lead.ID,
			Err:        err,
		}
	}

	metrics.ObserveTransition(TransitionLeadToProject, metrics.OutcomeOK)
	slog.Info("lead converted to project", "user_id", sess.UserID.String(), "lead_id", lead.ID.String(), "project_id", project.ID.String())
	return project, nil
}

// ConvertProjectToSupportClient creates a standard-plan support client from
// the project and marks the project completed. The project row is kept.
func (e *Engine) ConvertProjectToSupportClient(ctx context.Context, sess *session.Session, projectID uuid.UUID) (*models.SupportClient, error) {
	release, err := e.acquire(ctx, TransitionProjectToSupport, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	project, err := e.projects.Get(ctx, sess.UserID, projectID)
	if err != nil {
		metrics.ObserveTransition(TransitionProjectToSupport, metrics.OutcomeError)
		return nil, err
	}

	client := SupportClientFromProject(project, e.today())
	if err := e.support.Create(ctx, sess.UserID, client); err != nil {
		metrics.ObserveTransition(TransitionProjectToSupport, metrics.OutcomeError)
		return nil, fmt.Errorf("create support client from project: %w", err)
	}

	if _, err := e.projects.UpdateStatus(ctx, sess.UserID, project.ID, models.ProjectStatusCompleted); err != nil {
		metrics.ObserveTransition(TransitionProjectToSupport, metrics.OutcomePartial)
		return client, &TransitionError{
			Transition: TransitionProjectToSupport,
			Step:       StepCompleteProject,
			CreatedID:  client.ID,
			SourceID:   project.ID,
			Err:        err,
		}
	}

	metrics.ObserveTransition(TransitionProjectToSupport, metrics.OutcomeOK)
	slog.Info("project moved to support", "user_id", sess.UserID.String(), "project_id", project.ID.String(), "support_client_id", client.ID.String())
	return client, nil
}

func (e *Engine) acquire(ctx context.Context, transition string, id uuid.UUID) (func(), error) {
	key := transition + ":" + id.String()
	token, ok, err := e.locker.TryLock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("acquire transition lock: %w", err)
	}
	if !ok {
		metrics.ObserveTransition(transition, metrics.OutcomeBusy)
		return nil, ErrTransitionInProgress
	}
	return func() {
		// The request context may already be cancelled; the lock must still go.
		if err := e.locker.Unlock(context.Background(), key, token); err != nil {
			slog.Warn("failed to release transition lock", "key", key, "error", err)
		}
	}, nil
}

func (e *Engine) today() time.Time {
	t := e.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProjectFromLead builds the project a lead converts into.
func ProjectFromLead(lead *models.Lead, today time.Time) *models.Project {
	return &models.Project{
		ClientName:       lead.Name,
		Contact:          lead.Phone,
		Requirements:     DefaultRequirements,
		FeaturesRequired: DefaultFeaturesRequired,
		FirstPaymentDate: today.Format(dateLayout),
		FinalPaymentDate: today.AddDate(0, 0, 30).Format(dateLayout),
		DeliveryDate:     today.AddDate(0, 0, 45).Format(dateLayout),
		Status:           models.ProjectStatusPlanning,
	}
}

// SupportClientFromProject builds the support client a project graduates into.
func SupportClientFromProject(project *models.Project, today time.Time) *models.SupportClient {
	return &models.SupportClient{
		ClientName:  project.ClientName,
		Website:     PlaceholderWebsite(project.ClientName),
		SupportPlan: models.SupportPlanStandard,
		StartDate:   today.Format(dateLayout),
		RenewalDate: today.AddDate(0, 0, 365).Format(dateLayout),
		Feedback:    DefaultSupportFeedback,
	}
}

// PlaceholderWebsite derives https://<name>.com from a client name, lowercased
// with all whitespace removed.
func PlaceholderWebsite(clientName string) string {
	host := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, clientName)
	return "https://" + host + ".com"
}
