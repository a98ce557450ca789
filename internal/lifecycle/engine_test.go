package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	leads    *store.LeadStore
	projects *store.ProjectStore
	support  *store.SupportClientStore
	engine   *lifecycle.Engine
	sess     *session.Session
}

func newFixture(t *testing.T, opts ...lifecycle.Option) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		leads:    store.NewLeadStore(db),
		projects: store.NewProjectStore(db),
		support:  store.NewSupportClientStore(db),
		sess:     &session.Session{UserID: uuid.New(), Email: "owner@example.com"},
	}
	f.engine = lifecycle.NewEngine(f.leads, f.projects, f.support, opts...)
	return f
}

func fixedClock(y int, m time.Month, d int) lifecycle.Option {
	return lifecycle.WithClock(func() time.Time {
		return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
	})
}

func TestConvertLeadToProject(t *testing.T) {
	f := newFixture(t, fixedClock(2025, time.January, 20))
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme", Phone: "555-1111", CallStatus: models.CallStatusInterested}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	project, err := f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	require.NoError(t, err)

	leads, err := f.leads.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Empty(t, leads)

	projects, err := f.projects.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	got := projects[0]
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, "Acme", got.ClientName)
	assert.Equal(t, "555-1111", got.Contact)
	assert.Equal(t, models.ProjectStatusPlanning, got.Status)
	assert.Equal(t, lifecycle.DefaultRequirements, got.Requirements)
	assert.Equal(t, lifecycle.DefaultFeaturesRequired, got.FeaturesRequired)
	assert.Equal(t, "2025-01-20", got.FirstPaymentDate)
	assert.Equal(t, "2025-02-19", got.FinalPaymentDate)
	assert.Equal(t, "2025-03-06", got.DeliveryDate)
}

func TestProjectFromLeadDateArithmetic(t *testing.T) {
	tests := []struct {
		name         string
		today        time.Time
		finalPayment string
		delivery     string
	}{
		{"january into march", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), "2025-02-19", "2025-03-06"},
		{"leap year february", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "2024-02-19", "2024-03-05"},
		{"year boundary", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "2025-12-31", "2026-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := lifecycle.ProjectFromLead(&models.Lead{Name: "x"}, tt.today)
			assert.Equal(t, tt.today.Format("2006-01-02"), p.FirstPaymentDate)
			assert.Equal(t, tt.finalPayment, p.FinalPaymentDate)
			assert.Equal(t, tt.delivery, p.DeliveryDate)
		})
	}
}

func TestConvertLeadUsesUTCDate(t *testing.T) {
	east := time.FixedZone("UTC+10", 10*3600)
	f := newFixture(t, lifecycle.WithClock(func() time.Time {
		// 2025-01-21 06:00 local is still 2025-01-20 in UTC.
		return time.Date(2025, 1, 21, 6, 0, 0, 0, east)
	}))
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme"}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	project, err := f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-20", project.FirstPaymentDate)
}

func TestConvertMissingLead(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.ConvertLeadToProject(context.Background(), f.sess, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConvertForeignLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := &models.Lead{Name: "Someone else's"}
	require.NoError(t, f.leads.Create(ctx, uuid.New(), lead))

	_, err := f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	projects, err := f.projects.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSecondConvertAfterFirstFindsNoLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme"}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	_, err := f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	require.NoError(t, err)
	_, err = f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	projects, err := f.projects.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestConcurrentConvertsCreateOneProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme"}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	const clicks = 8
	var wg sync.WaitGroup
	errs := make([]error, clicks)
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			errors.Is(err, lifecycle.ErrTransitionInProgress) || errors.Is(err, store.ErrNotFound),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	projects, err := f.projects.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestConvertLockedLeadIsRejected(t *testing.T) {
	locker := lifecycle.NewMemoryLocker()
	f := newFixture(t, lifecycle.WithLocker(locker))
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme"}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	token, ok, err := locker.TryLock(ctx, lifecycle.TransitionLeadToProject+":"+lead.ID.String())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	assert.ErrorIs(t, err, lifecycle.ErrTransitionInProgress)

	require.NoError(t, locker.Unlock(ctx, lifecycle.TransitionLeadToProject+":"+lead.ID.String(), token))
	_, err = f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	assert.NoError(t, err)
}

func TestConvertLeadPartialFailureKeepsBothRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := &models.Lead{Name: "Acme", Phone: "555"}
	require.NoError(t, f.leads.Create(ctx, f.sess.UserID, lead))

	require.NoError(t, f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_lead_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "leads" {
			_ = tx.AddError(errors.New("permission denied"))
		}
	}))

	project, err := f.engine.ConvertLeadToProject(ctx, f.sess, lead.ID)
	var terr *lifecycle.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, lifecycle.StepDeleteLead, terr.Step)
	assert.Equal(t, lead.ID, terr.SourceID)
	require.NotNil(t, project)
	assert.Equal(t, project.ID, terr.CreatedID)

	leads, err := f.leads.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	projects, err := f.projects.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestConvertProjectToSupportClient(t *testing.T) {
	f := newFixture(t, fixedClock(2025, time.March, 1))
	ctx := context.Background()

	project := &models.Project{ClientName: "Big Corp  Ltd", Contact: "555", Status: models.ProjectStatusInProgress}
	require.NoError(t, f.projects.Create(ctx, f.sess.UserID, project))

	client, err := f.engine.ConvertProjectToSupportClient(ctx, f.sess, project.ID)
	require.NoError(t, err)

	kept, err := f.projects.Get(ctx, f.sess.UserID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusCompleted, kept.Status)
	assert.Equal(t, "555", kept.Contact)

	clients, err := f.support.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	got := clients[0]
	assert.Equal(t, client.ID, got.ID)
	assert.Equal(t, "Big Corp  Ltd", got.ClientName)
	assert.Equal(t, "https://bigcorpltd.com", got.Website)
	assert.Equal(t, models.SupportPlanStandard, got.SupportPlan)
	assert.Equal(t, "2025-03-01", got.StartDate)
	assert.Equal(t, "2026-03-01", got.RenewalDate)
	assert.Equal(t, lifecycle.DefaultSupportFeedback, got.Feedback)
}

func TestConvertProjectPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := &models.Project{ClientName: "Acme", Status: models.ProjectStatusPlanning}
	require.NoError(t, f.projects.Create(ctx, f.sess.UserID, project))

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_project_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "projects" {
			_ = tx.AddError(errors.New("network down"))
		}
	}))

	client, err := f.engine.ConvertProjectToSupportClient(ctx, f.sess, project.ID)
	var terr *lifecycle.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, lifecycle.StepCompleteProject, terr.Step)
	require.NotNil(t, client)

	kept, err := f.projects.Get(ctx, f.sess.UserID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPlanning, kept.Status)

	clients, err := f.support.List(ctx, f.sess.UserID)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestPlaceholderWebsite(t *testing.T) {
	assert.Equal(t, "https://acme.com", lifecycle.PlaceholderWebsite("Acme"))
	assert.Equal(t, "https://joe'sbakery.com", lifecycle.PlaceholderWebsite(" Joe's\tBakery "))
}
