package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/crm-service/internal/models"
)

func newOpportunityService(repo *MockOpportunityRepository, interactions *MockInteractionRepository) *OpportunityService {
	svc := NewOpportunityService(repo, newTestAudit(interactions), testLogger())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestOpportunityCreate_DefaultsToLead(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	opp := &models.Opportunity{CustomerID: 1, Title: "New ERP deal", Value: 1000, Probability: 30}
	repo.On("Create", mock.Anything, opp).Return(nil)
	interactions.On("Append", mock.Anything, mock.MatchedBy(func(e *models.InteractionLog) bool {
		return e.Kind == models.KindOpportunityCreated && e.CustomerID == 1
	})).Return(nil)

	_, err := svc.Create(context.Background(), opp)
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, opp.Stage)
}

func TestOpportunityCreate_Validation(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	pastDate := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	sameDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		opp   models.Opportunity
		field string
	}{
		{"missing title", models.Opportunity{CustomerID: 1}, "title"},
		{"missing customer", models.Opportunity{Title: "Deal"}, "customerId"},
		{"unknown stage", models.Opportunity{CustomerID: 1, Title: "Deal", Stage: "Frozen"}, "stage"},
		{"negative value", models.Opportunity{CustomerID: 1, Title: "Deal", Value: -1}, "value"},
		{"probability over 100", models.Opportunity{CustomerID: 1, Title: "Deal", Probability: 101}, "probability"},
		{"close date in the past", models.Opportunity{CustomerID: 1, Title: "Deal", ExpectedCloseDate: &pastDate}, "expectedCloseDate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opp := tc.opp
			_, err := svc.Create(context.Background(), &opp)
			verr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	// A close date on the current day is allowed.
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	interactions.On("Append", mock.Anything, mock.Anything).Return(nil)
	_, err := svc.Create(context.Background(), &models.Opportunity{CustomerID: 1, Title: "Deal", ExpectedCloseDate: &sameDay})
	require.NoError(t, err)
}

func TestOpportunityUpdate_LogsOnlyOnStageChange(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	opp := &models.Opportunity{ID: 5, CustomerID: 2, Title: "Renewal", Stage: models.StageProposal, Value: 500}
	repo.On("Update", mock.Anything, opp).Return(models.StageLead, true, nil)
	interactions.On("Append", mock.Anything, mock.MatchedBy(func(e *models.InteractionLog) bool {
		if e.Kind != models.KindOpportunityStageChanged {
			return false
		}
		var meta map[string]string
		if err := json.Unmarshal(e.Metadata, &meta); err != nil {
			return false
		}
		return meta["from"] == "Lead" && meta["to"] == "Proposal"
	})).Return(nil)

	ok, err := svc.Update(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, ok)
	interactions.AssertExpectations(t)
}

func TestOpportunityUpdate_SameStageIsSilent(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	opp := &models.Opportunity{ID: 5, CustomerID: 2, Title: "Renewal", Stage: models.StageProposal}
	repo.On("Update", mock.Anything, opp).Return(models.StageProposal, true, nil)

	ok, err := svc.Update(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, ok)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOpportunityUpdate_MissingRowIsSilent(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	opp := &models.Opportunity{ID: 999, CustomerID: 2, Title: "Gone", Stage: models.StageWon}
	repo.On("Update", mock.Anything, opp).Return(models.OpportunityStage(""), false, nil)

	ok, err := svc.Update(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, ok)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOpportunityUpdate_SkipsProbabilityValidation(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	// Probability out of range passes through update: only title, stage
	// and value are re-checked on this path.
	opp := &models.Opportunity{ID: 5, CustomerID: 2, Title: "Renewal", Stage: models.StageLead, Probability: 250}
	repo.On("Update", mock.Anything, opp).Return(models.StageLead, true, nil)

	ok, err := svc.Update(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpportunityMoveStage_AlwaysLogs(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	// Same-stage move: the log entry is still appended.
	prior := &models.Opportunity{ID: 5, CustomerID: 2, Title: "Renewal", Stage: models.StageWon}
	repo.On("MoveStage", mock.Anything, uint(5), models.StageWon).Return(prior, nil)
	interactions.On("Append", mock.Anything, mock.MatchedBy(func(e *models.InteractionLog) bool {
		return e.Kind == models.KindOpportunityStageChanged && e.CustomerID == 2
	})).Return(nil)

	moved, err := svc.MoveStage(context.Background(), 5, models.StageWon)
	require.NoError(t, err)
	assert.True(t, moved)
	interactions.AssertExpectations(t)
}

func TestOpportunityMoveStage_Missing(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("MoveStage", mock.Anything, uint(404), models.StageLost).Return(nil, nil)

	moved, err := svc.MoveStage(context.Background(), 404, models.StageLost)
	require.NoError(t, err)
	assert.False(t, moved)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOpportunityMoveStage_RejectsUnknownStage(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	_, err := svc.MoveStage(context.Background(), 5, "Archived")
	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "stage", verr.Field)
	repo.AssertNotCalled(t, "MoveStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestTotalWeightedOpenValue_ExcludesClosedStages(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("List", mock.Anything).Return([]models.Opportunity{
		{Stage: models.StageLead, Value: 1000, Probability: 50},
		{Stage: models.StageNegotiation, Value: 2000, Probability: 25},
		{Stage: models.StageWon, Value: 99999, Probability: 100},
		{Stage: models.StageLost, Value: 5000, Probability: 10},
	}, nil)

	total, err := svc.TotalWeightedOpenValue(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, total, 0.001) // 500 + 500
}

func TestConversionRate(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("List", mock.Anything).Return([]models.Opportunity{
		{Stage: models.StageWon},
		{Stage: models.StageLost},
		{Stage: models.StageLead},
		{Stage: models.StageWon},
	}, nil)

	rate, err := svc.ConversionRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rate, 0.001)
}

func TestConversionRate_EmptyPipeline(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("List", mock.Anything).Return([]models.Opportunity{}, nil)

	rate, err := svc.ConversionRate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestOpportunityDelete_LeavesNoTrail(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("Delete", mock.Anything, uint(5)).Return(true, nil)

	deleted, err := svc.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOpportunityList_SurfacesStorageErrors(t *testing.T) {
	repo := new(MockOpportunityRepository)
	interactions := new(MockInteractionRepository)
	svc := newOpportunityService(repo, interactions)

	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.List(context.Background())
	require.Error(t, err)
}
