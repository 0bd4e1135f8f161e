package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/repository"
)

// ReportService aggregates the dashboard figures. Nothing is cached or
// maintained incrementally; every call recomputes from current store state.
type ReportService struct {
	customers     repository.CustomerRepository
	opportunities repository.OpportunityRepository
	tasks         repository.TaskRepository
	logger        *logrus.Logger
	now           func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	customers repository.CustomerRepository,
	opportunities repository.OpportunityRepository,
	tasks repository.TaskRepository,
	logger *logrus.Logger,
) *ReportService {
	return &ReportService{
		customers:     customers,
		opportunities: opportunities,
		tasks:         tasks,
		logger:        logger,
		now:           time.Now,
	}
}

// DashboardSummary builds the headline figures for the dashboard: customer
// count, open pipeline size and weighted value, today's pending tasks, the
// per-stage funnel breakdown, done-vs-pending task counts and the overall
// conversion rate.
func (s *ReportService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list customers for dashboard")
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	opps, err := s.opportunities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list opportunities for dashboard")
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tasks for dashboard")
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	pendingToday, err := s.tasks.PendingToday(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list today's pending tasks for dashboard")
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	summary := &models.DashboardSummary{
		TotalCustomers:       int64(len(customers)),
		TasksPendingToday:    int64(len(pendingToday)),
		OpportunitiesByStage: make(map[models.OpportunityStage]int64, len(models.OpportunityStages())),
	}
	for _, stage := range models.OpportunityStages() {
		summary.OpportunitiesByStage[stage] = 0
	}

	won := 0
	for _, opp := range opps {
		summary.OpportunitiesByStage[opp.Stage]++
		if !opp.Stage.IsClosed() {
			summary.OpenOpportunities++
			summary.WeightedOpenValue += opp.WeightedValue()
		}
		if opp.Stage == models.StageWon {
			won++
		}
	}
	if len(opps) > 0 {
		summary.ConversionRate = float64(won) / float64(len(opps)) * 100
	}

	for _, task := range tasks {
		summary.Tasks.Total++
		if task.IsDone() {
			summary.Tasks.Done++
		} else {
			summary.Tasks.Pending++
		}
	}

	return summary, nil
}

// SalesByDay returns the daily totals of Won opportunity value within the
// inclusive date range. When from is after to the result is empty.
func (s *ReportService) SalesByDay(ctx context.Context, from, to time.Time) ([]models.DailySales, error) {
	if from.After(to) {
		return []models.DailySales{}, nil
	}
	sales, err := s.opportunities.SalesByDay(ctx, from, to)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute sales by day")
		return nil, fmt.Errorf("failed to compute sales by day: %w", err)
	}
	return sales, nil
}
