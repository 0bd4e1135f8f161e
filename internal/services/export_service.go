package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/repository"
)

// ExportService renders entity snapshots as CSV. The column sets are fixed;
// callers receive the file bytes and pick the filename via ExportFilename.
type ExportService struct {
	customers     repository.CustomerRepository
	opportunities repository.OpportunityRepository
	tasks         repository.TaskRepository
	logger        *logrus.Logger
}

// NewExportService creates a new export service
func NewExportService(
	customers repository.CustomerRepository,
	opportunities repository.OpportunityRepository,
	tasks repository.TaskRepository,
	logger *logrus.Logger,
) *ExportService {
	return &ExportService{
		customers:     customers,
		opportunities: opportunities,
		tasks:         tasks,
		logger:        logger,
	}
}

// ExportFilename builds the download name for an export, stamping the
// current time as YYYYMMDD_HHMMSS.
func ExportFilename(entity string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", entity, now.Format("20060102_150405"))
}

// Customers renders every customer as CSV
func (s *ExportService) Customers(ctx context.Context) ([]byte, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list customers for export")
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"ID", "Name", "Email", "Phone", "Company", "Tax ID",
		"Street", "Number", "District", "City", "State", "Postal Code",
		"Notes", "Created At", "Updated At",
	}); err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}

	for _, c := range customers {
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name, c.Email, c.Phone, c.Company, c.TaxID,
			c.Street, c.Number, c.District, c.City, c.State, c.PostalCode,
			c.Notes,
			formatTimestamp(c.CreatedAt),
			formatTimestamp(c.UpdatedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to export customers: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}
	return buf.Bytes(), nil
}

// Opportunities renders every opportunity as CSV
func (s *ExportService) Opportunities(ctx context.Context) ([]byte, error) {
	opps, err := s.opportunities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list opportunities for export")
		return nil, fmt.Errorf("failed to export opportunities: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"ID", "Customer ID", "Title", "Stage", "Value", "Probability",
		"Expected Close Date", "Owner", "Notes", "Created At", "Updated At",
	}); err != nil {
		return nil, fmt.Errorf("failed to export opportunities: %w", err)
	}

	for _, o := range opps {
		closeDate := ""
		if o.ExpectedCloseDate != nil {
			closeDate = o.ExpectedCloseDate.Format("2006-01-02")
		}
		record := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			strconv.FormatUint(uint64(o.CustomerID), 10),
			o.Title, string(o.Stage),
			strconv.FormatFloat(o.Value, 'f', 2, 64),
			strconv.Itoa(o.Probability),
			closeDate, o.Owner, o.Notes,
			formatTimestamp(o.CreatedAt),
			formatTimestamp(o.UpdatedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to export opportunities: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to export opportunities: %w", err)
	}
	return buf.Bytes(), nil
}

// Tasks renders every task as CSV
func (s *ExportService) Tasks(ctx context.Context) ([]byte, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tasks for export")
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"ID", "Customer ID", "Description", "Type", "Scheduled At",
		"Status", "Priority", "Notes", "Created At", "Completed At",
	}); err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}

	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = formatTimestamp(*t.CompletedAt)
		}
		record := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			strconv.FormatUint(uint64(t.CustomerID), 10),
			t.Description, string(t.Type),
			formatTimestamp(t.ScheduledAt),
			string(t.Status), string(t.Priority), t.Notes,
			formatTimestamp(t.CreatedAt),
			completedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to export tasks: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
