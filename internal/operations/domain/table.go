package domain

import (
	"strconv"
	"time"

	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
)

// Table flattens a report into a header and rows for tabular export.
func (r Report) Table() ([]string, [][]string) {
	switch r.Kind {
	case ReportApplications:
		header := []string{"id", "customer_id", "connection_type", "city", "status", "priority", "expected_completion_date", "created_at"}
		var rows [][]string
		if r.Applications != nil {
			for _, app := range r.Applications.Items {
				rows = append(rows, []string{
					app.ID.String(),
					app.CustomerID.String(),
					app.ConnectionType,
					app.City,
					string(app.Status),
					string(app.Priority),
					app.ExpectedCompletionDate.UTC().Format("2006-01-02"),
					app.CreatedAt.UTC().Format(time.RFC3339),
				})
			}
		}
		return header, rows
	case ReportRevenue:
		header := []string{"metric", "value"}
		if r.Revenue == nil {
			return header, nil
		}
		rows := [][]string{
			{"total_bills", strconv.FormatInt(r.Revenue.TotalBills, 10)},
			{"gross_revenue", r.Revenue.GrossRevenue.StringFixed(2)},
			{"collected_amount", r.Revenue.CollectedAmount.StringFixed(2)},
		}
		for _, status := range billingdomain.AllBillStatuses {
			rows = append(rows, []string{"bills_" + string(status), strconv.FormatInt(r.Revenue.ByStatus[status], 10)})
		}
		return header, rows
	case ReportTasks:
		header := []string{"metric", "value"}
		if r.Tasks == nil {
			return header, nil
		}
		return header, [][]string{
			{"total", strconv.FormatInt(r.Tasks.Total, 10)},
			{"completed", strconv.FormatInt(r.Tasks.Completed, 10)},
			{"pending", strconv.FormatInt(r.Tasks.Pending, 10)},
			{"in_progress", strconv.FormatInt(r.Tasks.InProgress, 10)},
			{"average_estimated_duration", strconv.FormatFloat(r.Tasks.AverageEstimatedDuration, 'f', 2, 64)},
		}
	}
	return nil, nil
}
