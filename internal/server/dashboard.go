package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	operationsdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) DashboardSummary(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.opsSvc.DashboardSummary(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) SystemAlerts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.opsSvc.SystemAlerts(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) Report(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var query struct {
		pagination.Pagination
		StartDate string `form:"start_date"`
		EndDate   string `form:"end_date"`
		Format    string `form:"format"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	start, end, err := dateRange(query.StartDate, query.EndDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.opsSvc.Report(c.Request.Context(), actor, operationsdomain.ReportRequest{
		Kind:       strings.ToLower(strings.TrimSpace(c.Param("kind"))),
		StartDate:  start,
		EndDate:    end,
		Pagination: query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if strings.EqualFold(query.Format, "csv") {
		writeCSV(c, string(resp.Kind)+"_report.csv", resp)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func writeCSV(c *gin.Context, filename string, report operationsdomain.Report) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Status(http.StatusOK)

	header, rows := report.Table()
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(header)
	for _, row := range rows {
		_ = writer.Write(row)
	}
}
