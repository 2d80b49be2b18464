package server

import (
	"net/http"

	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

// EstimateBill is public; the route is rate limited per client address.
func (s *Server) EstimateBill(c *gin.Context) {
	var req billingdomain.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Estimate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) CreateBill(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req billingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Create(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) GetBill(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.billingSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) BillStatement(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	html, err := s.billingSvc.Statement(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) ListApplicationBills(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.billingSvc.ListByApplication(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

type markPaidRequest struct {
	PaymentReference string `json:"payment_reference"`
}

func (s *Server) MarkBillPaid(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req markPaidRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.MarkPaid(c.Request.Context(), actor, c.Param("id"), req.PaymentReference)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) ApplyLateFee(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req billingdomain.LateFeeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.BillID = c.Param("id")

	resp, err := s.billingSvc.ApplyLateFee(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) BillingSummary(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	start, end, err := dateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billingSvc.Summary(c.Request.Context(), actor, start, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}
