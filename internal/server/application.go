package server

import (
	"net/http"
	"strings"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) SubmitApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req appdomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.Submit(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) ListMyApplications(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.appSvc.ListMine(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) ListApplications(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var query struct {
		pagination.Pagination
		Status      string `form:"status"`
		Priority    string `form:"priority"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.appSvc.List(c.Request.Context(), actor, appdomain.ListRequest{
		Status:      strings.TrimSpace(query.Status),
		Priority:    strings.TrimSpace(query.Priority),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
		Pagination:  query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) GetApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.appSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) ApplicationHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.appSvc.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) TransitionApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req appdomain.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.appSvc.TransitionStatus(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

type approveRequest struct {
	Priority string `json:"priority"`
}

func (s *Server) ApproveApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req approveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.Approve(c.Request.Context(), actor, c.Param("id"), req.Priority)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RejectApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req rejectRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

type activateRequest struct {
	MeterNumber string `json:"meter_number"`
}

func (s *Server) ActivateApplication(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.Activate(c.Request.Context(), actor, c.Param("id"), req.MeterNumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// bindOptionalJSON binds a body when one is present.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
