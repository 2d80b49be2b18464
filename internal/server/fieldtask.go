package server

import (
	"net/http"

	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) AssignTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ApplicationID = c.Param("id")

	resp, err := s.taskSvc.Assign(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) AutoAssignTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.AssignRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ApplicationID = c.Param("id")
	req.StaffID = ""

	resp, err := s.taskSvc.AutoAssign(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) ListMyTasks(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.taskSvc.ListForStaff(c.Request.Context(), actor, c.Query("staff_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) ListPendingTasks(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.taskSvc.ListPending(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) TaskStats(c *gin.Context) {
	resp, err := s.taskSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) GetTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.taskSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) UpdateTaskStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TaskID = c.Param("id")

	resp, err := s.taskSvc.UpdateStatus(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) UpdateTaskLocation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, taskdomain.ErrInvalidCoordinates)
		return
	}
	req.TaskID = c.Param("id")

	resp, err := s.taskSvc.UpdateLocation(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

type attachProofRequest struct {
	ProofPhotoURL string `json:"proof_photo_url"`
}

func (s *Server) AttachTaskProof(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req attachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.AttachProof(c.Request.Context(), actor, c.Param("id"), req.ProofPhotoURL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) CompleteTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.CompleteRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TaskID = c.Param("id")

	resp, err := s.taskSvc.Complete(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) RegisterStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req taskdomain.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.RegisterStaff(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) ListStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.taskSvc.ListStaff(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) StaffMetrics(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	days, err := parseOptionalInt(c.Query("days"))
	if err != nil {
		AbortWithError(c, newValidationError("days", "invalid_days", "days must be a number"))
		return
	}

	resp, err := s.taskSvc.StaffMetrics(c.Request.Context(), actor, c.Param("id"), days)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}
