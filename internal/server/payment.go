package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type initiatePaymentRequest struct {
	Provider string `json:"provider"`
}

func (s *Server) InitiatePayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Initiate(c.Request.Context(), actor, c.Param("id"), req.Provider)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp, err := s.paymentSvc.Verify(c.Request.Context(), actor, c.Param("reference"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}
