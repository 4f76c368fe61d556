package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/datescare/amora-be/services"
	"github.com/gin-gonic/gin"
)

// StaffController covers the staff console: staff file credit award and
// resettlement requests, admins review them.
type StaffController struct {
	staffService *services.StaffService
}

func NewStaffController() *StaffController {
	return &StaffController{
		staffService: services.NewStaffService(),
	}
}

type CreateAccessRequestRequest struct {
	TargetUserID uint   `json:"target_user_id" binding:"required"`
	Amount       int    `json:"amount" binding:"required,min=1"`
	Reason       string `json:"reason" binding:"required"`
}

func (sc *StaffController) CreateAccessRequest(c *gin.Context) {
	staffID, _ := c.Get("user_id")

	var req CreateAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := sc.staffService.CreateAccessRequest(staffID.(uint), req.TargetUserID, req.Amount, req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request submitted for review",
		"request": request,
	})
}

type CreateResettlementRequestRequest struct {
	TargetUserID uint   `json:"target_user_id" binding:"required"`
	Amount       int    `json:"amount" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

func (sc *StaffController) CreateResettlementRequest(c *gin.Context) {
	staffID, _ := c.Get("user_id")

	var req CreateResettlementRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := sc.staffService.CreateResettlementRequest(staffID.(uint), req.TargetUserID, req.Amount, req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request submitted for review",
		"request": request,
	})
}

func (sc *StaffController) GetMyAccessRequests(c *gin.Context) {
	staffID, _ := c.Get("user_id")

	requests, err := sc.staffService.AccessRequestsByStaff(staffID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (sc *StaffController) GetPendingAccessRequests(c *gin.Context) {
	requests, err := sc.staffService.PendingAccessRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (sc *StaffController) GetPendingResettlementRequests(c *gin.Context) {
	requests, err := sc.staffService.PendingResettlementRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (sc *StaffController) reviewIDs(c *gin.Context) (requestID, adminID uint, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return 0, 0, false
	}
	admin, _ := c.Get("user_id")
	return uint(id), admin.(uint), true
}

func (sc *StaffController) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRequestNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (sc *StaffController) ApproveAccessRequest(c *gin.Context) {
	requestID, adminID, ok := sc.reviewIDs(c)
	if !ok {
		return
	}
	if err := sc.staffService.ApproveAccessRequest(requestID, adminID); err != nil {
		sc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request approved, credits awarded"})
}

func (sc *StaffController) DenyAccessRequest(c *gin.Context) {
	requestID, adminID, ok := sc.reviewIDs(c)
	if !ok {
		return
	}
	if err := sc.staffService.DenyAccessRequest(requestID, adminID); err != nil {
		sc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request denied"})
}

func (sc *StaffController) ApproveResettlementRequest(c *gin.Context) {
	requestID, adminID, ok := sc.reviewIDs(c)
	if !ok {
		return
	}
	if err := sc.staffService.ApproveResettlementRequest(requestID, adminID); err != nil {
		sc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request approved, balance adjusted"})
}

func (sc *StaffController) DenyResettlementRequest(c *gin.Context) {
	requestID, adminID, ok := sc.reviewIDs(c)
	if !ok {
		return
	}
	if err := sc.staffService.DenyResettlementRequest(requestID, adminID); err != nil {
		sc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request denied"})
}
