package controllers

import (
	"errors"
	"net/http"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/services"
	"github.com/datescare/amora-be/websocket"
	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chatService *services.ChatBillingService
}

func NewChatController(chatService *services.ChatBillingService) *ChatController {
	return &ChatController{chatService: chatService}
}

type StartSessionRequest struct {
	PartnerID uint   `json:"partner_id" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=text audio video"`
}

func (cc *ChatController) StartSession(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := cc.chatService.StartSession(userID.(uint), req.PartnerID, models.SessionType(req.Kind))
	if err != nil {
		if errors.Is(err, services.ErrInsufficientFunds) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (cc *ChatController) GetSession(c *gin.Context) {
	userID, _ := c.Get("user_id")

	session, err := cc.chatService.GetSession(c.Param("id"), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (cc *ChatController) EndSession(c *gin.Context) {
	userID, _ := c.Get("user_id")

	session, err := cc.chatService.GetSession(c.Param("id"), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := cc.chatService.EndSession(session.ID, userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := websocket.SessionEvent{
		SessionID:     session.PublicID,
		BilledMinutes: session.BilledMinutes,
		Reason:        "ended by user",
	}
	if config.WSHub != nil {
		config.WSHub.SendToUser(userID.(uint), websocket.EventSessionEnded, event)
	}
	services.DefaultNotifier.Publish(c.Request.Context(), services.NotifySessionEnded, event)

	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}
