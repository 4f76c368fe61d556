package controllers

import (
	"net/http"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/services"
	"github.com/datescare/amora-be/websocket"
	"github.com/gin-gonic/gin"
)

type MatchController struct {
	matchService *services.MatchService
}

func NewMatchController() *MatchController {
	return &MatchController{
		matchService: services.NewMatchService(),
	}
}

type LikeRequest struct {
	TargetID uint `json:"target_id" binding:"required"`
}

func (mc *MatchController) Like(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := mc.matchService.Like(userID.(uint), req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if match != nil {
		mc.announceMatch(c, userID.(uint), req.TargetID, match)
	}

	c.JSON(http.StatusOK, gin.H{
		"matched": match != nil,
		"match":   match,
	})
}

func (mc *MatchController) GetMatches(c *gin.Context) {
	userID, _ := c.Get("user_id")

	matches, err := mc.matchService.GetMatches(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (mc *MatchController) announceMatch(c *gin.Context, userID, targetID uint, match *models.Match) {
	var user, target models.User
	config.DB.First(&user, userID)
	config.DB.First(&target, targetID)

	if config.WSHub != nil {
		config.WSHub.SendToUser(userID, websocket.EventMatchCreated, websocket.MatchEvent{
			MatchID: match.ID, PartnerID: targetID, PartnerName: target.Name,
		})
		config.WSHub.SendToUser(targetID, websocket.EventMatchCreated, websocket.MatchEvent{
			MatchID: match.ID, PartnerID: userID, PartnerName: user.Name,
		})
	}
	services.DefaultNotifier.Publish(c.Request.Context(), services.NotifyMatchCreated, websocket.MatchEvent{
		MatchID: match.ID, PartnerID: targetID, PartnerName: target.Name,
	})
}
