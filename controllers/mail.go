package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/services"
	"github.com/datescare/amora-be/websocket"
	"github.com/gin-gonic/gin"
)

type MailController struct {
	mailService *services.MailService
	rateLimiter *services.RateLimiter
}

func NewMailController() *MailController {
	return &MailController{
		mailService: services.NewMailService(),
		rateLimiter: services.NewRateLimiter(config.Redis, config.App.RedisRateLimitPrefix),
	}
}

func (mc *MailController) GetThread(c *gin.Context) {
	userID, _ := c.Get("user_id")
	threadKey := c.Param("key")

	thread, err := mc.mailService.GetThreadState(userID.(uint), threadKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load thread"})
		return
	}

	messages, err := mc.mailService.GetMessages(userID.(uint), threadKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"thread":   thread,
		"messages": messages,
	})
}

// ReadMessage consumes a read in the thread: free on first contact, charged
// afterwards.
func (mc *MailController) ReadMessage(c *gin.Context) {
	userID, _ := c.Get("user_id")
	threadKey := c.Param("key")

	result, err := mc.mailService.ReadMessage(userID.(uint), threadKey)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"charge": result})
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (mc *MailController) SendMessage(c *gin.Context) {
	userID, _ := c.Get("user_id")
	threadKey := c.Param("key")

	if mc.limitExceeded(c, userID.(uint)) {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := mc.mailService.SendMessage(userID.(uint), threadKey, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := websocket.MailEvent{
		ThreadKey: threadKey,
		Direction: string(models.MailOutbound),
		Free:      result.Free,
		Cost:      result.Cost,
	}
	if config.WSHub != nil {
		config.WSHub.SendToUser(userID.(uint), websocket.EventMailReceived, event)
	}
	services.DefaultNotifier.Publish(c.Request.Context(), services.NotifyMailReceived, event)

	c.JSON(http.StatusOK, gin.H{"charge": result})
}

func (mc *MailController) SendPhoto(c *gin.Context) {
	userID, _ := c.Get("user_id")
	threadKey := c.Param("key")

	if mc.limitExceeded(c, userID.(uint)) {
		return
	}

	result, err := mc.mailService.SendPhoto(userID.(uint), threadKey)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"charge": result})
}

// limitExceeded applies the per-user send rate limit. No Redis means no
// limit.
func (mc *MailController) limitExceeded(c *gin.Context, userID uint) bool {
	limit := config.App.MailRateLimitPerMin
	count, retryAfter, err := mc.rateLimiter.Consume(c.Request.Context(), "mail_send",
		strconv.FormatUint(uint64(userID), 10), limit, time.Minute)
	if err != nil {
		// Limiter trouble shouldn't block mail; let the request through.
		return false
	}
	if limit > 0 && count > limit {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
		return true
	}
	return false
}
