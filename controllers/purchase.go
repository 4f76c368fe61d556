package controllers

import (
	"net/http"

	"github.com/datescare/amora-be/services"
	"github.com/gin-gonic/gin"
)

type PurchaseController struct {
	purchaseService *services.PurchaseService
}

func NewPurchaseController() *PurchaseController {
	return &PurchaseController{
		purchaseService: services.NewPurchaseService(),
	}
}

func (pc *PurchaseController) GetPackages(c *gin.Context) {
	packages, err := pc.purchaseService.ListPackages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load packages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (pc *PurchaseController) GetPurchaseHistory(c *gin.Context) {
	userID, _ := c.Get("user_id")

	purchases, err := pc.purchaseService.GetPurchaseHistory(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchase history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
