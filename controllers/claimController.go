package controllers

import (
	"ClaimProcess/handlers"

	"github.com/gin-gonic/gin"
)

type ClaimController struct {
	Handler *handlers.ClaimHandler
}

// NewClaimController creates a new ClaimController with the given ClaimHandler
func NewClaimController(claimHandler *handlers.ClaimHandler) *ClaimController {
	return &ClaimController{
		Handler: claimHandler,
	}
}

// RegisterRoutes registers the claim routes. topFeesLimit guards the ranking
// endpoint and is shared by both spellings of its path.
func (cc *ClaimController) RegisterRoutes(router *gin.Engine, topFeesLimit gin.HandlerFunc) {
	router.POST("/claim/add", cc.Handler.CreateClaim)

	topGroup := router.Group("/top10netfees", topFeesLimit)
	{
		topGroup.GET("", cc.Handler.GetTopNetFees)
		topGroup.GET("/", cc.Handler.GetTopNetFees)
	}
}
