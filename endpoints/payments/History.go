package payments

import (
	"github.com/gin-gonic/gin"

	"github.com/heliospay/tuition-api/assert"
	"github.com/heliospay/tuition-api/kernel"
)

// PaymentHistory returns the attempt ledger, newest first.
func PaymentHistory(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.StepInto("payment_history.handler")

	assert.NotNil(rt.Token, "token != nil")

	c.JSON(200, &gin.H{
		"payments": rt.AppRuntime.Workflow.Ledger().List(),
	})
	rt.EndBlock()
}
