package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/heliospay/tuition-api/kernel"
)

// Institutions lists the static catalog for the dashboard's selectors.
func Institutions(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.StepInto("catalog.handler")

	c.JSON(200, &gin.H{
		"institutions": rt.AppRuntime.Catalog.Institutions(),
	})
	rt.EndBlock()
}
