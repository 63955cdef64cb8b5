package payments

import (
	"github.com/gin-gonic/gin"
)

func RegisterController(rg *gin.RouterGroup) {
	g := rg.Group("/payments")

	g.POST("", SubmitPayment)
	g.GET("", PaymentHistory)
	g.GET("/:id/receipt", PaymentReceipt)
}
