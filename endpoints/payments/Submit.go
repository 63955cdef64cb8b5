package payments

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/heliospay/tuition-api/assert"
	"github.com/heliospay/tuition-api/kernel"
	"github.com/heliospay/tuition-api/payment"
	"github.com/heliospay/tuition-api/wallet"
)

// SubmitPayment drives one attempt through the workflow. Validation failures
// never touch the wallet; an attempt that fails after broadcast still shows up
// in the response so the client can point at its history entry.
func SubmitPayment(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	art := rt.AppRuntime
	rt.StepInto("payment_submit.handler")

	assert.NotNil(rt.Token, "token != nil")

	var form payment.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		rt.Ef(400, "bad request: %v", err)
		return
	}

	res, err := art.Workflow.Submit(c.Request.Context(), &form, rt.Token.ID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrValidation):
			rt.Ef(400, "%v", err)
		case errors.Is(err, payment.ErrPaymentInFlight):
			rt.Ef(409, "%v", err)
		case errors.Is(err, wallet.ErrNotConnected):
			rt.Ef(401, "wallet not connected: connect before paying")
		default:
			if res != nil {
				// Broadcast happened; the ledger keeps the failed record.
				c.AbortWithStatusJSON(502, &gin.H{
					"error":   rt.MakeError(err).Error(),
					"payment": res.Record,
				})
				return
			}
			rt.Ef(502, "payment failed: %v", err)
		}
		return
	}

	c.JSON(201, &gin.H{
		"payment":     res.Record,
		"confirmed":   res.Confirmed,
		"formCleared": res.FormCleared,
		"explorerUrl": explorerTxURL(art, res.Record.TransactionHash),
	})
	rt.EndBlock()
}

func explorerTxURL(art *kernel.AppRuntime, txHash string) string {
	if len(art.Chain.BlockExplorerURLs) == 0 {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", art.Chain.BlockExplorerURLs[0], txHash)
}
