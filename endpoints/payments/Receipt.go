package payments

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heliospay/tuition-api/assert"
	"github.com/heliospay/tuition-api/kernel"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Payment Receipt - {{.ID}}</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 20px; }
      .header { background: linear-gradient(135deg, #3b82f6, #8b5cf6); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
      .content { line-height: 1.6; }
      .amount { font-size: 24px; font-weight: bold; color: #059669; }
      .details { margin: 20px 0; }
      .footer { margin-top: 30px; text-align: center; color: #666; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="header">
      <h1>Payment Receipt</h1>
      <p>Helios Tuition Payment System</p>
      <p>Receipt ID: {{.ID}}</p>
    </div>
    <div class="content">
      <div class="details">
        <p><strong>Institution:</strong> {{.Institution}}</p>
        <p><strong>Department:</strong> {{.Department}}</p>
        <p><strong>Semester:</strong> {{.Semester}}</p>
        <p><strong>Student:</strong> {{.StudentName}} ({{.StudentID}})</p>
        <p><strong>Student Wallet:</strong> {{.StudentAddress}}</p>
        <p><strong>Payment Date:</strong> {{.PaidAt}}</p>
        <p><strong>Transaction Hash:</strong> {{.TransactionHash}}</p>
        <p><strong>Status:</strong> {{.Status}}</p>
        {{if .ExplorerURL}}<p><a href="{{.ExplorerURL}}">View on block explorer</a></p>{{end}}
      </div>
      <p class="amount">{{.Amount}} {{.Symbol}}</p>
    </div>
    <div class="footer">
      <p>Generated on {{.GeneratedAt}}</p>
    </div>
  </body>
</html>
`))

type receiptData struct {
	ID              string
	Institution     string
	Department      string
	Semester        string
	StudentName     string
	StudentID       string
	StudentAddress  string
	PaidAt          string
	TransactionHash string
	Status          string
	Amount          string
	Symbol          string
	ExplorerURL     string
	GeneratedAt     string
}

// PaymentReceipt renders a self-contained printable document for one ledger
// record.
func PaymentReceipt(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	art := rt.AppRuntime
	rt.StepInto("payment_receipt.handler")

	assert.NotNil(rt.Token, "token != nil")

	receiptId := c.Param("id")
	rec, found := art.Workflow.Ledger().Find(receiptId)
	if !found {
		rt.Ef(404, "payment with ID '%s' not found", receiptId)
		return
	}

	data := receiptData{
		ID:              rec.ReceiptID,
		Institution:     rec.DisplayInstitution(),
		Department:      rec.DisplayDepartment(),
		Semester:        rec.DisplaySemester(),
		StudentName:     rec.StudentName,
		StudentID:       rec.StudentID,
		StudentAddress:  rec.StudentAddress,
		PaidAt:          time.UnixMilli(rec.Timestamp).Format("2006-01-02 15:04:05 MST"),
		TransactionHash: rec.TransactionHash,
		Status:          string(rec.Status),
		Amount:          rec.Amount,
		Symbol:          art.Chain.Currency.Symbol,
		ExplorerURL:     explorerTxURL(art, rec.TransactionHash),
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05 MST"),
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := receiptTemplate.Execute(c.Writer, &data); err != nil {
		rt.Ef(500, "failed to render receipt: %v", err)
		return
	}
	rt.EndBlock()
}
