package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/service"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

// MakePayment opens a payment intent and hands the gateway's redirect URL to
// the client. Failures of any kind collapse into a generic failure message;
// nothing is persisted locally.
func (c *PaymentController) MakePayment(ctx *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "Something went wrong"})
		return
	}

	origin := ctx.GetHeader("Origin")

	url, err := c.PaymentService.Checkout(ctx.Request.Context(), req.Name, req.Email, req.Phone, origin)
	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "Payment Failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Payment Success", "url": url})
}

// Callback is the gateway's redirect target. It executes the payment and
// sends the user to the success or cancel page; the redirect path never
// carries a JSON body. A replayed callback is executed again as-is: the
// gateway rejects the second execution and the user lands on the cancel page.
func (c *PaymentController) Callback(ctx *gin.Context) {
	paymentID := ctx.Query("paymentID")
	if paymentID == "" {
		ctx.Redirect(http.StatusSeeOther, "/cancel")
		return
	}

	if err := c.PaymentService.Complete(ctx.Request.Context(), paymentID); err != nil {
		ctx.Redirect(http.StatusSeeOther, "/cancel")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/success")
}
