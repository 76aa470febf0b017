package webhook

import "github.com/gin-gonic/gin"

// Router bundles the three webhook-adjacent handlers so main can mount them
// with one call.
type Router struct {
	Inbound   *InboundHandler
	Payment   *PaymentHandler
	Recruiter *RecruiterHandler
}

// RegisterRoutes mounts the messaging and payment provider callbacks plus
// the public recruiter job-posting form.
func (r *Router) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/webhook/ycloud", r.Inbound.Handle)
	router.POST("/webhook/paystack", r.Payment.Handle)
	router.POST("/recruiter/jobs", r.Recruiter.Handle)
}
