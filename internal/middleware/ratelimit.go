package middleware

import (
	"github.com/Achintya-Chatterjee/task-management-api/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// AuthRateLimiter limits the credential endpoints to 5 requests per
// 15-minute window per client IP, answering 429 on exceed.
func AuthRateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: constants.AuthRatePeriod,
		Limit:  constants.AuthRateLimit,
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}
