package http

import (
	"github.com/gin-gonic/gin"
	"liyu1981.xyz/home-controller-schema/pkg/admin"
)

type RestfulServer struct {
	Server           *gin.Engine
	Admin            *admin.Admin
	RateLimiterStore *admin.RateLimiterStore
}

// CheckClientLimiter takes a token for the calling client. A server without
// a store never limits.
func (rs *RestfulServer) CheckClientLimiter(c *gin.Context) bool {
	return rs.RateLimiterStore.Allow(c.ClientIP())
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	schema := rs.Server.Group("/schema")
	{
		schema.GET("", rs.GetStatus)
		schema.GET("/ddl", rs.GetDDL)
		schema.POST("/migrate", rs.PostMigrate)
	}
}
