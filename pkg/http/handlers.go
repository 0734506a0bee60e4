package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type MigrateRequest struct {
	Direction string `json:"direction"`
	Steps     int    `json:"steps"`
}

type MigrateResponse struct {
	Direction string `json:"direction"`
	Versions  []uint `json:"versions"`
}

var migrateRequestSchema = z.Struct(z.Shape{
	"direction": z.String().Required().OneOf([]string{DirectionUp, DirectionDown}),
	"steps":     z.Int().GTE(0),
})

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func (rs *RestfulServer) PostMigrate(c *gin.Context) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	if !rs.CheckClientLimiter(c) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req MigrateRequest
	if errs := migrateRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	var (
		versions []uint
		err      error
	)
	switch req.Direction {
	case DirectionUp:
		versions, err = rs.Admin.Schema.Up(c.Request.Context())
	case DirectionDown:
		versions, err = rs.Admin.Schema.Down(c.Request.Context(), req.Steps)
	}

	if err != nil {
		logger.Error("Migrate request failed",
			zap.String("direction", req.Direction),
			zap.String("client", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}

	if versions == nil {
		versions = []uint{}
	}
	c.JSON(http.StatusOK, MigrateResponse{Direction: req.Direction, Versions: versions})
}

func (rs *RestfulServer) GetStatus(c *gin.Context) {
	status, err := rs.Admin.Schema.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}

	c.JSON(http.StatusOK, status)
}

func (rs *RestfulServer) GetDDL(c *gin.Context) {
	ddl, err := rs.Admin.Schema.DDL(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}

	c.String(http.StatusOK, ddl)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
