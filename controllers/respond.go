package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/middlewares"
	"github.com/mmfintech/bytebank_backend/models"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/mmfintech/bytebank_backend/workflow"
)

// API holds the handlers' shared dependencies.
type API struct {
	Calculator *workflow.BalanceCalculator
}

func NewAPI(calculator *workflow.BalanceCalculator) *API {
	return &API{Calculator: calculator}
}

func respond(c *gin.Context, status int, message string, result interface{}) {
	body := gin.H{"message": message}
	if result != nil {
		body["result"] = result
	}
	c.JSON(status, body)
}

func respondPage(c *gin.Context, message string, result interface{}, pagination *models.Pagination, extra gin.H) {
	body := gin.H{"message": message, "result": result, "pagination": pagination}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(200, body)
}

func respondError(c *gin.Context, err error) {
	middlewares.RespondError(c, err)
}

// bindJSON decodes the request body and converts binding failures into the
// validation error shape.
func bindJSON(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil {
		return utils.NewValidationError(utils.ProcessValidationErrors(err))
	}
	return nil
}
