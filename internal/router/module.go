package router

import "github.com/gin-gonic/gin"

// Module is a feature unit that installs its routes on a group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
