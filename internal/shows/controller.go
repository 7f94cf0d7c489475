package shows

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"circustix/internal/shared/utils/response"
)

type Controller interface {
	GetAllShows(c *gin.Context)
	GetShow(c *gin.Context)
	ResolveShowContext(c *gin.Context)
}

type controller struct {
	provider Provider
}

func NewController(provider Provider) Controller {
	return &controller{provider: provider}
}

func (ctrl *controller) GetAllShows(c *gin.Context) {
	list, err := ctrl.provider.List(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to retrieve shows", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Shows retrieved successfully", list, nil)
}

func (ctrl *controller) GetShow(c *gin.Context) {
	show, err := ctrl.provider.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrShowNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, "Failed to retrieve show", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show retrieved successfully", show, nil)
}

// ResolveShowContext turns a show plus optional tour stop and performance into the context key
func (ctrl *controller) ResolveShowContext(c *gin.Context) {
	sc, err := ctrl.provider.ResolveContext(c.Request.Context(), c.Param("id"), c.Query("stop"), c.Query("performance"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrShowNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrUnknownPerformance):
			statusCode = http.StatusBadRequest
		}
		response.RespondJSON(c, "error", statusCode, "Failed to resolve show context", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show context resolved successfully", sc, nil)
}
