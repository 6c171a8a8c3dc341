package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "love-story/memories-api/internal/domain/settings"
	"love-story/memories-api/internal/interfaces/httpserver/requests"
	"love-story/memories-api/internal/interfaces/httpserver/responses"
	"love-story/memories-api/internal/utils/platformerrors"
)

// SettingsHandler exposes the settings record.
type SettingsHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewSettingsHandler(service *domain.Service, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log.With().Str("component", "settings-handler").Logger(),
	}
}

// Get godoc
// @Summary      Get settings
// @Description  Returns the persisted record, or the defaults before the first save.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  domain.Settings
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Put godoc
// @Summary      Save settings
// @Description  Overwrites the whole record; callers submit the complete record.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      requests.SettingsRequest  true  "Complete settings record"
// @Success      200      {object}  domain.Settings
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) Put(c *gin.Context) {
	var req requests.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	record, err := h.service.Set(c.Request.Context(), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to save settings")
		return
	}
	c.JSON(http.StatusOK, record)
}
