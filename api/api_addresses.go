package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/vuzon/vuzon/services"
	"github.com/vuzon/vuzon/types"
)

type AddressesApi struct {
	cloudflareService *services.CloudflareService
	validate          *validator.Validate
}

func NewAddressesApi(cloudflareService *services.CloudflareService) *AddressesApi {
	return &AddressesApi{
		cloudflareService: cloudflareService,
		validate:          newValidator(),
	}
}

// List returns all destination addresses aggregated across upstream pages
// @Summary List destination addresses
// @Tags Addresses
// @Produce json
// @Success 200 {object} map[string]interface{} "{result: [{email,id,verified}]}"
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/addresses [get]
func (aa *AddressesApi) List(c *gin.Context) {
	addresses, err := aa.cloudflareService.ListAddresses(c.Request.Context())
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": addresses})
}

// Create registers a new destination mailbox with the upstream provider
// @Summary Add a destination address
// @Tags Addresses
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "{ok:true, result}"
// @Failure 400 {object} api.ApiError "validation failure"
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/addresses [post]
func (aa *AddressesApi) Create(c *gin.Context) {
	var input types.InputAddress
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := aa.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			ApiErrorf(c, http.StatusBadRequest, "%s", ValidatorErrorToUser(validationErrors))
			return
		}
		ApiErrorf(c, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := aa.cloudflareService.CreateAddress(c.Request.Context(), input.Email)
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": address})
}

// Delete removes a destination address by id. Deleting an address still
// referenced by a rule is allowed; the rule's target simply stops
// verifying.
// @Summary Delete a destination address
// @Tags Addresses
// @Produce json
// @Success 200 {object} types.OutputSuccess
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/addresses/{id} [delete]
func (aa *AddressesApi) Delete(c *gin.Context) {
	if err := aa.cloudflareService.DeleteAddress(c.Request.Context(), c.Param("id")); err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, types.OutputSuccess{Success: true})
}
