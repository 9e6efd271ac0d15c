package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/vuzon/vuzon/services"
	"github.com/vuzon/vuzon/types"
)

type RulesApi struct {
	cloudflareService *services.CloudflareService
	rootDomain        string
	validate          *validator.Validate
}

func NewRulesApi(cloudflareService *services.CloudflareService, rootDomain string) *RulesApi {
	return &RulesApi{
		cloudflareService: cloudflareService,
		rootDomain:        rootDomain,
		validate:          newValidator(),
	}
}

// List returns all forwarding rules aggregated across upstream pages
// @Summary List forwarding rules
// @Tags Rules
// @Produce json
// @Success 200 {object} map[string]interface{} "{result: [...]}"
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/rules [get]
func (ra *RulesApi) List(c *gin.Context) {
	rules, err := ra.cloudflareService.ListRules(c.Request.Context())
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": rules})
}

// Create builds a forwarding rule with one literal "to" matcher and one
// forward action to a single destination. Validation happens before any
// upstream call.
// @Summary Create a forwarding rule
// @Tags Rules
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "{ok:true, result}"
// @Failure 400 {object} api.ApiError "validation failure"
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/rules [post]
func (ra *RulesApi) Create(c *gin.Context) {
	var input types.InputRule
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ra.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			ApiErrorf(c, http.StatusBadRequest, "%s", ValidatorErrorToUser(validationErrors))
			return
		}
		ApiErrorf(c, http.StatusBadRequest, "invalid request body")
		return
	}

	aliasEmail := input.LocalPart + "@" + ra.rootDomain
	rule := types.ForwardingRule{
		Name:     aliasEmail,
		Enabled:  true,
		Matchers: []types.RuleMatcher{{Type: "literal", Field: "to", Value: aliasEmail}},
		Actions:  []types.RuleAction{{Type: "forward", Value: []string{input.DestEmail}}},
	}

	created, err := ra.cloudflareService.CreateRule(c.Request.Context(), rule)
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": created})
}

// Enable turns a rule on via a full-record read-modify-write
// @Summary Enable a forwarding rule
// @Tags Rules
// @Produce json
// @Success 200 {object} map[string]interface{} "{result}"
// @Failure 500 {object} api.ApiError "read or write failed"
// @Router /api/rules/{id}/enable [post]
func (ra *RulesApi) Enable(c *gin.Context) {
	ra.setEnabled(c, true)
}

// Disable turns a rule off via a full-record read-modify-write
// @Summary Disable a forwarding rule
// @Tags Rules
// @Produce json
// @Success 200 {object} map[string]interface{} "{result}"
// @Failure 500 {object} api.ApiError "read or write failed"
// @Router /api/rules/{id}/disable [post]
func (ra *RulesApi) Disable(c *gin.Context) {
	ra.setEnabled(c, false)
}

func (ra *RulesApi) setEnabled(c *gin.Context, enabled bool) {
	result, err := ra.cloudflareService.SetRuleEnabled(c.Request.Context(), c.Param("id"), enabled)
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Delete removes a forwarding rule by id
// @Summary Delete a forwarding rule
// @Tags Rules
// @Produce json
// @Success 200 {object} types.OutputSuccess
// @Failure 500 {object} api.ApiError "upstream failure"
// @Router /api/rules/{id} [delete]
func (ra *RulesApi) Delete(c *gin.Context) {
	if err := ra.cloudflareService.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.JSON(http.StatusOK, types.OutputSuccess{Success: true})
}
