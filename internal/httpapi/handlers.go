package httpapi

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/gin-gonic/gin"
)

type handler struct {
	plans    service.PlanService
	projects service.ProjectService
}

func (h *handler) generatePlan(c *gin.Context) {
	var in dto.GeneratePlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	ctx := c.Request.Context()
	gen, err := h.plans.GeneratePlan(ctx, service.GeneratePlanRequest{
		Description:  in.Description,
		MarginTarget: in.MarginTarget,
		Currency:     in.Currency,
		ProjectID:    in.ProjectID,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	if err := h.plans.SavePlan(ctx, gen.Plan); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusCreated, dto.FromPlan(gen.Plan))
}

func (h *handler) getPlan(c *gin.Context) {
	p, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromPlan(p))
}

func (h *handler) listPlans(c *gin.Context) {
	ps, err := h.plans.ListPlans(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromPlans(ps))
}

func (h *handler) listProjectPlans(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.projects.GetByID(ctx, c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	ps, err := h.plans.ListPlans(ctx, c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromPlans(ps))
}

func (h *handler) addItem(c *gin.Context) {
	var in dto.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	item, err := in.Item()
	if err != nil {
		errorResponse(c, err)
		return
	}
	h.edit(c, http.StatusCreated, plan.AddItem{Item: item})
}

func (h *handler) updateItem(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	var in dto.PatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	patch, err := in.Patch()
	if err != nil {
		errorResponse(c, err)
		return
	}
	h.edit(c, http.StatusOK, plan.UpdateItem{Index: index, Patch: patch})
}

func (h *handler) deleteItem(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	h.edit(c, http.StatusOK, plan.DeleteItem{Index: index})
}

func (h *handler) edit(c *gin.Context, status int, op plan.Operation) {
	p, err := h.plans.EditStoredPlan(c.Request.Context(), c.Param("id"), op)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, status, dto.FromPlan(p))
}

func (h *handler) approvePlan(c *gin.Context) {
	p, err := h.plans.ApprovePlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromPlan(p))
}

type priceQuery struct {
	Name     string `form:"name" binding:"required"`
	Category string `form:"category" binding:"required,oneof=materials labor tools logistics"`
}

func (h *handler) resolvePrice(c *gin.Context) {
	var q priceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.plans.ResolvePrice(c.Request.Context(), q.Name, domain.Category(q.Category))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromResolution(res))
}

func (h *handler) createProject(c *gin.Context) {
	var in dto.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	p := in.Project()
	if err := h.projects.Create(c.Request.Context(), p); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusCreated, dto.FromProject(p))
}

func (h *handler) listProjects(c *gin.Context) {
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))
	ps, err := h.projects.List(c.Request.Context(), all)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromProjects(ps))
}

func (h *handler) getProject(c *gin.Context) {
	p, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, http.StatusOK, dto.FromProject(p))
}

func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		failure(c, http.StatusBadRequest, ErrorInfo{Type: ErrorTypeValidation, Message: "item index must be an integer"})
		return 0, false
	}
	return index, true
}
