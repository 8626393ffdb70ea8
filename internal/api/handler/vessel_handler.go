package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	apperrors "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/errors"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// VesselHandler 船舶模块 HTTP 处理器
type VesselHandler struct {
	vesselSvc   service.VesselService
	contractSvc service.ContractService
}

// NewVesselHandler 创建 VesselHandler
func NewVesselHandler(vesselSvc service.VesselService, contractSvc service.ContractService) *VesselHandler {
	return &VesselHandler{vesselSvc: vesselSvc, contractSvc: contractSvc}
}

// ListVessels 获取船队列表（含在船人数）
// GET /api/v1/vessels
func (h *VesselHandler) ListVessels(c *gin.Context) {
	vessels, err := h.vesselSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": vessels})
}

// GetVessel 获取船舶详情
// GET /api/v1/vessels/:id
func (h *VesselHandler) GetVessel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	vessel, err := h.vesselSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, vessel)
}

// CreateVessel 创建船舶
// POST /api/v1/vessels
func (h *VesselHandler) CreateVessel(c *gin.Context) {
	var req dto.CreateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	vessel, err := h.vesselSvc.Create(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.Created(c, vessel)
}

// UpdateVessel 更新船舶
// PUT /api/v1/vessels/:id
func (h *VesselHandler) UpdateVessel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	var req dto.UpdateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	vessel, err := h.vesselSvc.Update(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, vessel)
}

// DeleteVessel 删除船舶（船上有人时拒绝）
// DELETE /api/v1/vessels/:id
func (h *VesselHandler) DeleteVessel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.vesselSvc.Delete(c.Request.Context(), id, operatorID); err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetCompliance 船级证件合规汇总
// GET /api/v1/vessels/:id/compliance
func (h *VesselHandler) GetCompliance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	if !CheckVesselScope(c, id) {
		return
	}

	result, err := h.vesselSvc.GetCompliance(c.Request.Context(), id)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, result)
}

// GetContractStats 船级合同三桶统计
// GET /api/v1/vessels/:id/contract-stats
func (h *VesselHandler) GetContractStats(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	if !CheckVesselScope(c, id) {
		return
	}

	result, err := h.vesselSvc.GetContractStats(c.Request.Context(), id)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, result)
}

// ListContracts 船级合同列表（按分类桶过滤）
// GET /api/v1/vessels/:id/contracts?status=active|expiring|expired
func (h *VesselHandler) ListContracts(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	if !CheckVesselScope(c, id) {
		return
	}

	var req dto.ContractListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	contracts, err := h.contractSvc.ListByVessel(c.Request.Context(), id, &req)
	if err != nil {
		h.handleVesselError(c, err)
		return
	}

	response.OK(c, gin.H{"list": contracts})
}

// handleVesselError 统一处理船舶模块业务错误
func (h *VesselHandler) handleVesselError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVesselNotFound):
		response.NotFound(c, 12001, "船舶不存在")
	case errors.Is(err, service.ErrVesselIMOExists):
		response.Conflict(c, 12002, "IMO 编号已存在")
	case errors.Is(err, service.ErrVesselHasCrew):
		response.BadRequest(c, 12003, "船上仍有在船船员，无法删除")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
