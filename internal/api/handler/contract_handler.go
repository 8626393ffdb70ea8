package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	apperrors "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/errors"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// ContractHandler 合同模块 HTTP 处理器
type ContractHandler struct {
	contractSvc service.ContractService
}

// NewContractHandler 创建 ContractHandler
func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

// CreateContract 新建合同（自动结束该船员的旧在职合同）
// POST /api/v1/contracts
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	contract, err := h.contractSvc.Create(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleContractError(c, err)
		return
	}

	response.Created(c, contract)
}

// GetContract 合同详情（分桶现算）
// GET /api/v1/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "合同ID不能为空")
		return
	}

	contract, err := h.contractSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleContractError(c, err)
		return
	}

	response.OK(c, contract)
}

// ListByCrewMember 船员合同历史
// GET /api/v1/crew/:id/contracts
func (h *ContractHandler) ListByCrewMember(c *gin.Context) {
	crewMemberID := c.Param("id")
	if crewMemberID == "" {
		response.BadRequest(c, 10001, "船员ID不能为空")
		return
	}

	contracts, err := h.contractSvc.ListByCrewMember(c.Request.Context(), crewMemberID)
	if err != nil {
		h.handleContractError(c, err)
		return
	}

	response.OK(c, gin.H{"list": contracts})
}

// UpdateContract 更新合同（completed 终态拒绝）
// PUT /api/v1/contracts/:id
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "合同ID不能为空")
		return
	}

	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	contract, err := h.contractSvc.Update(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleContractError(c, err)
		return
	}

	response.OK(c, contract)
}

// CompleteContract 手动办理离任
// POST /api/v1/contracts/:id/complete
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "合同ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.contractSvc.Complete(c.Request.Context(), id, operatorID); err != nil {
		h.handleContractError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleContractError 统一处理合同模块业务错误
func (h *ContractHandler) handleContractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContractNotFound):
		response.NotFound(c, 15001, "合同不存在")
	case errors.Is(err, service.ErrContractDateInvalid):
		response.BadRequest(c, 15002, "合同结束日期不能早于开始日期")
	case errors.Is(err, service.ErrContractCompleted):
		response.BadRequest(c, 15003, "合同已结束，不可修改")
	case errors.Is(err, service.ErrCrewNotFound):
		response.NotFound(c, 13001, "船员不存在")
	case errors.Is(err, service.ErrVesselNotFound):
		response.NotFound(c, 12001, "船舶不存在")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
