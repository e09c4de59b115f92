package handler

import (
	"path/filepath"
	"strconv"

	"surety-web/internal/config"
	"surety-web/internal/models"
	"surety-web/internal/repository"
	"surety-web/internal/service"
	"surety-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type SuretyHandler struct {
	suretyRepo    *repository.SuretyRepository
	importService *service.ImportService
	excelService  *service.ExcelService
	cfg           *config.Config
}

func NewSuretyHandler(
	suretyRepo *repository.SuretyRepository,
	importService *service.ImportService,
	excelService *service.ExcelService,
	cfg *config.Config,
) *SuretyHandler {
	return &SuretyHandler{
		suretyRepo:    suretyRepo,
		importService: importService,
		excelService:  excelService,
		cfg:           cfg,
	}
}

// GetSureties lists all records with owner display fields (admin view).
func (h *SuretyHandler) GetSureties(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sureties, total, err := h.suretyRepo.GetAll(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sureties", err)
	}

	return utils.SuccessResponse(c, "Sureties retrieved successfully", fiber.Map{
		"sureties":   sureties,
		"pagination": utils.CalculatePagination(params.Page, params.Limit, int64(total)),
	})
}

// GetMySureties lists the authenticated member's own records.
func (h *SuretyHandler) GetMySureties(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sureties, total, err := h.suretyRepo.GetByAssignedUser(userID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sureties", err)
	}

	return utils.SuccessResponse(c, "Sureties retrieved successfully", fiber.Map{
		"sureties":   sureties,
		"pagination": utils.CalculatePagination(params.Page, params.Limit, int64(total)),
	})
}

// CreateSurety creates one record. Admin callers may pick the assigned user;
// member callers always own what they create.
func (h *SuretyHandler) CreateSurety(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role := c.Locals("role").(string)

	var req models.SuretyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if role != "admin" {
		req.AssignedUserID = 0
	}

	surety, err := h.importService.CreateSurety(req, userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Surety created successfully",
		"data":    surety,
	})
}

// UpdateSurety patches a record; omitted fields retain their stored values.
func (h *SuretyHandler) UpdateSurety(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid surety ID", err)
	}

	var req models.SuretyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	surety, err := h.suretyRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Surety record not found", err)
	}

	applySuretyUpdate(surety, req)

	if err := h.suretyRepo.Update(surety); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Surety with this Aadhar number already exists", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update surety", err)
	}

	return utils.SuccessResponse(c, "Surety record updated successfully", surety)
}

func applySuretyUpdate(surety *models.Surety, req models.SuretyUpdateRequest) {
	if req.SuretyName != nil {
		surety.SuretyName = *req.SuretyName
	}
	if req.Address != nil {
		surety.Address = *req.Address
	}
	if req.AadharNo != nil {
		if normalized, ok := service.NormalizeAadhar(*req.AadharNo); ok {
			surety.AadharNo = normalized
		}
	}
	if req.PoliceStation != nil {
		surety.PoliceStation = *req.PoliceStation
	}
	if req.CaseFirNo != nil {
		surety.CaseFirNo = *req.CaseFirNo
	}
	if req.ActName != nil {
		surety.ActName = *req.ActName
	}
	if req.Section != nil {
		surety.Section = *req.Section
	}
	if req.AccusedName != nil {
		surety.AccusedName = *req.AccusedName
	}
	if req.AccusedAddress != nil {
		surety.AccusedAddress = *req.AccusedAddress
	}
	if req.CourtCity != nil {
		surety.CourtCity = *req.CourtCity
	}
	if req.Amount != nil && *req.Amount > 0 {
		surety.Amount = *req.Amount
	}
	if req.DateOfSurety != nil {
		if parsed := service.NormalizeDate(*req.DateOfSurety); parsed != nil {
			surety.DateOfSurety = parsed
		}
	}
}

func (h *SuretyHandler) DeleteSurety(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid surety ID", err)
	}

	deleted, err := h.suretyRepo.Delete(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete surety", err)
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Surety record not found", nil)
	}

	return utils.SuccessResponse(c, "Surety record deleted successfully", nil)
}

// ImportSureties runs the best-effort spreadsheet import. The call succeeds
// even when every row was skipped; callers inspect saved/skipped counts.
func (h *SuretyHandler) ImportSureties(c *fiber.Ctx) error {
	filePath, ferr := saveUploadedFile(c, h.cfg)
	if ferr != nil {
		return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
	}

	rows, err := h.excelService.ParseSuretyFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	outcome, err := h.importService.ImportBestEffort(rows)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Server error during surety import", err)
	}

	return utils.SuccessResponse(c, outcome.Message(), fiber.Map{
		"saved":      outcome.Saved,
		"skipped":    outcome.Skipped,
		"duplicates": outcome.Duplicates(),
		"skips":      outcome.Skips,
	})
}

// BulkCreateSureties is the atomic entry point: all records persist in one
// transaction or none do.
func (h *SuretyHandler) BulkCreateSureties(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var requests []models.SuretyRequest
	if err := c.BodyParser(&requests); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	count, err := h.importService.ImportAtomic(requests, userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Sureties created successfully",
		"count":   count,
	})
}

// ExportSureties streams a workbook of all records.
func (h *SuretyHandler) ExportSureties(c *fiber.Ctx) error {
	sureties, _, err := h.suretyRepo.GetAll(1000000, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sureties", err)
	}

	exportFileName := service.ExportFileName("sureties")
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportSureties(sureties, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export data", err)
	}

	return c.Download(exportPath, exportFileName)
}

// DownloadTemplate serves a fresh import template workbook.
func (h *SuretyHandler) DownloadTemplate(c *fiber.Ctx) error {
	templatePath := filepath.Join(h.cfg.ExportPath, "surety_import_template.xlsx")
	if err := h.excelService.GenerateSuretyTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, "surety_import_template.xlsx")
}
