package handler

import (
	"fmt"
	"path/filepath"
	"strconv"

	"surety-web/internal/config"
	"surety-web/internal/models"
	"surety-web/internal/service"
	"surety-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService  *service.UserService
	excelService *service.ExcelService
	cfg          *config.Config
}

func NewUserHandler(userService *service.UserService, excelService *service.ExcelService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService:  userService,
		excelService: excelService,
		cfg:          cfg,
	}
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	users, total, err := h.userService.GetMembers(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve users", err)
	}

	return utils.SuccessResponse(c, "Users retrieved successfully", fiber.Map{
		"users":      users,
		"pagination": utils.CalculatePagination(params.Page, params.Limit, int64(total)),
	})
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Full name, DOB, mobile number and village are required", err)
	}

	user, err := h.userService.Create(req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", err)
	}

	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	user, err := h.userService.Update(id, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	}

	return utils.SuccessResponse(c, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", err)
	}

	if err := h.userService.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	}

	return utils.SuccessResponse(c, "User deleted successfully", nil)
}

// ImportUsers bulk-registers members from an uploaded spreadsheet.
func (h *UserHandler) ImportUsers(c *fiber.Ctx) error {
	filePath, ferr := saveUploadedFile(c, h.cfg)
	if ferr != nil {
		return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
	}

	rows, err := h.excelService.ParseUserFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	saved, skipped, err := h.userService.ImportUsers(rows)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to import users", err)
	}

	return utils.SuccessResponse(c, "Users imported successfully", fiber.Map{
		"saved":   saved,
		"skipped": skipped,
	})
}

// saveUploadedFile validates and stores the multipart "file" field, returning
// the stored path.
func saveUploadedFile(c *fiber.Ctx, cfg *config.Config) (string, *fiber.Error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File is required")
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed")
	}

	if file.Size > int64(cfg.UploadMaxSize) {
		return "", fiber.NewError(fiber.StatusBadRequest, "File size exceeds maximum limit")
	}

	filePath := filepath.Join(cfg.UploadPath, fmt.Sprintf("IMPORT-%s%s", uuid.New().String()[:8], ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Failed to save file")
	}

	return filePath, nil
}
