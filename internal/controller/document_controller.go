package controller

import (
	"fmt"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const documentFormField = "document"

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload_document", c.Upload)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile(documentFormField)
	if err != nil {
		return apperror.ClientInput(constant.MsgNoDocument)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	if _, err := c.service.Upload(ctx.UserContext(), fileHeader.Filename, file); err != nil {
		return err
	}

	return ctx.JSON(serverutils.MessageResponse(constant.MsgDocumentProcessed))
}
