package ingest

import (
	"context"
	"io"
	"strconv"
	"strings"

	"legal-assistant/config"
	"legal-assistant/internal/core/document"
	"legal-assistant/internal/core/knowledge"
	"legal-assistant/internal/database/model"
	"legal-assistant/internal/services/ingest"
	"legal-assistant/pkg/apperror"
	"legal-assistant/pkg/apperror/status"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v3"
)

// Service is the part of the ingestion service the handlers call.
type Service interface {
	IngestDocument(ctx context.Context, req ingest.DocumentRequest) (ingest.DocumentReport, error)
	SyncMailbox(ctx context.Context) (ingest.SyncReport, error)
	IngestKnowledge(ctx context.Context, thread string, messages []knowledge.Message) (ingest.KnowledgeReport, error)
	Document(ctx context.Context, id int64) (*model.Document, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleDocument accepts a PDF upload with its metadata form.
func (h *Handler) HandleDocument(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil || fh.Size == 0 {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "cannot open file")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}
	if mt := mimetype.Detect(data); !mt.Is(document.ContentTypePDF) {
		return apperror.BadRequest(config.ModuleUpload, c, status.UnsupportedFile, "only PDF documents are accepted, got "+mt.String())
	}

	meta := document.Metadata{
		DocType:        strings.TrimSpace(c.FormValue("doc_type")),
		Parties:        strings.TrimSpace(c.FormValue("parties")),
		Jurisdiction:   strings.TrimSpace(c.FormValue("jurisdiction")),
		ImportantDates: strings.TrimSpace(c.FormValue("important_dates")),
		Summary:        strings.TrimSpace(c.FormValue("summary")),
	}
	report, err := h.svc.IngestDocument(c.Context(), ingest.DocumentRequest{
		Filename: fh.Filename,
		Data:     data,
		Meta:     meta,
	})
	if err != nil {
		if report.DocID != 0 {
			return apperror.InternalErrorWithData(config.ModuleIngest, c, err, report)
		}
		return apperror.InternalError(config.ModuleIngest, c, err)
	}
	return apperror.Success(config.ModuleIngest, c, apperror.FiberSuccessMessage{
		Code:    status.OK,
		Message: "Document processed and added to the knowledge base",
		Data:    report,
	})
}

// HandleEmailSync ingests every unseen email of the configured mailbox.
func (h *Handler) HandleEmailSync(c fiber.Ctx) error {
	report, err := h.svc.SyncMailbox(c.Context())
	if err != nil {
		return apperror.InternalError(config.ModuleMail, c, err)
	}
	return apperror.Success(config.ModuleMail, c, apperror.FiberSuccessMessage{
		Code:    status.OK,
		Message: "Mailbox synced",
		Data:    report,
	})
}

type knowledgeRequest struct {
	ThreadName string              `json:"thread_name"`
	Messages   []knowledge.Message `json:"messages"`
}

// HandleKnowledge extracts knowledge from a conversation and ingests it.
func (h *Handler) HandleKnowledge(c fiber.Ctx) error {
	var req knowledgeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return apperror.BadRequest(config.ModuleKnowledge, c, status.InvalidRequestBody, "invalid request body")
	}
	report, err := h.svc.IngestKnowledge(c.Context(), req.ThreadName, req.Messages)
	if err != nil {
		return apperror.InternalError(config.ModuleKnowledge, c, err)
	}
	msg := "No new legal knowledge found"
	if report.Found {
		msg = "Legal knowledge added to the knowledge base"
	}
	return apperror.Success(config.ModuleKnowledge, c, apperror.FiberSuccessMessage{
		Code:    status.OK,
		Message: msg,
		Data:    report,
	})
}

// HandleGetDocument returns the ingestion record of one document.
func (h *Handler) HandleGetDocument(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperror.BadRequest(config.ModuleIngest, c, status.MissingParams, "invalid document id")
	}
	doc, err := h.svc.Document(c.Context(), id)
	if apperror.CodeOf(err) == status.DocumentNotFound {
		return apperror.NotFound(config.ModuleIngest, c, status.DocumentNotFound, err.Error())
	}
	if err != nil {
		return apperror.InternalError(config.ModuleIngest, c, err)
	}
	return apperror.Success(config.ModuleIngest, c, apperror.FiberSuccessMessage{
		Code:    status.OK,
		Message: "ok",
		Data:    doc,
	})
}
