package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlevasseur/dossiers-militaires/internal/attachments"
	"github.com/mlevasseur/dossiers-militaires/internal/document"
	"github.com/mlevasseur/dossiers-militaires/internal/models"
	"github.com/mlevasseur/dossiers-militaires/internal/repository"
	"github.com/mlevasseur/dossiers-militaires/internal/statistics"
	"github.com/mlevasseur/dossiers-militaires/internal/storage"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	caseRepo        *repository.CaseRepository
	memberRepo      *repository.MemberRepository
	beneficiaryRepo *repository.BeneficiaryRepository
	statsRepo       *repository.StatisticsRepository
	generator       *document.Generator
	templates       *storage.TemplateStore
	files           *storage.LocalFileStorage
	cache           *attachments.Cache
	logger          *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	caseRepo *repository.CaseRepository,
	memberRepo *repository.MemberRepository,
	beneficiaryRepo *repository.BeneficiaryRepository,
	statsRepo *repository.StatisticsRepository,
	generator *document.Generator,
	templates *storage.TemplateStore,
	files *storage.LocalFileStorage,
	cache *attachments.Cache,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		caseRepo:        caseRepo,
		memberRepo:      memberRepo,
		beneficiaryRepo: beneficiaryRepo,
		statsRepo:       statsRepo,
		generator:       generator,
		templates:       templates,
		files:           files,
		cache:           cache,
		logger:          logger,
	}
}

// Response is the standard JSON envelope
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CreateCase registers a new case record
func (h *Handlers) CreateCase(c *gin.Context) {
	var payload models.Case
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "invalid case payload"})
		return
	}
	if payload.Title == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "title is required"})
		return
	}

	if err := h.caseRepo.Create(c.Request.Context(), &payload); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: payload})
}

// ListCases returns cases, archived ones only on request
func (h *Handlers) ListCases(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	cases, err := h.caseRepo.List(c.Request.Context(), includeArchived)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: cases})
}

// ArchiveCase flags a case and its whole member/beneficiary tree
func (h *Handlers) ArchiveCase(c *gin.Context) {
	caseRecord, err := h.caseRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.internalError(c, err)
		return
	}
	if caseRecord == nil {
		c.JSON(http.StatusNotFound, Response{Error: "case not found"})
		return
	}

	if err := h.caseRepo.Archive(c.Request.Context(), caseRecord.ID); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CaseSynthesis renders the full case report and returns it as an
// attachment
func (h *Handlers) CaseSynthesis(c *gin.Context) {
	caseRecord, members, byMember, ok := h.loadCaseTree(c, c.Param("id"))
	if !ok {
		return
	}

	doc, err := h.generator.GenerateCaseSynthesis(
		c.Request.Context(), caseRecord, members, byMember, outputFormat(c))
	if err != nil {
		h.deliverError(c, err)
		return
	}

	h.archiveCopy(caseRecord.ID, doc)
	h.deliver(c, doc)
}

// StoredDocument streams a previously archived case document from disk
func (h *Handlers) StoredDocument(c *gin.Context) {
	fileName := storage.SanitizeFileName(c.Param("filename"))
	if fileName == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "invalid file name"})
		return
	}

	path := filepath.Join(h.files.BaseDir(), "cases", c.Param("id"), fileName)
	stream, err := h.files.OpenStream(path)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{Error: "document not found"})
		return
	}
	defer stream.Close()

	mimeType := document.MIMEPDF
	if strings.HasSuffix(fileName, ".xlsx") {
		mimeType = document.MIMENative
	}
	c.DataFromReader(http.StatusOK, stream.Size(), mimeType, stream, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", fileName),
	})
}

// archiveCopy keeps the latest rendered synthesis on disk, best effort
func (h *Handlers) archiveCopy(caseID string, doc *document.RenderedDocument) {
	path := filepath.Join(h.files.BaseDir(), "cases", caseID, doc.Filename)
	if err := h.files.SaveFile(path, doc.Content); err != nil {
		h.logger.Warn("Failed to archive document copy",
			zap.String("case_id", caseID),
			zap.Error(err))
	}
}

// InformationSheet renders the per-member information notice
func (h *Handlers) InformationSheet(c *gin.Context) {
	caseRecord, _, _, ok := h.loadCaseTree(c, c.Param("id"))
	if !ok {
		return
	}

	member, err := h.memberRepo.GetByID(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		h.internalError(c, err)
		return
	}
	if member == nil || member.CaseID != caseRecord.ID {
		c.JSON(http.StatusNotFound, Response{Error: "member not found"})
		return
	}

	beneficiaries, err := h.beneficiaryRepo.GetByMemberID(c.Request.Context(), member.ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	doc, err := h.generator.GenerateInformationSheet(
		c.Request.Context(), caseRecord, member, beneficiaries, outputFormat(c))
	if err != nil {
		h.deliverError(c, err)
		return
	}
	h.deliver(c, doc)
}

// FeeConvention renders the fee agreement document for one convention
func (h *Handlers) FeeConvention(c *gin.Context) {
	caseRecord, member, beneficiary, ok := h.loadBeneficiaryTree(c, c.Param("id"))
	if !ok {
		return
	}

	doc, err := h.generator.GenerateFeeConvention(
		c.Request.Context(), caseRecord, member, beneficiary, c.Param("conventionID"), outputFormat(c))
	if err != nil {
		h.deliverError(c, err)
		return
	}
	h.deliver(c, doc)
}

// PaymentReceipt renders the receipt for one payment
func (h *Handlers) PaymentReceipt(c *gin.Context) {
	caseRecord, member, beneficiary, ok := h.loadBeneficiaryTree(c, c.Param("id"))
	if !ok {
		return
	}

	doc, err := h.generator.GeneratePaymentReceipt(
		c.Request.Context(), caseRecord, member, beneficiary, c.Param("paymentID"), outputFormat(c))
	if err != nil {
		h.deliverError(c, err)
		return
	}
	h.deliver(c, doc)
}

// Statistics returns grouped rollups, dimensions selected with
// ?dims=year,region
func (h *Handlers) Statistics(c *gin.Context) {
	dimsParam := c.DefaultQuery("dims", "year")
	var dims []statistics.Dimension
	for _, d := range strings.Split(dimsParam, ",") {
		switch dim := statistics.Dimension(strings.TrimSpace(d)); dim {
		case statistics.DimYear, statistics.DimRegion, statistics.DimDepartment,
			statistics.DimCaseworker, statistics.DimCircumstance:
			dims = append(dims, dim)
		default:
			c.JSON(http.StatusBadRequest, Response{Error: fmt.Sprintf("unknown dimension: %s", d)})
			return
		}
	}

	records, err := h.statsRepo.MemberRecords(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	rollup := statistics.Rollup(records, dims)
	c.JSON(http.StatusOK, Response{Success: true, Data: rollup})
}

// UploadTemplate installs a custom template override for a document kind
func (h *Handlers) UploadTemplate(c *gin.Context) {
	kind := document.DocumentKind(c.Param("kind"))
	fileName, ok := document.TemplateFileName(kind)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Error: "unknown document kind"})
		return
	}

	content, err := io.ReadAll(io.LimitReader(c.Request.Body, 16<<20))
	if err != nil || len(content) == 0 {
		c.JSON(http.StatusBadRequest, Response{Error: "template body required"})
		return
	}

	path, err := h.templates.InstallCustom(fileName, content)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"path": path}})
}

// RemoveTemplate drops a custom override so the default applies again
func (h *Handlers) RemoveTemplate(c *gin.Context) {
	kind := document.DocumentKind(c.Param("kind"))
	fileName, ok := document.TemplateFileName(kind)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Error: "unknown document kind"})
		return
	}
	if err := h.templates.RemoveCustom(fileName); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// StashSynthesis renders the case synthesis into the transient attachment
// cache and returns the pickup id, for mail delivery flows
func (h *Handlers) StashSynthesis(c *gin.Context) {
	caseRecord, members, byMember, ok := h.loadCaseTree(c, c.Param("id"))
	if !ok {
		return
	}

	doc, err := h.generator.GenerateCaseSynthesis(
		c.Request.Context(), caseRecord, members, byMember, outputFormat(c))
	if err != nil {
		h.deliverError(c, err)
		return
	}

	id := uuid.New().String()
	h.cache.Put(id, attachments.Entry{
		Content:  doc.Content,
		MIMEType: doc.MIMEType,
		Filename: doc.Filename,
	})
	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"attachment_id": id}})
}

// Attachment serves a previously stashed document from the cache
func (h *Handlers) Attachment(c *gin.Context) {
	entry, ok := h.cache.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Error: "attachment not found or expired"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entry.Filename))
	c.Data(http.StatusOK, entry.MIMEType, entry.Content)
}

func (h *Handlers) loadCaseTree(c *gin.Context, caseID string) (*models.Case, []*models.ServiceMember, map[string][]*models.Beneficiary, bool) {
	caseRecord, err := h.caseRepo.GetByID(c.Request.Context(), caseID)
	if err != nil {
		h.internalError(c, err)
		return nil, nil, nil, false
	}
	if caseRecord == nil {
		c.JSON(http.StatusNotFound, Response{Error: "case not found"})
		return nil, nil, nil, false
	}

	members, err := h.memberRepo.GetByCaseID(c.Request.Context(), caseID)
	if err != nil {
		h.internalError(c, err)
		return nil, nil, nil, false
	}

	byMember := make(map[string][]*models.Beneficiary, len(members))
	for _, member := range members {
		beneficiaries, err := h.beneficiaryRepo.GetByMemberID(c.Request.Context(), member.ID)
		if err != nil {
			h.internalError(c, err)
			return nil, nil, nil, false
		}
		byMember[member.ID] = beneficiaries
	}
	return caseRecord, members, byMember, true
}

func (h *Handlers) loadBeneficiaryTree(c *gin.Context, beneficiaryID string) (*models.Case, *models.ServiceMember, *models.Beneficiary, bool) {
	beneficiary, err := h.beneficiaryRepo.GetByID(c.Request.Context(), beneficiaryID)
	if err != nil {
		h.internalError(c, err)
		return nil, nil, nil, false
	}
	if beneficiary == nil {
		c.JSON(http.StatusNotFound, Response{Error: "beneficiary not found"})
		return nil, nil, nil, false
	}

	member, err := h.memberRepo.GetByID(c.Request.Context(), beneficiary.MemberID)
	if err != nil {
		h.internalError(c, err)
		return nil, nil, nil, false
	}
	if member == nil {
		c.JSON(http.StatusNotFound, Response{Error: "member not found"})
		return nil, nil, nil, false
	}

	caseRecord, err := h.caseRepo.GetByID(c.Request.Context(), member.CaseID)
	if err != nil {
		h.internalError(c, err)
		return nil, nil, nil, false
	}
	if caseRecord == nil {
		c.JSON(http.StatusNotFound, Response{Error: "case not found"})
		return nil, nil, nil, false
	}
	return caseRecord, member, beneficiary, true
}

// deliver writes a rendered document as an attachment response
func (h *Handlers) deliver(c *gin.Context, doc *document.RenderedDocument) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.MIMEType, doc.Content)
}

// deliverError maps engine failures to responses. A conversion failure
// degrades to the native buffer instead of failing the request, the
// header flags the fallback.
func (h *Handlers) deliverError(c *gin.Context, err error) {
	var conversionErr *document.ConversionError
	if errors.As(err, &conversionErr) && len(conversionErr.NativeOutput) > 0 {
		h.logger.Warn("PDF conversion failed, delivering native format", zap.Error(err))
		c.Header("X-Conversion-Fallback", "native")
		c.Header("Content-Disposition", `attachment; filename="document.xlsx"`)
		c.Data(http.StatusOK, document.MIMENative, conversionErr.NativeOutput)
		return
	}

	if errors.Is(err, document.ErrTemplateNotFound) || errors.Is(err, document.ErrUnknownKind) {
		c.JSON(http.StatusNotFound, Response{Error: err.Error()})
		return
	}

	var renderErr *document.RenderError
	if errors.As(err, &renderErr) {
		h.logger.Error("Document render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Error: "document generation failed"})
		return
	}

	h.internalError(c, err)
}

func (h *Handlers) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Error: "internal error"})
}

func outputFormat(c *gin.Context) document.OutputFormat {
	if c.DefaultQuery("format", "pdf") == "native" {
		return document.FormatNative
	}
	return document.FormatPDF
}
