package document

import (
	"context"
	"fmt"

	"github.com/mlevasseur/dossiers-militaires/internal/models"
	"go.uber.org/zap"
)

// A render request moves through resolving, rendering and an optional
// converting step. Any step can fail, there is no retry at this layer, the
// caller decides whether to ask again with a different format.
type renderStage string

const (
	stageResolving  renderStage = "resolving"
	stageRendering  renderStage = "rendering"
	stageConverting renderStage = "converting"
	stageDone       renderStage = "done"
	stageFailed     renderStage = "failed"
)

// Generator orchestrates one document render: template resolution, report
// shaping, engine fill and format conversion. Each invocation works on its
// own shaped data and resolved path, concurrent renders need no
// coordination.
type Generator struct {
	resolver *TemplateResolver
	builder  *SynthesisBuilder
	renderer *Renderer
	logger   *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(resolver *TemplateResolver, builder *SynthesisBuilder, renderer *Renderer, logger *zap.Logger) *Generator {
	return &Generator{
		resolver: resolver,
		builder:  builder,
		renderer: renderer,
		logger:   logger,
	}
}

// GenerateCaseSynthesis renders the full hierarchical report for one case
func (g *Generator) GenerateCaseSynthesis(
	ctx context.Context,
	c *models.Case,
	members []*models.ServiceMember,
	beneficiaries map[string][]*models.Beneficiary,
	format OutputFormat,
) (*RenderedDocument, error) {
	templatePath, synthesis, err := g.prepare(KindCaseSynthesis, c, members, beneficiaries)
	if err != nil {
		return nil, err
	}
	baseName := "synthese_" + c.ID
	return g.finish(ctx, KindCaseSynthesis, templatePath, SynthesisSheet(synthesis), format, baseName)
}

// GenerateFeeConvention renders the fee agreement document for one
// convention of one beneficiary
func (g *Generator) GenerateFeeConvention(
	ctx context.Context,
	c *models.Case,
	member *models.ServiceMember,
	beneficiary *models.Beneficiary,
	conventionID string,
	format OutputFormat,
) (*RenderedDocument, error) {
	templatePath, synthesis, err := g.prepareSingle(KindFeeConvention, c, member, beneficiary)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range beneficiary.Conventions {
		if beneficiary.Conventions[i].ID == conventionID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("convention %s not found on beneficiary %s", conventionID, beneficiary.ID)
	}

	memberSection := synthesis.Members[0]
	beneficiarySection := memberSection.Beneficiaries[0]
	sheet := FeeConventionSheet(synthesis, memberSection, beneficiarySection, beneficiarySection.Conventions[index])
	baseName := "convention_" + conventionID
	return g.finish(ctx, KindFeeConvention, templatePath, sheet, format, baseName)
}

// GeneratePaymentReceipt renders the receipt for one payment of one
// beneficiary
func (g *Generator) GeneratePaymentReceipt(
	ctx context.Context,
	c *models.Case,
	member *models.ServiceMember,
	beneficiary *models.Beneficiary,
	paymentID string,
	format OutputFormat,
) (*RenderedDocument, error) {
	templatePath, synthesis, err := g.prepareSingle(KindPaymentReceipt, c, member, beneficiary)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range beneficiary.Payments {
		if beneficiary.Payments[i].ID == paymentID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("payment %s not found on beneficiary %s", paymentID, beneficiary.ID)
	}

	memberSection := synthesis.Members[0]
	beneficiarySection := memberSection.Beneficiaries[0]
	sheet := PaymentReceiptSheet(synthesis, memberSection, beneficiarySection, beneficiarySection.Payments[index])
	baseName := "recu_" + paymentID
	return g.finish(ctx, KindPaymentReceipt, templatePath, sheet, format, baseName)
}

// GenerateInformationSheet renders the information notice for one member
// with its beneficiary list
func (g *Generator) GenerateInformationSheet(
	ctx context.Context,
	c *models.Case,
	member *models.ServiceMember,
	beneficiaries []*models.Beneficiary,
	format OutputFormat,
) (*RenderedDocument, error) {
	if member == nil {
		return nil, fmt.Errorf("member is required for %s", KindInformationSheet)
	}
	byMember := map[string][]*models.Beneficiary{member.ID: beneficiaries}
	templatePath, synthesis, err := g.prepare(KindInformationSheet, c, []*models.ServiceMember{member}, byMember)
	if err != nil {
		return nil, err
	}
	sheet := InformationSheet(synthesis, synthesis.Members[0])
	baseName := "fiche_" + member.ID
	return g.finish(ctx, KindInformationSheet, templatePath, sheet, format, baseName)
}

func (g *Generator) prepareSingle(kind DocumentKind, c *models.Case, member *models.ServiceMember, beneficiary *models.Beneficiary) (string, *Synthesis, error) {
	if member == nil || beneficiary == nil {
		return "", nil, fmt.Errorf("member and beneficiary are required for %s", kind)
	}
	return g.prepare(kind, c, []*models.ServiceMember{member},
		map[string][]*models.Beneficiary{member.ID: {beneficiary}})
}

func (g *Generator) prepare(kind DocumentKind, c *models.Case, members []*models.ServiceMember, beneficiaries map[string][]*models.Beneficiary) (string, *Synthesis, error) {
	g.logStage(kind, stageResolving)
	templatePath, err := g.resolver.Resolve(kind)
	if err != nil {
		g.logStage(kind, stageFailed)
		return "", nil, err
	}

	synthesis, err := g.builder.BuildCaseSynthesis(c, members, beneficiaries)
	if err != nil {
		g.logStage(kind, stageFailed)
		return "", nil, err
	}
	return templatePath, synthesis, nil
}

func (g *Generator) finish(ctx context.Context, kind DocumentKind, templatePath string, sheet *SheetData, format OutputFormat, baseName string) (*RenderedDocument, error) {
	stage := stageRendering
	if format == FormatPDF {
		stage = stageConverting
	}
	g.logStage(kind, stage)

	doc, err := g.renderer.Render(ctx, kind, templatePath, sheet, format, baseName)
	if err != nil {
		g.logStage(kind, stageFailed)
		return nil, err
	}

	g.logStage(kind, stageDone)
	g.logger.Info("Document generated",
		zap.String("kind", string(kind)),
		zap.String("filename", doc.Filename),
		zap.Int("size", len(doc.Content)))
	return doc, nil
}

func (g *Generator) logStage(kind DocumentKind, stage renderStage) {
	g.logger.Debug("Render stage",
		zap.String("kind", string(kind)),
		zap.String("stage", string(stage)))
}
