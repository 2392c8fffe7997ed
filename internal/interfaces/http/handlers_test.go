package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mlevasseur/dossiers-militaires/internal/attachments"
	"github.com/mlevasseur/dossiers-militaires/internal/document"
	"github.com/mlevasseur/dossiers-militaires/internal/models"
	"github.com/mlevasseur/dossiers-militaires/internal/repository"
	"github.com/mlevasseur/dossiers-militaires/internal/storage"
	"github.com/mlevasseur/dossiers-militaires/pkg/database"
)

type fakeConverter struct{}

func (fakeConverter) Convert(ctx context.Context, native []byte, baseName string) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type testEnv struct {
	router          *gin.Engine
	caseID          string
	memberID        string
	beneficiaryID   string
	conventionID    string
	paymentID       string
	beneficiaryRepo *repository.BeneficiaryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	ctx := context.Background()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).Run())

	caseRepo := repository.NewCaseRepository(db, logger)
	memberRepo := repository.NewMemberRepository(db, logger)
	beneficiaryRepo := repository.NewBeneficiaryRepository(db, logger)
	statsRepo := repository.NewStatisticsRepository(db, logger)

	base := t.TempDir()
	templateStore, err := storage.NewTemplateStore(
		filepath.Join(base, "custom"),
		filepath.Join(base, "default"),
		logger,
	)
	require.NoError(t, err)

	for _, fileName := range []string{
		"synthese_dossier.xlsx",
		"convention_honoraires.xlsx",
		"recu_paiement.xlsx",
		"fiche_information.xlsx",
	} {
		f := excelize.NewFile()
		require.NoError(t, f.SaveAs(filepath.Join(templateStore.DefaultDir(), fileName)))
		f.Close()
	}

	resolver := document.NewTemplateResolver(
		templateStore.CustomDir(), templateStore.DefaultDir(), templateStore, logger)
	builder := document.NewSynthesisBuilder(document.NewLabelMapper(), logger)
	renderer := document.NewRenderer(fakeConverter{}, logger)
	generator := document.NewGenerator(resolver, builder, renderer, logger)

	cache := attachments.NewCache(10*time.Minute, 16, attachments.SystemClock{}, logger)
	fileStorage := storage.NewLocalFileStorage(t.TempDir(), logger)

	handlers := NewHandlers(caseRepo, memberRepo, beneficiaryRepo, statsRepo,
		generator, templateStore, fileStorage, cache, logger)
	server := NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, handlers, logger)

	// seed one full case tree
	incident := time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC)
	c := &models.Case{Title: "Attentat de la caserne X", IncidentDate: &incident, Caseworker: "M. Dupont"}
	require.NoError(t, caseRepo.Create(ctx, c))

	member := &models.ServiceMember{
		CaseID: c.ID, FirstName: "Jean", LastName: "Martin",
		Region: "Occitanie", Circumstance: models.CircumstanceAttack,
	}
	require.NoError(t, memberRepo.Create(ctx, member))

	beneficiary := &models.Beneficiary{MemberID: member.ID, FirstName: "Jean", LastName: "Martin", Qualifier: models.QualifierSelf}
	require.NoError(t, beneficiaryRepo.Create(ctx, beneficiary))

	convention := &models.Convention{BeneficiaryID: beneficiary.ID, Amount: 5000, ResultPercent: 10}
	require.NoError(t, beneficiaryRepo.AddConvention(ctx, convention))

	payment := &models.Payment{BeneficiaryID: beneficiary.ID, Type: models.PaymentTypeProvision, Amount: 1200, RecipientName: "Jean Martin"}
	require.NoError(t, beneficiaryRepo.AddPayment(ctx, payment))

	return &testEnv{
		router:          server.Router(),
		caseID:          c.ID,
		memberID:        member.ID,
		beneficiaryID:   beneficiary.ID,
		conventionID:    convention.ID,
		paymentID:       payment.ID,
		beneficiaryRepo: beneficiaryRepo,
	}
}

func (e *testEnv) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHandlers_HealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestHandlers_CaseSynthesis(t *testing.T) {
	env := newTestEnv(t)

	t.Run("native format", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cases/"+env.caseID+"/synthesis?format=native", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, document.MIMENative, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "synthese_"+env.caseID+".xlsx")
	})

	t.Run("pdf by default", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cases/"+env.caseID+"/synthesis", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, document.MIMEPDF, w.Header().Get("Content-Type"))
	})

	t.Run("unknown case", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cases/no-such-case/synthesis", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlers_InformationSheet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/cases/"+env.caseID+"/members/"+env.memberID+"/information-sheet?format=native", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fiche_"+env.memberID)

	w = env.do(http.MethodGet, "/api/cases/"+env.caseID+"/members/no-such-member/information-sheet", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_FeeConvention(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/beneficiaries/"+env.beneficiaryID+"/conventions/"+env.conventionID+"/document?format=native", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "convention_"+env.conventionID)

	w = env.do(http.MethodGet, "/api/beneficiaries/no-such-beneficiary/conventions/"+env.conventionID+"/document", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_PaymentReceipt(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/beneficiaries/"+env.beneficiaryID+"/payments/"+env.paymentID+"/receipt?format=native", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "recu_"+env.paymentID)
}

func TestHandlers_Statistics(t *testing.T) {
	env := newTestEnv(t)

	t.Run("year and region", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/statistics?dims=year,region", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		buckets, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, buckets, "2023|Occitanie")
	})

	t.Run("unknown dimension rejected", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/statistics?dims=rank", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlers_TemplateLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/templates/case-synthesis", []byte("custom workbook bytes"))
	assert.Equal(t, http.StatusOK, w.Code)

	// the override is not a valid workbook, rendering now fails
	w = env.do(http.MethodGet, "/api/cases/"+env.caseID+"/synthesis?format=native", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = env.do(http.MethodDelete, "/api/templates/case-synthesis", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/cases/"+env.caseID+"/synthesis?format=native", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/templates/unknown-kind", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_AttachmentLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/cases/"+env.caseID+"/synthesis/attachments?format=native", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	id, ok := data["attachment_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	w = env.do(http.MethodGet, "/api/attachments/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, document.MIMENative, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = env.do(http.MethodGet, "/api/attachments/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_CaseLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/cases", []byte(`{"title":"Accident de manoeuvre","location":"Canjuers"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/api/cases", []byte(`{"location":"sans titre"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/cases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	w = env.do(http.MethodPost, "/api/cases/"+env.caseID+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/cases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	w = env.do(http.MethodPost, "/api/cases/no-such-case/archive", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_StoredDocument(t *testing.T) {
	env := newTestEnv(t)

	// rendering the synthesis leaves an archived copy behind
	w := env.do(http.MethodGet, "/api/cases/"+env.caseID+"/synthesis?format=native", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/cases/"+env.caseID+"/documents/synthese_"+env.caseID+".xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, document.MIMENative, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = env.do(http.MethodGet, "/api/cases/"+env.caseID+"/documents/absent.pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
