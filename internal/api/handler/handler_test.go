package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock VesselService ──

type mockVesselService struct {
	createResult     *dto.VesselResponse
	createErr        error
	getResult        *dto.VesselResponse
	getErr           error
	listResult       []dto.VesselResponse
	listErr          error
	updateResult     *dto.VesselResponse
	updateErr        error
	deleteErr        error
	complianceResult *dto.VesselComplianceResponse
	complianceErr    error
	statsResult      *dto.ContractStatsResponse
	statsErr         error
}

func (m *mockVesselService) Create(_ context.Context, _ *dto.CreateVesselRequest, _ string) (*dto.VesselResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockVesselService) GetByID(_ context.Context, _ string) (*dto.VesselResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockVesselService) List(_ context.Context) ([]dto.VesselResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockVesselService) Update(_ context.Context, _ string, _ *dto.UpdateVesselRequest, _ string) (*dto.VesselResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockVesselService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockVesselService) GetCompliance(_ context.Context, _ string) (*dto.VesselComplianceResponse, error) {
	return m.complianceResult, m.complianceErr
}
func (m *mockVesselService) GetContractStats(_ context.Context, _ string) (*dto.ContractStatsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock CrewService ──

type mockCrewService struct {
	createResult     *dto.CrewMemberResponse
	createErr        error
	getResult        *dto.CrewMemberResponse
	getErr           error
	listResult       []dto.CrewMemberResponse
	listTotal        int64
	listErr          error
	updateResult     *dto.CrewMemberResponse
	updateErr        error
	deleteErr        error
	signOnErr        error
	signOffErr       error
	rotationsResult  []dto.RotationResponse
	rotationsErr     error
	complianceResult *dto.ComplianceResponse
	complianceErr    error
}

func (m *mockCrewService) Create(_ context.Context, _ *dto.CreateCrewMemberRequest, _ string) (*dto.CrewMemberResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCrewService) GetByID(_ context.Context, _ string) (*dto.CrewMemberResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCrewService) List(_ context.Context, _ *dto.CrewListRequest) ([]dto.CrewMemberResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCrewService) Update(_ context.Context, _ string, _ *dto.UpdateCrewMemberRequest, _ string) (*dto.CrewMemberResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCrewService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockCrewService) SignOn(_ context.Context, _ string, _ *dto.SignOnRequest, _ string) error {
	return m.signOnErr
}
func (m *mockCrewService) SignOff(_ context.Context, _ string, _ *dto.SignOffRequest, _ string) error {
	return m.signOffErr
}
func (m *mockCrewService) ListRotations(_ context.Context, _ string) ([]dto.RotationResponse, error) {
	return m.rotationsResult, m.rotationsErr
}
func (m *mockCrewService) GetCompliance(_ context.Context, _ string) (*dto.ComplianceResponse, error) {
	return m.complianceResult, m.complianceErr
}

// ── Mock DocumentService ──

type mockDocumentService struct {
	createResult   *dto.DocumentResponse
	createErr      error
	getResult      *dto.DocumentResponse
	getErr         error
	listResult     []dto.DocumentResponse
	listErr        error
	updateResult   *dto.DocumentResponse
	updateErr      error
	deleteErr      error
	attachErr      error
	filePath       string
	filePathErr    error
	expiringResult []dto.DocumentResponse
	expiringErr    error
}

func (m *mockDocumentService) Create(_ context.Context, _ string, _ *dto.CreateDocumentRequest, _ string) (*dto.DocumentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockDocumentService) GetByID(_ context.Context, _ string) (*dto.DocumentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockDocumentService) ListByCrewMember(_ context.Context, _ string) ([]dto.DocumentResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockDocumentService) Update(_ context.Context, _ string, _ *dto.UpdateDocumentRequest, _ string) (*dto.DocumentResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockDocumentService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockDocumentService) AttachFile(_ context.Context, _ string, _ string, _ int64, _ io.Reader, _ string) error {
	return m.attachErr
}
func (m *mockDocumentService) FilePath(_ context.Context, _ string) (string, error) {
	return m.filePath, m.filePathErr
}
func (m *mockDocumentService) ListExpiring(_ context.Context, _ *dto.ExpiringDocumentsRequest) ([]dto.DocumentResponse, error) {
	return m.expiringResult, m.expiringErr
}

// ── Mock ContractService ──

type mockContractService struct {
	createResult   *dto.ContractResponse
	createErr      error
	getResult      *dto.ContractResponse
	getErr         error
	byCrewResult   []dto.ContractResponse
	byCrewErr      error
	byVesselResult []dto.ContractResponse
	byVesselErr    error
	updateResult   *dto.ContractResponse
	updateErr      error
	completeErr    error
}

func (m *mockContractService) Create(_ context.Context, _ *dto.CreateContractRequest, _ string) (*dto.ContractResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockContractService) GetByID(_ context.Context, _ string) (*dto.ContractResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockContractService) ListByCrewMember(_ context.Context, _ string) ([]dto.ContractResponse, error) {
	return m.byCrewResult, m.byCrewErr
}
func (m *mockContractService) ListByVessel(_ context.Context, _ string, _ *dto.ContractListRequest) ([]dto.ContractResponse, error) {
	return m.byVesselResult, m.byVesselErr
}
func (m *mockContractService) Update(_ context.Context, _ string, _ *dto.UpdateContractRequest, _ string) (*dto.ContractResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockContractService) Complete(_ context.Context, _ string, _ string) error {
	return m.completeErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportComplianceMatrix(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@fleet.example",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@fleet.example",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	mock := &mockAuthService{changePassErr: service.ErrOldPasswordWrong}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "Old12345",
		NewPassword: "New12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// VesselHandler Tests
// ═══════════════════════════════════════════════════════════

func TestVesselHandler_CreateVessel_Success(t *testing.T) {
	mock := &mockVesselService{
		createResult: &dto.VesselResponse{
			ID:        "vessel-1",
			Name:      "MV Alpha",
			IMONumber: "9000001",
		},
	}
	h := NewVesselHandler(mock, &mockContractService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/vessels", jsonBody(dto.CreateVesselRequest{
		Name:      "MV Alpha",
		Type:      "bulk_carrier",
		Flag:      "Panama",
		IMONumber: "9000001",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/vessels", func(c *gin.Context) {
		setAuth(c)
		h.CreateVessel(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestVesselHandler_CreateVessel_BadIMO(t *testing.T) {
	mock := &mockVesselService{}
	h := NewVesselHandler(mock, &mockContractService{})

	w := setupRecorder()
	// IMO 必须是 7 位数字
	req := httptest.NewRequest("POST", "/vessels", jsonBody(dto.CreateVesselRequest{
		Name:      "MV Alpha",
		Type:      "bulk_carrier",
		Flag:      "Panama",
		IMONumber: "12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/vessels", func(c *gin.Context) {
		setAuth(c)
		h.CreateVessel(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVesselHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrVesselNotFound, 404, 12001},
		{"IMOExists", service.ErrVesselIMOExists, 409, 12002},
		{"HasCrew", service.ErrVesselHasCrew, 400, 12003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVesselService{getErr: tt.err}
			h := NewVesselHandler(mock, &mockContractService{})

			w := setupRecorder()
			req := httptest.NewRequest("GET", "/vessels/vessel-1", nil)

			r := gin.New()
			r.GET("/vessels/:id", h.GetVessel)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestVesselHandler_GetCompliance_Success(t *testing.T) {
	mock := &mockVesselService{
		complianceResult: &dto.VesselComplianceResponse{
			VesselID:  "vessel-1",
			Compliant: 5,
			Warning:   2,
			Critical:  1,
		},
	}
	h := NewVesselHandler(mock, &mockContractService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/vessels/vessel-1/compliance", nil)

	r := gin.New()
	r.GET("/vessels/:id/compliance", h.GetCompliance)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CrewHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCrewHandler_SignOn_Success(t *testing.T) {
	mock := &mockCrewService{}
	h := NewCrewHandler(mock, &mockDocumentService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/crew/crew-1/sign-on", jsonBody(dto.SignOnRequest{
		VesselID:   "11111111-1111-1111-1111-111111111111",
		SignOnDate: "2026-08-01",
		Port:       "Singapore",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/crew/:id/sign-on", func(c *gin.Context) {
		setAuth(c)
		h.SignOn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCrewHandler_SignOn_AlreadyOnBoard(t *testing.T) {
	mock := &mockCrewService{signOnErr: service.ErrCrewAlreadyOnBoard}
	h := NewCrewHandler(mock, &mockDocumentService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/crew/crew-1/sign-on", jsonBody(dto.SignOnRequest{
		VesselID:   "11111111-1111-1111-1111-111111111111",
		SignOnDate: "2026-08-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/crew/:id/sign-on", func(c *gin.Context) {
		setAuth(c)
		h.SignOn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestCrewHandler_SignOff_BeforeSignOn(t *testing.T) {
	mock := &mockCrewService{signOffErr: service.ErrSignOffBeforeOn}
	h := NewCrewHandler(mock, &mockDocumentService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/crew/crew-1/sign-off", jsonBody(dto.SignOffRequest{
		SignOffDate: "2026-07-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/crew/:id/sign-off", func(c *gin.Context) {
		setAuth(c)
		h.SignOff(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCrewHandler_ListCrew_CaptainScoped(t *testing.T) {
	mock := &mockCrewService{
		listResult: []dto.CrewMemberResponse{{ID: "crew-1"}},
		listTotal:  1,
	}
	h := NewCrewHandler(mock, &mockDocumentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/crew?vessel_id=11111111-1111-1111-1111-111111111111", nil)

	r := gin.New()
	r.GET("/crew", func(c *gin.Context) {
		c.Set("user_id", "captain-1")
		c.Set("role", "captain")
		c.Set("vessel_id", "22222222-2222-2222-2222-222222222222")
		h.ListCrew(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestCrewHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrCrewNotFound, 404, 13001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCrewService{getErr: tt.err}
			h := NewCrewHandler(mock, &mockDocumentService{})

			w := setupRecorder()
			req := httptest.NewRequest("GET", "/crew/crew-1", nil)

			r := gin.New()
			r.GET("/crew/:id", h.GetCrewMember)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// DocumentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDocumentHandler_GetDocument_NotFound(t *testing.T) {
	mock := &mockDocumentService{getErr: service.ErrDocumentNotFound}
	h := NewDocumentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/documents/doc-1", nil)

	r := gin.New()
	r.GET("/documents/:id", h.GetDocument)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14001 {
		t.Errorf("expected error code 14001, got %d", resp.Code)
	}
}

func TestDocumentHandler_ListExpiring_Success(t *testing.T) {
	mock := &mockDocumentService{
		expiringResult: []dto.DocumentResponse{
			{ID: "doc-1", Type: "passport", Status: "expiring"},
		},
	}
	h := NewDocumentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/documents/expiring?days=30", nil)

	r := gin.New()
	r.GET("/documents/expiring", h.ListExpiring)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ContractHandler Tests
// ═══════════════════════════════════════════════════════════

func TestContractHandler_CreateContract_DateInvalid(t *testing.T) {
	mock := &mockContractService{createErr: service.ErrContractDateInvalid}
	h := NewContractHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/contracts", jsonBody(dto.CreateContractRequest{
		CrewMemberID: "11111111-1111-1111-1111-111111111111",
		VesselID:     "22222222-2222-2222-2222-222222222222",
		StartDate:    "2026-09-01",
		EndDate:      "2026-08-01",
		Rank:         "Chief Officer",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/contracts", func(c *gin.Context) {
		setAuth(c)
		h.CreateContract(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

func TestContractHandler_CompleteContract_Success(t *testing.T) {
	mock := &mockContractService{}
	h := NewContractHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/contracts/contract-1/complete", nil)

	r := gin.New()
	r.POST("/contracts/:id/complete", func(c *gin.Context) {
		setAuth(c)
		h.CompleteContract(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	buf := bytes.NewBufferString("excel content")
	mock := &mockExportService{
		buf:      buf,
		filename: "证件矩阵_MV Alpha_2026-08-24.xlsx",
	}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/vessels/vessel-1/compliance", nil)

	r := gin.New()
	r.GET("/export/vessels/:id/compliance", h.ExportVesselCompliance)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_NoCrew(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoCrew}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/vessels/vessel-1/compliance", nil)

	r := gin.New()
	r.GET("/export/vessels/:id/compliance", h.ExportVesselCompliance)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18001 {
		t.Errorf("expected error code 18001, got %d", resp.Code)
	}
}
