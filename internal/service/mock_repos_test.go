package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// testConfig 各 Service 测试共用的配置（阈值取默认值）
func testConfig() *config.Config {
	return &config.Config{
		Expiry: config.ExpiryConfig{
			DocumentThresholdDays: 30,
			ContractThresholdDays: 45,
		},
		Storage: config.StorageConfig{
			UploadDir:     "/tmp/sea-crew-test-uploads",
			MaxFileSizeMB: 10,
		},
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (m *mockUserRepo) GetCaptainByVessel(_ context.Context, vesselID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Role == model.RoleCaptain && u.VesselID != nil && *u.VesselID == vesselID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock VesselRepository ──

type mockVesselRepo struct {
	vessels map[string]*model.Vessel
	crew    *mockCrewRepo // CountCrewOnBoard 需要访问船员表
}

func newMockVesselRepo(crew *mockCrewRepo) *mockVesselRepo {
	return &mockVesselRepo{vessels: make(map[string]*model.Vessel), crew: crew}
}

func (m *mockVesselRepo) Create(_ context.Context, vessel *model.Vessel) error {
	if vessel.VesselID == "" {
		vessel.VesselID = "vessel-" + vessel.IMONumber
	}
	m.vessels[vessel.VesselID] = vessel
	return nil
}

func (m *mockVesselRepo) GetByID(_ context.Context, id string) (*model.Vessel, error) {
	if v, ok := m.vessels[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVesselRepo) GetByIMO(_ context.Context, imo string) (*model.Vessel, error) {
	for _, v := range m.vessels {
		if v.IMONumber == imo {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVesselRepo) List(_ context.Context) ([]model.Vessel, error) {
	var result []model.Vessel
	for _, v := range m.vessels {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockVesselRepo) Update(_ context.Context, vessel *model.Vessel) error {
	m.vessels[vessel.VesselID] = vessel
	return nil
}

func (m *mockVesselRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.vessels, id)
	return nil
}

func (m *mockVesselRepo) CountCrewOnBoard(_ context.Context, vesselID string) (int64, error) {
	var n int64
	if m.crew == nil {
		return 0, nil
	}
	for _, c := range m.crew.members {
		if c.CurrentVesselID != nil && *c.CurrentVesselID == vesselID {
			n++
		}
	}
	return n, nil
}

func (m *mockVesselRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.vessels)), nil
}

// ── Mock CrewRepository ──

type mockCrewRepo struct {
	members map[string]*model.CrewMember
	deleted map[string]bool
}

func newMockCrewRepo() *mockCrewRepo {
	return &mockCrewRepo{
		members: make(map[string]*model.CrewMember),
		deleted: make(map[string]bool),
	}
}

func (m *mockCrewRepo) Create(_ context.Context, member *model.CrewMember) error {
	if member.CrewMemberID == "" {
		member.CrewMemberID = fmt.Sprintf("crew-%d", len(m.members)+1)
	}
	m.members[member.CrewMemberID] = member
	return nil
}

func (m *mockCrewRepo) GetByID(_ context.Context, id string) (*model.CrewMember, error) {
	if c, ok := m.members[id]; ok && !m.deleted[id] {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCrewRepo) List(_ context.Context, filter repository.CrewFilter) ([]model.CrewMember, int64, error) {
	var result []model.CrewMember
	for _, c := range m.members {
		if m.deleted[c.CrewMemberID] {
			continue
		}
		if filter.VesselID != "" && (c.CurrentVesselID == nil || *c.CurrentVesselID != filter.VesselID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Rank != "" && c.Rank != filter.Rank {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.FirstName), needle) &&
				!strings.Contains(strings.ToLower(c.LastName), needle) {
				continue
			}
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	return result, int64(len(result)), nil
}

func (m *mockCrewRepo) ListByVessel(_ context.Context, vesselID string) ([]model.CrewMember, error) {
	var result []model.CrewMember
	for _, c := range m.members {
		if m.deleted[c.CrewMemberID] {
			continue
		}
		if c.CurrentVesselID != nil && *c.CurrentVesselID == vesselID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	return result, nil
}

func (m *mockCrewRepo) Update(_ context.Context, member *model.CrewMember) error {
	m.members[member.CrewMemberID] = member
	return nil
}

func (m *mockCrewRepo) DeleteCascade(_ context.Context, id string, _ string) error {
	m.deleted[id] = true
	return nil
}

func (m *mockCrewRepo) Count(_ context.Context) (int64, error) {
	var n int64
	for id := range m.members {
		if !m.deleted[id] {
			n++
		}
	}
	return n, nil
}

func (m *mockCrewRepo) CountOnBoard(_ context.Context) (int64, error) {
	var n int64
	for id, c := range m.members {
		if !m.deleted[id] && c.Status == model.CrewStatusOnBoard {
			n++
		}
	}
	return n, nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	docs map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*model.Document)}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.Document) error {
	if doc.DocumentID == "" {
		doc.DocumentID = fmt.Sprintf("doc-%d", len(m.docs)+1)
	}
	m.docs[doc.DocumentID] = doc
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	if d, ok := m.docs[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) ListByCrewMember(_ context.Context, crewMemberID string) ([]model.Document, error) {
	var result []model.Document
	for _, d := range m.docs {
		if d.CrewMemberID == crewMemberID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result, nil
}

func (m *mockDocumentRepo) ListByCrewMembers(_ context.Context, crewMemberIDs []string) ([]model.Document, error) {
	want := make(map[string]bool, len(crewMemberIDs))
	for _, id := range crewMemberIDs {
		want[id] = true
	}
	var result []model.Document
	for _, d := range m.docs {
		if want[d.CrewMemberID] {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) ListExpiringBefore(_ context.Context, before time.Time) ([]model.Document, error) {
	var result []model.Document
	for _, d := range m.docs {
		if d.ExpiryDate != nil && !d.ExpiryDate.After(before) {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExpiryDate.Before(*result[j].ExpiryDate) })
	return result, nil
}

func (m *mockDocumentRepo) Update(_ context.Context, doc *model.Document) error {
	m.docs[doc.DocumentID] = doc
	return nil
}

func (m *mockDocumentRepo) UpdateStatus(_ context.Context, id string, status string) error {
	if d, ok := m.docs[id]; ok {
		d.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.docs, id)
	return nil
}

// ── Mock ContractRepository ──

type mockContractRepo struct {
	contracts map[string]*model.Contract
}

func newMockContractRepo() *mockContractRepo {
	return &mockContractRepo{contracts: make(map[string]*model.Contract)}
}

func (m *mockContractRepo) Create(_ context.Context, contract *model.Contract) error {
	if contract.ContractID == "" {
		contract.ContractID = fmt.Sprintf("contract-%d", len(m.contracts)+1)
	}
	m.contracts[contract.ContractID] = contract
	return nil
}

func (m *mockContractRepo) GetByID(_ context.Context, id string) (*model.Contract, error) {
	if c, ok := m.contracts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepo) GetActiveByCrewMember(_ context.Context, crewMemberID string) (*model.Contract, error) {
	for _, c := range m.contracts {
		if c.CrewMemberID == crewMemberID && c.Status == model.ContractStatusActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepo) ListByCrewMember(_ context.Context, crewMemberID string) ([]model.Contract, error) {
	var result []model.Contract
	for _, c := range m.contracts {
		if c.CrewMemberID == crewMemberID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *mockContractRepo) ListActiveByVessel(_ context.Context, vesselID string) ([]model.Contract, error) {
	var result []model.Contract
	for _, c := range m.contracts {
		if c.VesselID == vesselID && c.Status == model.ContractStatusActive {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndDate.Before(result[j].EndDate) })
	return result, nil
}

func (m *mockContractRepo) ListActive(_ context.Context) ([]model.Contract, error) {
	var result []model.Contract
	for _, c := range m.contracts {
		if c.Status == model.ContractStatusActive {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndDate.Before(result[j].EndDate) })
	return result, nil
}

func (m *mockContractRepo) Update(_ context.Context, contract *model.Contract) error {
	m.contracts[contract.ContractID] = contract
	return nil
}

func (m *mockContractRepo) CompleteActiveByCrewMember(_ context.Context, crewMemberID string, _ string) error {
	for _, c := range m.contracts {
		if c.CrewMemberID == crewMemberID && c.Status == model.ContractStatusActive {
			c.Status = model.ContractStatusCompleted
		}
	}
	return nil
}

// ── Mock RotationRepository ──

type mockRotationRepo struct {
	rotations map[string]*model.CrewRotation
}

func newMockRotationRepo() *mockRotationRepo {
	return &mockRotationRepo{rotations: make(map[string]*model.CrewRotation)}
}

func (m *mockRotationRepo) Create(_ context.Context, rotation *model.CrewRotation) error {
	if rotation.RotationID == "" {
		rotation.RotationID = fmt.Sprintf("rotation-%d", len(m.rotations)+1)
	}
	m.rotations[rotation.RotationID] = rotation
	return nil
}

func (m *mockRotationRepo) GetOpen(_ context.Context, crewMemberID string) (*model.CrewRotation, error) {
	for _, r := range m.rotations {
		if r.CrewMemberID == crewMemberID && r.SignOffDate == nil {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationRepo) ListByCrewMember(_ context.Context, crewMemberID string) ([]model.CrewRotation, error) {
	var result []model.CrewRotation
	for _, r := range m.rotations {
		if r.CrewMemberID == crewMemberID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SignOnDate.After(result[j].SignOnDate) })
	return result, nil
}

func (m *mockRotationRepo) ListByVessel(_ context.Context, vesselID string) ([]model.CrewRotation, error) {
	var result []model.CrewRotation
	for _, r := range m.rotations {
		if r.VesselID == vesselID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRotationRepo) Update(_ context.Context, rotation *model.CrewRotation) error {
	m.rotations[rotation.RotationID] = rotation
	return nil
}

// ── Mock EmailSettingsRepository ──

type mockEmailSettingsRepo struct {
	settings *model.EmailSettings
}

func newMockEmailSettingsRepo() *mockEmailSettingsRepo {
	return &mockEmailSettingsRepo{
		settings: &model.EmailSettings{
			SettingsID:   "settings-1",
			Enabled:      false,
			ReminderDays: model.IntArray{30, 15, 7},
			Recipients:   model.StringArray{model.RecipientAdmin},
		},
	}
}

func (m *mockEmailSettingsRepo) Get(_ context.Context) (*model.EmailSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.settings, nil
}

func (m *mockEmailSettingsRepo) Update(_ context.Context, settings *model.EmailSettings) error {
	m.settings = settings
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if notification.NotificationID == "" {
		notification.NotificationID = fmt.Sprintf("notification-%d", len(m.notifications)+1)
	}
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, offset, limit int) ([]model.Notification, int64, error) {
	total := int64(len(m.notifications))
	if offset >= len(m.notifications) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.notifications) {
		end = len(m.notifications)
	}
	return m.notifications[offset:end], total, nil
}

// ── Mock Mailer ──

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type mockMailer struct {
	sent    []sentMail
	failAll bool
}

func (m *mockMailer) Send(_ context.Context, to []string, subject, body string) error {
	if m.failAll {
		return fmt.Errorf("SMTP 连接失败")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ── Mock SentMarker ──

type mockSentMarker struct {
	marks map[string]bool
}

func newMockSentMarker() *mockSentMarker {
	return &mockSentMarker{marks: make(map[string]bool)}
}

func (m *mockSentMarker) MarkReminderSent(_ context.Context, kind, recordID string, dayMark int) (bool, error) {
	key := fmt.Sprintf("%s:%s:%d", kind, recordID, dayMark)
	if m.marks[key] {
		return false, nil
	}
	m.marks[key] = true
	return true, nil
}

// ── 共用测试工厂 ──

// newTestRepository 组装全 mock 的 Repository 聚合
func newTestRepository() (*repository.Repository, *mockCrewRepo, *mockVesselRepo, *mockDocumentRepo, *mockContractRepo) {
	crewRepo := newMockCrewRepo()
	vesselRepo := newMockVesselRepo(crewRepo)
	docRepo := newMockDocumentRepo()
	contractRepo := newMockContractRepo()
	repo := &repository.Repository{
		User:          newMockUserRepo(),
		Vessel:        vesselRepo,
		Crew:          crewRepo,
		Document:      docRepo,
		Contract:      contractRepo,
		Rotation:      newMockRotationRepo(),
		EmailSettings: newMockEmailSettingsRepo(),
		Notification:  newMockNotificationRepo(),
	}
	return repo, crewRepo, vesselRepo, docRepo, contractRepo
}
