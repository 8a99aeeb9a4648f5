package handlers

import (
	"context"
	"net/http"
	"time"

	"building_scheduler/internal/export"
	"building_scheduler/internal/models"
	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockSchedules struct {
	list    []models.ScheduleSummary
	record  models.ScheduleRecord
	zone    models.ZoneRecord
	zones   []models.ZoneRecord
	err     error
	lastIn  service.CreateScheduleInput
	lastKey string
	lastZID string
	deleted int
}

func (m *mockSchedules) ListSchedules(ctx context.Context) ([]models.ScheduleSummary, error) {
	return m.list, m.err
}
func (m *mockSchedules) GetSchedule(ctx context.Context, name string) (models.ScheduleRecord, error) {
	m.lastKey = name
	return m.record, m.err
}
func (m *mockSchedules) CreateSchedule(ctx context.Context, in service.CreateScheduleInput) (models.ScheduleRecord, error) {
	m.lastIn = in
	return m.record, m.err
}
func (m *mockSchedules) DeleteSchedule(ctx context.Context, name string) error {
	m.lastKey = name
	m.deleted++
	return m.err
}
func (m *mockSchedules) CreateZone(ctx context.Context, schedule, zoneID, description string) (models.ZoneRecord, error) {
	m.lastKey = schedule
	m.lastZID = zoneID
	return m.zone, m.err
}
func (m *mockSchedules) ListZones(ctx context.Context, schedule string) ([]models.ZoneRecord, error) {
	m.lastKey = schedule
	return m.zones, m.err
}

type mockEvents struct {
	result  models.ChangeResult
	details service.EventDetails
	err     error
	lastIn  service.EventInput
	lastRef models.EventRef
	creates int
	edits   int
	deletes int
}

func (m *mockEvents) CreateEvent(ctx context.Context, in service.EventInput) (models.ChangeResult, error) {
	m.creates++
	m.lastIn = in
	return m.result, m.err
}
func (m *mockEvents) EditEvent(ctx context.Context, orig models.EventRef, in service.EventInput) (models.ChangeResult, error) {
	m.edits++
	m.lastRef = orig
	m.lastIn = in
	return m.result, m.err
}
func (m *mockEvents) DeleteEvent(ctx context.Context, ref models.EventRef) (models.ChangeResult, error) {
	m.deletes++
	m.lastRef = ref
	return m.result, m.err
}
func (m *mockEvents) GetEvent(ctx context.Context, ref models.EventRef) (service.EventDetails, error) {
	m.lastRef = ref
	return m.details, m.err
}

type mockProjection struct {
	grid         models.WeekGrid
	err          error
	calls        int
	lastSchedule string
	lastStart    time.Time
}

func (m *mockProjection) ProjectWeek(ctx context.Context, schedule string, weekStart time.Time) (models.WeekGrid, error) {
	m.calls++
	m.lastSchedule = schedule
	m.lastStart = weekStart
	g := m.grid
	g.WeekStart = weekStart
	return g, m.err
}
func (m *mockProjection) ProjectAll(ctx context.Context, weekStart time.Time) (models.WeekGrid, error) {
	m.calls++
	m.lastSchedule = ""
	m.lastStart = weekStart
	g := m.grid
	g.WeekStart = weekStart
	return g, m.err
}

type mockExport struct {
	file       export.File
	err        error
	lastFormat string
	lastStart  time.Time
}

func (m *mockExport) ExportWeek(ctx context.Context, schedule string, weekStart time.Time, format string) (export.File, error) {
	m.lastFormat = format
	m.lastStart = weekStart
	return m.file, m.err
}
func (m *mockExport) ExportSchedule(ctx context.Context, schedule string) (export.File, error) {
	return m.file, m.err
}

type mockJournal struct {
	resp       []models.ChangeEntry
	err        error
	lastFilter models.ChangeFilter
}

func (m *mockJournal) ListChanges(ctx context.Context, f models.ChangeFilter) ([]models.ChangeEntry, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

// testClock is a Wednesday; its week starts 2024-05-06.
var testClock = time.Date(2024, 5, 8, 14, 30, 0, 0, time.UTC)

// newTestRouter builds the router with auth enabled and metrics off.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{AuthEnabled: true, StreamInterval: 50 * time.Millisecond})
	h.now = func() time.Time { return testClock }
	return h.InitRoutes()
}

// authedService returns a Service whose token check accepts any bearer token.
func authedService() *service.Service {
	return &service.Service{Authorization: &mockAuth{parseID: 1}}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
