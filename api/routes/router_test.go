package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seatstack/backoffice/internal/banks"
	"github.com/seatstack/backoffice/internal/members"
	"github.com/seatstack/backoffice/internal/reconcile"
	"github.com/seatstack/backoffice/internal/records"
	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/internal/vendors"
	pkgAuth "github.com/seatstack/backoffice/pkg/auth"
	"github.com/seatstack/backoffice/pkg/config"
	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/pagination"
	"github.com/seatstack/backoffice/pkg/sportsdata"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryIdemStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryIdemStore() *memoryIdemStore {
	return &memoryIdemStore{data: map[string]string{}}
}

func (s *memoryIdemStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memoryIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	s.data[key] = str
	return true, nil
}

func (s *memoryIdemStore) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

func (s *memoryIdemStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

type stubRecordsService struct {
	list func(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters records.Filters) (*records.RecordList, error)
}

func (s stubRecordsService) CreatePurchase(ctx context.Context, orgID uuid.UUID, input records.CreatePurchaseInput) (*records.RecordDetail, error) {
	panic("unimplemented")
}

func (s stubRecordsService) CreateOrder(ctx context.Context, orgID uuid.UUID, input records.CreateOrderInput) (*records.RecordDetail, error) {
	panic("unimplemented")
}

func (s stubRecordsService) Get(ctx context.Context, orgID, id uuid.UUID) (*records.RecordDetail, error) {
	panic("unimplemented")
}

func (s stubRecordsService) List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters records.Filters) (*records.RecordList, error) {
	if s.list != nil {
		return s.list(ctx, orgID, params, filters)
	}
	return &records.RecordList{}, nil
}

func (s stubRecordsService) ListAvailable(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error) {
	panic("unimplemented")
}

func (s stubRecordsService) ListUnfulfilled(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error) {
	panic("unimplemented")
}

func (s stubRecordsService) Update(ctx context.Context, orgID, id uuid.UUID, input records.UpdateInput) (*models.InventoryRecord, error) {
	panic("unimplemented")
}

func (s stubRecordsService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status enums.RecordStatus) (*models.InventoryRecord, error) {
	panic("unimplemented")
}

type stubReconcileService struct{}

func (stubReconcileService) Assign(ctx context.Context, orgID uuid.UUID, input reconcile.AssignInput) (*reconcile.SaleDetail, error) {
	panic("unimplemented")
}

func (stubReconcileService) Candidates(ctx context.Context, orgID, orderID uuid.UUID, showAll bool) ([]models.InventoryRecord, error) {
	panic("unimplemented")
}

func (stubReconcileService) Split(ctx context.Context, orgID, recordID uuid.UUID, input reconcile.SplitInput) (*reconcile.SplitResult, error) {
	panic("unimplemented")
}

func (stubReconcileService) ListSales(ctx context.Context, orgID uuid.UUID) ([]reconcile.SaleDetail, error) {
	return []reconcile.SaleDetail{}, nil
}

func (stubReconcileService) CompleteSale(ctx context.Context, orgID, saleID uuid.UUID) (*reconcile.SaleDetail, error) {
	panic("unimplemented")
}

func (stubReconcileService) UnassignSale(ctx context.Context, orgID, saleID uuid.UUID) (*reconcile.SaleDetail, error) {
	panic("unimplemented")
}

func (stubReconcileService) Cancel(ctx context.Context, orgID, recordID uuid.UUID) (*reconcile.CancelResult, error) {
	panic("unimplemented")
}

type stubTransactionsService struct{}

func (stubTransactionsService) Create(ctx context.Context, orgID uuid.UUID, input transactions.CreateInput) (*models.Transaction, error) {
	panic("unimplemented")
}

func (stubTransactionsService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	panic("unimplemented")
}

func (stubTransactionsService) List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters transactions.Filters) (*transactions.TransactionList, error) {
	return &transactions.TransactionList{}, nil
}

func (stubTransactionsService) MarkPaid(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	panic("unimplemented")
}

func (stubTransactionsService) Cancel(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	panic("unimplemented")
}

type stubVendorsService struct {
	create func(ctx context.Context, orgID uuid.UUID, input vendors.CreateInput) (*models.Vendor, error)
}

func (s stubVendorsService) Create(ctx context.Context, orgID uuid.UUID, input vendors.CreateInput) (*models.Vendor, error) {
	if s.create != nil {
		return s.create(ctx, orgID, input)
	}
	return &models.Vendor{ID: uuid.New(), OrganizationID: orgID, Name: input.Name}, nil
}

func (s stubVendorsService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error) {
	panic("unimplemented")
}

func (s stubVendorsService) List(ctx context.Context, orgID uuid.UUID) ([]models.Vendor, error) {
	return []models.Vendor{}, nil
}

func (s stubVendorsService) Update(ctx context.Context, orgID, id uuid.UUID, input vendors.UpdateInput) (*models.Vendor, error) {
	panic("unimplemented")
}

func (s stubVendorsService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	panic("unimplemented")
}

func (s stubVendorsService) GetBalance(ctx context.Context, orgID, id uuid.UUID) (*vendors.Balance, error) {
	panic("unimplemented")
}

type stubMembersService struct{}

func (stubMembersService) Create(ctx context.Context, orgID uuid.UUID, input members.CreateInput) (*models.Member, error) {
	panic("unimplemented")
}

func (stubMembersService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error) {
	panic("unimplemented")
}

func (stubMembersService) List(ctx context.Context, orgID uuid.UUID) ([]models.Member, error) {
	return []models.Member{}, nil
}

func (stubMembersService) Update(ctx context.Context, orgID, id uuid.UUID, input members.UpdateInput) (*models.Member, error) {
	panic("unimplemented")
}

func (stubMembersService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	panic("unimplemented")
}

type stubBanksService struct{}

func (stubBanksService) Create(ctx context.Context, orgID uuid.UUID, input banks.CreateInput) (*models.BankAccount, error) {
	panic("unimplemented")
}

func (stubBanksService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error) {
	panic("unimplemented")
}

func (stubBanksService) List(ctx context.Context, orgID uuid.UUID) ([]models.BankAccount, error) {
	return []models.BankAccount{}, nil
}

func (stubBanksService) Update(ctx context.Context, orgID, id uuid.UUID, input banks.UpdateInput) (*models.BankAccount, error) {
	panic("unimplemented")
}

func (stubBanksService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	panic("unimplemented")
}

type stubFixturesService struct {
	listFn func(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error)
}

func (s stubFixturesService) List(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, q)
	}
	return []sportsdata.FixtureResult{}, nil
}

func (s stubFixturesService) Get(ctx context.Context, id int64) (*sportsdata.FixtureResult, error) {
	panic("unimplemented")
}

func (s stubFixturesService) Leagues(ctx context.Context, q sportsdata.LeaguesQuery) ([]sportsdata.LeagueResult, error) {
	return []sportsdata.LeagueResult{}, nil
}

func (s stubFixturesService) Teams(ctx context.Context, q sportsdata.TeamsQuery) ([]sportsdata.TeamResult, error) {
	return []sportsdata.TeamResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, svcs Services) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		newMemoryIdemStore(),
		nil,
		nil,
		svcs,
	)
}

func defaultServices() Services {
	return Services{
		Records:      stubRecordsService{},
		Reconcile:    stubReconcileService{},
		Transactions: stubTransactionsService{},
		Vendors:      stubVendorsService{},
		Members:      stubMembersService{},
		Banks:        stubBanksService{},
		Fixtures:     stubFixturesService{},
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		OrgID:  uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), defaultServices())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory-records", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestViewerCanReadButNotMutate(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, defaultServices())
	token := buildToken(t, cfg, enums.MemberRoleViewer)

	read := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	read.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, read)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for viewer read got %d", resp.Code)
	}

	write := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", strings.NewReader(`{"name":"North Gate"}`))
	write.Header.Set("Authorization", "Bearer "+token)
	write.Header.Set("Content-Type", "application/json")
	write.Header.Set("Idempotency-Key", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, write)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer write got %d", resp.Code)
	}
}

func TestManagerCanCreateVendor(t *testing.T) {
	cfg := testConfig()
	created := 0
	svcs := defaultServices()
	svcs.Vendors = stubVendorsService{
		create: func(ctx context.Context, orgID uuid.UUID, input vendors.CreateInput) (*models.Vendor, error) {
			created++
			return &models.Vendor{ID: uuid.New(), OrganizationID: orgID, Name: input.Name}, nil
		},
	}
	router := newTestRouter(cfg, svcs)
	token := buildToken(t, cfg, enums.MemberRoleManager)
	key := uuid.NewString()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", strings.NewReader(`{"name":"North Gate"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on create got %d body %s", first.Code, first.Body.String())
	}

	replay := send()
	if replay.Code != http.StatusCreated {
		t.Fatalf("expected 201 on replay got %d", replay.Code)
	}
	if created != 1 {
		t.Fatalf("expected a single service call across replays got %d", created)
	}
	if replay.Body.String() != first.Body.String() {
		t.Fatalf("expected replay to return the stored body")
	}
}

func TestCreateVendorRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, defaultServices())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", strings.NewReader(`{"name":"North Gate"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestPublicEventRoutesSkipAuth(t *testing.T) {
	svcs := defaultServices()
	svcs.Fixtures = stubFixturesService{
		listFn: func(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error) {
			if q.Date != "2026-08-27" {
				t.Fatalf("expected date filter to reach the service got %q", q.Date)
			}
			return []sportsdata.FixtureResult{{}}, nil
		},
	}
	router := newTestRouter(testConfig(), svcs)

	req := httptest.NewRequest(http.MethodGet, "/api/public/events?date=2026-08-27", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public events got %d", resp.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), defaultServices())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}
