package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/clock"
	"github.com/artpar/showroom/adapters/hasher"
	"github.com/artpar/showroom/adapters/idgen"
	"github.com/artpar/showroom/adapters/qr"
	"github.com/artpar/showroom/adapters/random"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/app"
	"github.com/artpar/showroom/config"
	"github.com/artpar/showroom/domain/auth"
	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/domain/visitor"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64) Firefox/127.0"

type testEnv struct {
	db      *sqlite.DB
	router  chi.Router
	auth    *app.AuthService
	catalog *app.CatalogService
	contact *app.ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "site:\n  base_url: \"https://shop.example\"\nauth:\n  secure_cookies: false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	holder, err := config.NewHolder(cfgPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	t.Cleanup(holder.Stop)

	fc := clock.NewFake(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := zerolog.Nop()

	pageViews := sqlite.NewPageViewStore(db)
	productViews := sqlite.NewProductViewStore(db)

	tracker := app.NewTrackerService(app.TrackerDeps{
		Classifier:   visitor.NewClassifier(nil),
		Exclusions:   tracking.NewExclusionPolicy(nil),
		PageViews:    pageViews,
		ProductViews: productViews,
		Clock:        fc,
		Random:       random.NewFake(),
		Logger:       logger,
	})
	analytics := app.NewAnalyticsService(sqlite.NewVisitorStore(db), pageViews, productViews, fc)
	catalogSvc := app.NewCatalogService(
		sqlite.NewCategoryStore(db), sqlite.NewProductStore(db),
		qr.NewEncoder(64), fc, "https://shop.example", logger,
	)
	contactSvc := app.NewContactService(sqlite.NewContactStore(db), fc)
	authSvc := app.NewAuthService(
		sqlite.NewUserStore(db), sqlite.NewSessionStore(db),
		hasher.Plain{}, idgen.NewSequential("sess-"), fc, logger,
	)

	h := NewHandler(Deps{
		Tracker:   tracker,
		Analytics: analytics,
		Catalog:   catalogSvc,
		Contact:   contactSvc,
		Auth:      authSvc,
		Config:    holder,
		Logger:    logger,
	})

	return &testEnv{
		db:      db,
		router:  h.Router(),
		auth:    authSvc,
		catalog: catalogSvc,
		contact: contactSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("User-Agent", browserUA)
	req.RemoteAddr = "203.0.113.9:51234"
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login creates an account and returns its session cookie.
func (e *testEnv) login(t *testing.T, username, role string) *http.Cookie {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.CreateUser(ctx, username, username+"@example.com", "secret", role); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	rec := e.do(t, http.MethodPost, "/admin/api/login", map[string]string{
		"username": username,
		"password": "secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "showroom_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (e *testEnv) seedProduct(t *testing.T) catalog.Product {
	t.Helper()
	ctx := context.Background()
	cat, err := e.catalog.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	p, err := e.catalog.CreateProduct(ctx, catalog.Product{
		Name:       "Marine Plywood 18mm",
		Price:      1450,
		CategoryID: cat.ID,
		PDFCatalog: "marine-ply.pdf",
		PDFPages:   12,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	return p
}

func countRows(t *testing.T, db *sqlite.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHome_TracksAndSetsVisitorCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var visitorCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "visitor_key" {
			visitorCookie = c
		}
	}
	if visitorCookie == nil {
		t.Fatal("visitor cookie not set")
	}
	if len(visitorCookie.Value) != 2*visitor.SessionKeyBytes {
		t.Errorf("cookie value length = %d, want %d", len(visitorCookie.Value), 2*visitor.SessionKeyBytes)
	}
	if n := countRows(t, env.db, "page_views"); n != 1 {
		t.Errorf("page_views rows = %d, want 1", n)
	}

	// A returning visit with the cookie reuses the key.
	rec = env.do(t, http.MethodGet, "/", nil, func(r *http.Request) {
		r.AddCookie(visitorCookie)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second visit status = %d, want 200", rec.Code)
	}
	if n := countRows(t, env.db, "visitor_sessions"); n != 1 {
		t.Errorf("visitor_sessions rows = %d, want 1", n)
	}
	if n := countRows(t, env.db, "page_views"); n != 2 {
		t.Errorf("page_views rows = %d, want 2", n)
	}
}

func TestHome_BotGetsNoCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil, func(r *http.Request) {
		r.Header.Set("User-Agent", "Googlebot/2.1")
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "visitor_key" {
			t.Error("bot request should not receive a visitor cookie")
		}
	}
	if n := countRows(t, env.db, "page_views"); n != 0 {
		t.Errorf("page_views rows = %d, want 0", n)
	}
}

func TestProductPage_RecordsEngagement(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t)

	rec := env.do(t, http.MethodGet, "/product/"+itoa(p.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if n := countRows(t, env.db, "product_views"); n != 1 {
		t.Errorf("product_views rows = %d, want 1", n)
	}
	got, err := env.catalog.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", got.ViewCount)
	}
}

func TestProductPDFPage_Beacon(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t)

	rec := env.do(t, http.MethodPost, "/product/"+itoa(p.ID)+"/pdf/page", map[string]int{"page": 3})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	var page int
	var viewType string
	err := env.db.QueryRow("SELECT page_number, view_type FROM product_views WHERE product_id = ?", p.ID).
		Scan(&page, &viewType)
	if err != nil {
		t.Fatalf("query product_views: %v", err)
	}
	if page != 3 || viewType != "pdf_page" {
		t.Errorf("recorded (page=%d, type=%s), want (3, pdf_page)", page, viewType)
	}
}

func TestProductPDF_NoDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat, err := env.catalog.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	p, err := env.catalog.CreateProduct(ctx, catalog.Product{Name: "No Doc", Price: 5, CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	rec := env.do(t, http.MethodGet, "/product/"+itoa(p.ID)+"/pdf", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if n := countRows(t, env.db, "product_views"); n != 0 {
		t.Errorf("product_views rows = %d, want 0 for a missing document", n)
	}
}

func TestProductQR_ServesPNG(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t)

	rec := env.do(t, http.MethodGet, "/product/"+itoa(p.ID)+"/qr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s, want image/png", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty image body")
	}
}

func TestSiteQR_ServesPNG(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/qr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s, want image/png", ct)
	}
}

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact", map[string]string{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Need a quote for 40 sheets.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/contact", map[string]string{"name": "Asha"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete form status = %d, want 400", rec.Code)
	}
}

func TestAdmin_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/api/dashboard", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/admin/api/login", map[string]string{
		"username": "ghost",
		"password": "nope",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
}

func TestAdmin_DashboardAndAnalytics(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", auth.RoleAdmin)
	p := env.seedProduct(t)

	// Two public renders feed the dashboard numbers.
	env.do(t, http.MethodGet, "/", nil)
	env.do(t, http.MethodGet, "/product/"+itoa(p.ID), nil)

	rec := env.do(t, http.MethodGet, "/admin/api/dashboard", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dash struct {
		Products  int `json:"products"`
		Analytics struct {
			TotalViews int64 `json:"total_views"`
		} `json:"analytics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.Products != 1 {
		t.Errorf("products = %d, want 1", dash.Products)
	}
	if dash.Analytics.TotalViews != 2 {
		t.Errorf("total_views = %d, want 2", dash.Analytics.TotalViews)
	}

	rec = env.do(t, http.MethodGet, "/admin/api/analytics/product/"+itoa(p.ID)+"?days=7", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("product analytics status = %d", rec.Code)
	}
	var sum struct {
		TotalViews int64 `json:"total_views"`
		WindowDays int   `json:"window_days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalViews != 1 || sum.WindowDays != 7 {
		t.Errorf("summary = %+v, want 1 view in 7-day window", sum)
	}

	rec = env.do(t, http.MethodGet, "/admin/api/analytics/product/999", nil, withCookie(cookie))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing product analytics status = %d, want 404", rec.Code)
	}
}

func TestAdmin_CategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", auth.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/admin/api/categories", map[string]string{
		"Name": "Plywood",
	}, withCookie(cookie))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created catalog.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	rec = env.do(t, http.MethodPut, "/admin/api/categories/"+itoa(created.ID), map[string]string{
		"Name": "Plywood & Boards",
	}, withCookie(cookie))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/admin/api/categories/"+itoa(created.ID), nil, withCookie(cookie))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/admin/api/categories/"+itoa(created.ID), nil, withCookie(cookie))
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestAdmin_OwnerCannotManageUsers(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "owner", auth.RoleOwner)

	rec := env.do(t, http.MethodGet, "/admin/api/users", nil, withCookie(cookie))
	if rec.Code != http.StatusForbidden {
		t.Errorf("owner listing users: status = %d, want 403", rec.Code)
	}

	// Non-destructive endpoints still work for owners.
	rec = env.do(t, http.MethodGet, "/admin/api/categories", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Errorf("owner listing categories: status = %d, want 200", rec.Code)
	}
}

func TestAdmin_UserManagement(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", auth.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/admin/api/users", map[string]string{
		"username": "owner",
		"email":    "owner@example.com",
		"password": "pw",
		"role":     auth.RoleOwner,
	}, withCookie(cookie))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode user: %v", err)
	}

	// Duplicates conflict.
	rec = env.do(t, http.MethodPost, "/admin/api/users", map[string]string{
		"username": "owner",
		"email":    "other@example.com",
		"password": "pw",
		"role":     auth.RoleOwner,
	}, withCookie(cookie))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate user status = %d, want 409", rec.Code)
	}

	// Self-delete rejected; deleting the other user works.
	var me userResponse
	rec = env.do(t, http.MethodGet, "/admin/api/me", nil, withCookie(cookie))
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	rec = env.do(t, http.MethodDelete, "/admin/api/users/"+itoa(me.ID), nil, withCookie(cookie))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self delete status = %d, want 400", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/admin/api/users/"+itoa(created.ID), nil, withCookie(cookie))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete user status = %d, want 204", rec.Code)
	}
}

func TestAdmin_LogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", auth.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/admin/api/logout", nil, withCookie(cookie))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/admin/api/me", nil, withCookie(cookie))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("after logout status = %d, want 401", rec.Code)
	}
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
