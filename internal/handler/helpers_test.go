package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/storage"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testOwnerEmail = "owner@shop.test"
	testBaseURL    = "http://shop.test"
)

type sentMail struct {
	To, Subject, Body string
}

// 送ったメールを覚えておくだけ。errがあれば毎回それを返す
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return m.err
}

func (m *fakeMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type testApp struct {
	srv       *httptest.Server
	client    *http.Client
	db        *gorm.DB
	mailer    *fakeMailer
	uploadDir string
}

// newTestApp はインメモリsqliteで全ルートを組み立てる
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Connect(config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	l := logger.NewNop()
	productRepo := infraRepo.NewProductGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	userRepo := infraRepo.NewUserGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	_, err = auth.NewCreateAdminUsecase(userRepo, auth.NewBcryptPasswordHasher(bcrypt.MinCost)).
		Execute(ctx, "sps", "sps123")
	require.NoError(t, err)

	uploadDir := t.TempDir()
	images, err := storage.NewLocalStorage(uploadDir, testBaseURL, "/static/images")
	require.NoError(t, err)

	mailer := &fakeMailer{}
	notifier := usecase.NewNotificationService(mailer, nil, testOwnerEmail, "SPS Sarees", 5*time.Second, l)

	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	sessions := session.NewStore("test-secret", false)
	pages := handler.NewPages(sessions, "SPS Sarees", l)

	productUC := usecase.NewProductUsecase(productRepo, orderRepo, auditRepo, images, l)
	e, err := server.New(l, server.Handlers{
		Pages:         pages,
		Health:        handler.NewHealthHandler(sqlDB),
		Product:       handler.NewProductHandler(pages, productUC),
		Cart:          handler.NewCartHandler(pages, usecase.NewCartUsecase(productRepo, l)),
		Checkout:      handler.NewCheckoutHandler(pages, usecase.NewCheckoutUsecase(productRepo, txm, notifier, l)),
		Auth:          handler.NewAuthHandler(pages, auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), issuer, auth.SystemClock{})),
		AdminProduct:  handler.NewAdminProductHandler(pages, productUC),
		AdminOrder:    handler.NewAdminOrderHandler(pages, usecase.NewAdminOrderUsecase(txm, orderRepo, productRepo, auditRepo, l)),
		AdminGate:     middleware.AdminGate(sessions, issuer),
		UploadDir:     uploadDir,
		UploadURLPath: "/static/images",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		srv: srv,
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			//リダイレクトは追わない
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		db:        gdb,
		mailer:    mailer,
		uploadDir: uploadDir,
	}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(t, err)
	return a.do(t, req)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

// fileNameが空ならファイル無し
func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, fileName string, content []byte) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(t, req)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.postForm(t, "/admin_login", url.Values{"username": {"sps"}, "password": {"sps123"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin_dashboard", resp.Header.Get("Location"))
}

func (a *testApp) seedProduct(t *testing.T, name, slug, price string) model.Product {
	t.Helper()
	p := model.Product{
		Name:        name,
		Slug:        slug,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       5,
	}
	require.NoError(t, a.db.Create(&p).Error)
	return p
}

func (a *testApp) seedOrder(t *testing.T, productID int64) model.Order {
	t.Helper()
	o := model.Order{
		ProductID:       productID,
		Qty:             1,
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9876543210",
		CustomerAddress: "12 Temple Street",
		Total:           decimal.NewFromInt(100),
		Status:          model.OrderStatusPending,
	}
	require.NoError(t, a.db.Omit("Product").Create(&o).Error)
	return o
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}
