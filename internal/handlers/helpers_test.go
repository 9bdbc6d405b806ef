package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
	"github.com/Skotchmaster/ecommerce_catalog/internal/rating"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *auth.TokenService
	Events *eventRecorder
	A      *AuthHandler
	C      *CategoryHandler
	P      *ProductHandler
	R      *ReviewHandler
}

// eventRecorder stands in for the kafka producer and keeps every published
// event in memory for assertions.
type eventRecorder struct {
	published []recordedEvent
}

type recordedEvent struct {
	Topic string
	Key   string
	Event interface{}
}

var _ events.Publisher = (*eventRecorder)(nil)

func (r *eventRecorder) PublishEvent(_ context.Context, topic, key string, event interface{}) error {
	r.published = append(r.published, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

// lastEvent returns the newest event on the topic, failing the test when the
// topic never saw one.
func (r *eventRecorder) lastEvent(t *testing.T, topic string) recordedEvent {
	t.Helper()
	for i := len(r.published) - 1; i >= 0; i-- {
		if r.published[i].Topic == topic {
			return r.published[i]
		}
	}
	t.Fatalf("no event published on topic %q", topic)
	return recordedEvent{}
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Rating{},
		&models.Review{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	tokens := &auth.TokenService{Secret: []byte("test_secret")}
	producer := &eventRecorder{}

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: tokens,
		Events: producer,
		A:      &AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		C:      &CategoryHandler{DB: db, Producer: producer},
		P:      &ProductHandler{DB: db, Producer: producer},
		R:      &ReviewHandler{DB: db, Aggregator: &rating.Aggregator{DB: db}, Producer: producer},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doFormRequest(method, path string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedCategory(name string, parentID *uint) models.Category {
	category := models.Category{
		Name:     name,
		Slug:     strings.ToLower(name),
		ParentID: parentID,
		Status:   models.StatusActive,
	}
	require.NoError(env.T, env.DB.Create(&category).Error)
	return category
}

func (env *testEnv) seedProduct(name string, categoryID uint, stock int) models.Product {
	product := models.Product{
		Name:       name,
		Slug:       strings.ToLower(name),
		Price:      99.9,
		Stock:      stock,
		CategoryID: categoryID,
		Status:     models.StatusActive,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product
}

func (env *testEnv) seedUser(username string, isAdmin bool) models.User {
	user := models.User{
		Username:       username,
		HashedPassword: "x",
		IsAdmin:        isAdmin,
		IsCustomer:     !isAdmin,
		Status:         models.StatusActive,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func identityFor(user models.User) auth.Identity {
	return auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     auth.RoleFromFlags(user.IsAdmin, user.IsSupplier, user.IsCustomer),
	}
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}

func decodeTransaction(t *testing.T, rec *httptest.ResponseRecorder) TransactionResponse {
	t.Helper()
	var resp TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
