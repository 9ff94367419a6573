package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/config"
	"github.com/yukikurage/tree-api/internal/database"
	"github.com/yukikurage/tree-api/internal/health"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/repository"
	"github.com/yukikurage/tree-api/internal/services"
)

// ResourceHandlerTestSuite drives the entity resources through the router
type ResourceHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	seq    int
}

// SetupTest runs before each test
func (suite *ResourceHandlerTestSuite) SetupTest() {
	var err error
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Create in-memory SQLite database
	suite.db, err = database.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}, nil)
	suite.Require().NoError(err)

	// Run migrations
	suite.Require().NoError(database.Migrate(suite.db, log))

	// Set the test DB as the default database
	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(suite.db))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router, err = NewRouter(RouterDeps{
		Log:    log,
		Banks:  services.NewBankService(suite.db, repository.NewBankRepository(suite.db), userRepo),
		Timers: services.NewTimerService(suite.db, repository.NewTimerRepository(suite.db), userRepo),
		Trees:  services.NewTreeService(suite.db, repository.NewTreeRepository(suite.db), userRepo),
		Users:  services.NewUserService(userRepo),
		Health: checker,
	})
	suite.Require().NoError(err)
}

// TearDownTest runs after each test
func (suite *ResourceHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *ResourceHandlerTestSuite) createTestUser() *models.User {
	suite.seq++
	user := &models.User{
		Login: fmt.Sprintf("%s-%d", randomdata.SillyName(), suite.seq),
		Email: randomdata.Email(),
	}
	suite.Require().NoError(repository.NewUserRepository(suite.db).Create(context.Background(), user))
	return user
}

func (suite *ResourceHandlerTestSuite) do(method, url, contentType string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			suite.Require().NoError(err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, url, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ResourceHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	return suite.do(method, url, "application/json", body)
}

func (suite *ResourceHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (suite *ResourceHandlerTestSuite) assertAlert(w *httptest.ResponseRecorder, status int, entity, key string) {
	assert.Equal(suite.T(), status, w.Code, w.Body.String())
	details, ok := suite.decode(w)["details"].(map[string]any)
	suite.Require().True(ok, w.Body.String())
	assert.Equal(suite.T(), entity, details["entityName"])
	assert.Equal(suite.T(), key, details["errorKey"])
}

func (suite *ResourceHandlerTestSuite) createBank(treesOwned int, user *models.User) uint64 {
	body := map[string]any{"treesOwned": treesOwned}
	if user != nil {
		body["assignedTo"] = map[string]any{"id": user.ID}
	}
	w := suite.doJSON(http.MethodPost, "/api/banks", body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return uint64(suite.decode(w)["id"].(float64))
}

// TestCreateBank_Success tests successful bank creation
func (suite *ResourceHandlerTestSuite) TestCreateBank_Success() {
	user := suite.createTestUser()

	w := suite.doJSON(http.MethodPost, "/api/banks", map[string]any{
		"treesOwned": 12,
		"assignedTo": map[string]any{"id": user.ID},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	body := suite.decode(w)
	id := uint64(body["id"].(float64))
	assert.NotZero(suite.T(), id)
	assert.Equal(suite.T(), fmt.Sprintf("/api/banks/%d", id), w.Header().Get("Location"))
	assert.Equal(suite.T(), float64(12), body["treesOwned"])
	assert.Equal(suite.T(), map[string]any{"id": float64(user.ID)}, body["assignedTo"])
	assert.NotEmpty(suite.T(), w.Header().Get("X-Request-ID"))
}

// TestCreateBank_WithID tests that a payload id is rejected
func (suite *ResourceHandlerTestSuite) TestCreateBank_WithID() {
	w := suite.doJSON(http.MethodPost, "/api/banks", map[string]any{"id": 1, "treesOwned": 3})
	suite.assertAlert(w, http.StatusBadRequest, "bank", "idexists")

	w = suite.doJSON(http.MethodGet, "/api/banks", nil)
	assert.Equal(suite.T(), "0", w.Header().Get("X-Total-Count"))
}

func (suite *ResourceHandlerTestSuite) TestCreateBank_UnknownUser() {
	w := suite.doJSON(http.MethodPost, "/api/banks", map[string]any{"assignedTo": map[string]any{"id": 999}})
	suite.assertAlert(w, http.StatusBadRequest, "bank", "userinvalid")
}

func (suite *ResourceHandlerTestSuite) TestCreateBank_UserAlreadyHasBank() {
	user := suite.createTestUser()
	suite.createBank(1, user)

	w := suite.doJSON(http.MethodPost, "/api/banks", map[string]any{"assignedTo": map[string]any{"id": user.ID}})
	suite.assertAlert(w, http.StatusConflict, "bank", "userexists")
}

func (suite *ResourceHandlerTestSuite) TestCreate_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/banks", "application/json", "{not json")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodPost, "/api/timers", map[string]any{"status": "Stopped"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodPost, "/api/trees", map[string]any{"trees": "Oak"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ResourceHandlerTestSuite) TestCreateTimer_Success() {
	user := suite.createTestUser()

	w := suite.doJSON(http.MethodPost, "/api/timers", map[string]any{
		"duration":       300,
		"expirationTime": "2030-01-01T10:00:00+02:00",
		"status":         "Running",
		"assignedTo":     map[string]any{"id": user.ID},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	body := suite.decode(w)
	assert.Equal(suite.T(), "2030-01-01T08:00:00Z", body["expirationTime"])
	assert.Equal(suite.T(), "Running", body["status"])
}

func (suite *ResourceHandlerTestSuite) TestUpdateBank() {
	id := suite.createBank(5, nil)
	url := fmt.Sprintf("/api/banks/%d", id)

	w := suite.doJSON(http.MethodPut, url, map[string]any{"treesOwned": 6})
	suite.assertAlert(w, http.StatusBadRequest, "bank", "idnull")

	w = suite.doJSON(http.MethodPut, url, map[string]any{"id": id + 1, "treesOwned": 6})
	suite.assertAlert(w, http.StatusBadRequest, "bank", "idinvalid")

	w = suite.doJSON(http.MethodPut, "/api/banks/999", map[string]any{"id": 999, "treesOwned": 6})
	suite.assertAlert(w, http.StatusBadRequest, "bank", "idnotfound")

	w = suite.doJSON(http.MethodPut, url, map[string]any{"id": id, "treesOwned": 6})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(6), suite.decode(w)["treesOwned"])
}

func (suite *ResourceHandlerTestSuite) TestPartialUpdateTimer() {
	w := suite.doJSON(http.MethodPost, "/api/timers", map[string]any{"duration": 60, "status": "Running"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := uint64(suite.decode(w)["id"].(float64))
	url := fmt.Sprintf("/api/timers/%d", id)

	w = suite.do(http.MethodPatch, url, "application/merge-patch+json", map[string]any{"id": id, "status": "Expired"})
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	assert.Equal(suite.T(), "Expired", body["status"])
	assert.Equal(suite.T(), float64(60), body["duration"])

	w = suite.doJSON(http.MethodPatch, url, map[string]any{"id": id, "duration": 90})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Expired", suite.decode(w)["status"])

	w = suite.do(http.MethodPatch, url, "text/plain", `{"id":1}`)
	assert.Equal(suite.T(), http.StatusUnsupportedMediaType, w.Code)

	w = suite.do(http.MethodPatch, "/api/timers/999", "application/merge-patch+json", map[string]any{"id": 999})
	suite.assertAlert(w, http.StatusBadRequest, "timer", "idnotfound")
}

func (suite *ResourceHandlerTestSuite) TestListBanks_Eager() {
	user := suite.createTestUser()
	suite.createBank(1, user)
	suite.createBank(2, nil)

	w := suite.doJSON(http.MethodGet, "/api/banks", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "2", w.Header().Get("X-Total-Count"))

	var plain []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &plain))
	suite.Require().Len(plain, 2)
	assert.Equal(suite.T(), map[string]any{"id": float64(user.ID)}, plain[0]["assignedTo"])
	assert.Nil(suite.T(), plain[1]["assignedTo"])

	w = suite.doJSON(http.MethodGet, "/api/banks?eagerload=true", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var eager []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &eager))
	suite.Require().Len(eager, 2)
	assert.Equal(suite.T(), user.Login, eager[0]["assignedTo"].(map[string]any)["login"])
}

func (suite *ResourceHandlerTestSuite) TestListTrees_PagedAndSorted() {
	for _, species := range []string{"Birch", "Walnut", "Cedar"} {
		w := suite.doJSON(http.MethodPost, "/api/trees", map[string]any{"trees": species})
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.doJSON(http.MethodGet, "/api/trees?page=0&size=2&sort=trees,desc", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "3", w.Header().Get("X-Total-Count"))

	var trees []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &trees))
	suite.Require().Len(trees, 2)
	assert.Equal(suite.T(), "Walnut", trees[0]["trees"])
	assert.Equal(suite.T(), "Cedar", trees[1]["trees"])

	w = suite.doJSON(http.MethodGet, "/api/trees?sort=password", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodGet, "/api/trees?eagerload=maybe", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ResourceHandlerTestSuite) TestListTrees_Empty() {
	w := suite.doJSON(http.MethodGet, "/api/trees", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), "[]", w.Body.String())
}

func (suite *ResourceHandlerTestSuite) TestGetBank() {
	user := suite.createTestUser()
	id := suite.createBank(9, user)

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/banks/%d", id), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assigned := suite.decode(w)["assignedTo"].(map[string]any)
	assert.Equal(suite.T(), user.Login, assigned["login"])

	w = suite.doJSON(http.MethodGet, "/api/banks/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.doJSON(http.MethodGet, "/api/banks/abc", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ResourceHandlerTestSuite) TestDeleteBank() {
	id := suite.createBank(1, nil)
	url := fmt.Sprintf("/api/banks/%d", id)

	w := suite.doJSON(http.MethodDelete, url, nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.doJSON(http.MethodDelete, url, nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.doJSON(http.MethodGet, url, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ResourceHandlerTestSuite) TestUsers() {
	user := suite.createTestUser()

	w := suite.doJSON(http.MethodGet, "/api/users?size=10", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "3", w.Header().Get("X-Total-Count"))

	w = suite.doJSON(http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), user.Login, suite.decode(w)["login"])

	w = suite.doJSON(http.MethodGet, "/api/users/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ResourceHandlerTestSuite) TestHealth() {
	w := suite.doJSON(http.MethodGet, "/health", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	body := suite.decode(w)
	assert.Equal(suite.T(), "UP", body["status"])
	assert.Equal(suite.T(), map[string]any{"database": "OK"}, body["components"])
}

func (suite *ResourceHandlerTestSuite) TestRequestIDEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/api/trees", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), "abc-123", w.Header().Get("X-Request-ID"))
}

// TestResourceHandlerTestSuite runs the test suite
func TestResourceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}
