package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-directory-api/internal/core/auth"
	"user-directory-api/internal/core/config"
	"user-directory-api/internal/core/database"
	"user-directory-api/internal/domain"
	"user-directory-api/internal/feature/user"
	"user-directory-api/internal/repo"
	"user-directory-api/pkg/utils"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testAPI struct {
	t     *testing.T
	r     http.Handler
	repo  *repo.UserRepo
	token string
}

func newTestAPI(t *testing.T, creds auth.Credentials) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(sqlite.Open(":memory:"), database.Opts{MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "test", TTL: time.Hour}
	users := repo.NewUserRepo(db)
	r := NewAPIEngine(zap.NewNop(), Deps{
		Users:  user.NewManager(users, zap.NewNop()),
		JWT:    jwter,
		Creds:  creds,
		Limits: config.Limits{MaxBodyBytes: 1 << 20, RequestTimeout: 5},
	})
	api := &testAPI{t: t, r: r, repo: users}
	tok, err := jwter.Issue("tester", auth.RoleUser)
	require.NoError(t, err)
	api.token = tok
	return api
}

func (a *testAPI) call(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *testAPI) count() int {
	a.t.Helper()
	all, err := a.repo.GetAll(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NoError(a.t, err)
	return len(all)
}

func payload() map[string]any {
	return map[string]any{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"phone":     "555-0199",
		"email":     "grace@navy.mil",
		"address":   "1 Compiler Way",
		"street":    "Cobol St",
		"city":      "Arlington",
		"state":     "VA",
		"zip":       "22201",
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	a := newTestAPI(t, nil)
	a.token = ""

	for _, p := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		a.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
	}
}

func TestUsersRequireToken(t *testing.T) {
	a := newTestAPI(t, nil)
	a.token = ""

	code, env := a.call(http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing token", env.Msg)
}

func TestToken(t *testing.T) {
	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	creds := auth.NewCredentials(map[string]string{"admin": hash})
	a := newTestAPI(t, creds)
	a.token = ""

	code, env := a.call(http.MethodPost, "/api/v1/auth/token", map[string]string{"username": "admin", "password": "pw"})
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)

	a.token = out.Token
	code, _ = a.call(http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, code)

	a.token = ""
	code, env = a.call(http.MethodGet, "/api/v1/auth/token?username=admin&password=nope", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", env.Msg)

	code, _ = a.call(http.MethodPost, "/api/v1/auth/token", map[string]string{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.call(http.MethodPost, "/api/v1/auth/token", map[string]string{"username": "   ", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username is required", env.Msg)
}

func TestCreateThenListAndGet(t *testing.T) {
	a := newTestAPI(t, nil)

	code, env := a.call(http.MethodPost, "/api/v1/users", payload())
	require.Equal(t, http.StatusOK, code, env.Msg)
	assert.Equal(t, user.MsgUserCreated, env.Msg)
	var created domain.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)

	code, env = a.call(http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, code)
	var list []domain.User
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	code, env = a.call(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(created.ID, 10), nil)
	require.Equal(t, http.StatusOK, code)
	var got domain.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	want := created
	assert.Equal(t, want, got)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, "22201", got.Zip)

	code, env = a.call(http.MethodGet, "/api/v1/users?city=Arlington&lastName=opp", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = a.call(http.MethodGet, "/api/v1/users?city=Nowhere", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCreateValidation(t *testing.T) {
	a := newTestAPI(t, nil)

	p := payload()
	p["firstName"] = ""
	code, env := a.call(http.MethodPost, "/api/v1/users", p)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Msg, "FirstName")

	p = payload()
	p["email"] = "nope"
	code, env = a.call(http.MethodPost, "/api/v1/users", p)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "'Email' is not valid", env.Msg)

	assert.Zero(t, a.count())
}

func TestGetMissingAndBadID(t *testing.T) {
	a := newTestAPI(t, nil)

	code, env := a.call(http.MethodGet, "/api/v1/users/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, user.MsgUserNotFound, env.Msg)
	assert.JSONEq(t, `{}`, string(env.Data))

	code, env = a.call(http.MethodGet, "/api/v1/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid User Id", env.Msg)
}

func TestUpdate(t *testing.T) {
	a := newTestAPI(t, nil)
	_, env := a.call(http.MethodPost, "/api/v1/users", payload())
	var created domain.User
	require.NoError(t, json.Unmarshal(env.Data, &created))

	p := payload()
	p["city"] = "Washington"
	p["id"] = created.ID
	code, env := a.call(http.MethodPut, "/api/v1/users", p)
	require.Equal(t, http.StatusOK, code, env.Msg)
	assert.Equal(t, user.MsgUserUpdated, env.Msg)

	p["zip"] = "20001"
	delete(p, "id")
	code, _ = a.call(http.MethodPut, "/api/v1/users/"+strconv.FormatInt(created.ID, 10), p)
	require.Equal(t, http.StatusOK, code)

	_, env = a.call(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(created.ID, 10), nil)
	var got domain.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Washington", got.City)
	assert.Equal(t, "20001", got.Zip)

	p["id"] = 999
	code, env = a.call(http.MethodPut, "/api/v1/users", p)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, user.MsgUserNotFound, env.Msg)

	code, env = a.call(http.MethodPut, "/api/v1/users", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, user.MsgWrongInformation, env.Msg)

	assert.Equal(t, 1, a.count())
}

func TestDelete(t *testing.T) {
	a := newTestAPI(t, nil)
	_, env := a.call(http.MethodPost, "/api/v1/users", payload())
	var created domain.User
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env := a.call(http.MethodDelete, "/api/v1/users/12345", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, user.MsgUserNotFound, env.Msg)
	assert.Equal(t, 1, a.count())

	path := "/api/v1/users/" + strconv.FormatInt(created.ID, 10)
	code, env = a.call(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user.MsgUserDeleted, env.Msg)
	assert.Zero(t, a.count())

	code, _ = a.call(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
