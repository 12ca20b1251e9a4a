package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-directory-api/internal/core/result"
	"user-directory-api/internal/domain"
	"user-directory-api/internal/feature/user"
	resp "user-directory-api/internal/transport/http/response"
)

type mockManager struct{ mock.Mock }

func (m *mockManager) List(ctx context.Context) result.Result[[]domain.User] {
	return m.Called(ctx).Get(0).(result.Result[[]domain.User])
}

func (m *mockManager) Search(ctx context.Context, f user.Filter) result.Result[[]domain.User] {
	return m.Called(ctx, f).Get(0).(result.Result[[]domain.User])
}

func (m *mockManager) GetByID(ctx context.Context, id int64) result.Result[*domain.User] {
	return m.Called(ctx, id).Get(0).(result.Result[*domain.User])
}

func (m *mockManager) Create(ctx context.Context, in *domain.User) result.Result[*domain.User] {
	return m.Called(ctx, in).Get(0).(result.Result[*domain.User])
}

func (m *mockManager) Update(ctx context.Context, in *domain.User) result.Result[*domain.User] {
	return m.Called(ctx, in).Get(0).(result.Result[*domain.User])
}

func (m *mockManager) Delete(ctx context.Context, id int64) result.Result[*domain.User] {
	return m.Called(ctx, id).Get(0).(result.Result[*domain.User])
}

func newUserEngine(m *mockManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(m).Mount(r.Group("/api/v1"))
	return r
}

func serve(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, resp.Resp) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestUserHandler_ListBindsFilter(t *testing.T) {
	m := &mockManager{}
	want := user.Filter{City: "Oslo", LastName: "nor"}
	m.On("Search", mock.Anything, want).Return(result.OkEntity([]domain.User{{ID: 1, City: "Oslo"}}))

	w, out := serve(newUserEngine(m), http.MethodGet, "/api/v1/users?city=Oslo&lastName=nor", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":[{"id":1,"firstName":"","lastName":"","phone":"","email":"","address":"","street":"","city":"Oslo","state":"","zip":""}]}`, w.Body.String())
	m.AssertExpectations(t)
}

func TestUserHandler_Get(t *testing.T) {
	m := &mockManager{}
	m.On("GetByID", mock.Anything, int64(7)).Return(result.OkEntity(&domain.User{ID: 7}))
	m.On("GetByID", mock.Anything, int64(8)).Return(result.FailStatus[*domain.User](user.MsgUserNotFound, http.StatusNotFound))
	r := newUserEngine(m)

	w, _ := serve(r, http.MethodGet, "/api/v1/users/7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, out := serve(r, http.MethodGet, "/api/v1/users/8", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, user.MsgUserNotFound, out.Msg)

	for _, bad := range []string{"abc", "0", "-3"} {
		w, out = serve(r, http.MethodGet, "/api/v1/users/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Equal(t, MsgInvalidID, out.Msg)
	}
	m.AssertExpectations(t)
}

func TestUserHandler_Create(t *testing.T) {
	m := &mockManager{}
	m.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.FirstName == "Ann" })).
		Return(result.OkEntityMessage(&domain.User{ID: 3, FirstName: "Ann"}, user.MsgUserCreated))
	r := newUserEngine(m)

	w, out := serve(r, http.MethodPost, "/api/v1/users", `{"firstName":"Ann"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.MsgUserCreated, out.Msg)

	w, out = serve(r, http.MethodPost, "/api/v1/users", `{"firstName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidBody, out.Msg)
	m.AssertNumberOfCalls(t, "Create", 1)
}

func TestUserHandler_Update(t *testing.T) {
	m := &mockManager{}
	m.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u != nil && u.ID == 5 })).
		Return(result.OkMessage[*domain.User](user.MsgUserUpdated))
	m.On("Update", mock.Anything, (*domain.User)(nil)).
		Return(result.Fail[*domain.User](user.MsgWrongInformation))
	r := newUserEngine(m)

	// 路径 id 覆盖 body
	w, out := serve(r, http.MethodPut, "/api/v1/users/5", `{"id":99,"firstName":"Ann"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.MsgUserUpdated, out.Msg)

	w, _ = serve(r, http.MethodPut, "/api/v1/users", `{"id":5}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out = serve(r, http.MethodPut, "/api/v1/users", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, user.MsgWrongInformation, out.Msg)

	w, out = serve(r, http.MethodPut, "/api/v1/users", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidBody, out.Msg)
	m.AssertNumberOfCalls(t, "Update", 3)
}

func TestUserHandler_Delete(t *testing.T) {
	m := &mockManager{}
	m.On("Delete", mock.Anything, int64(4)).Return(result.OkMessage[*domain.User](user.MsgUserDeleted))
	r := newUserEngine(m)

	w, out := serve(r, http.MethodDelete, "/api/v1/users/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.MsgUserDeleted, out.Msg)
	assert.JSONEq(t, `{}`, mustJSON(t, out.Data))

	w, _ = serve(r, http.MethodDelete, "/api/v1/users/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
