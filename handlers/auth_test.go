package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"secure-notes/db"
	"secure-notes/middleware"
	"secure-notes/session"
	"secure-notes/store"
	"secure-notes/validation"
)

var (
	testPool     *sql.DB
	testHandlers *Handlers
	testSessions = session.NewManager([]byte("handlers-test-secret"), time.Hour, true)

	testUserID  int64
	otherUserID int64
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "handlers-test")
	if err != nil {
		panic(err)
	}

	code := func() int {
		defer os.RemoveAll(dir)
		setupTestDB(filepath.Join(dir, "notes.db"))
		defer testPool.Close()
		return m.Run()
	}()

	os.Exit(code)
}

func setupTestDB(path string) {
	ctx := context.Background()

	pool, d, err := db.Open(ctx, "sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(ctx, pool, d, zerolog.Nop()); err != nil {
		panic(err)
	}
	testPool = pool

	testHandlers, err = New(d, testSessions, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	st := store.New(pool, d, store.WithHashCost(bcrypt.MinCost))
	testUserID = st.CreateUser(ctx, "testuser", "testpassword").Unwrap().ID
	otherUserID = st.CreateUser(ctx, "otheruser", "otherpassword").Unwrap().ID
}

// serve runs handler behind the per-request store connection, as the router
// does, with the given authenticated user and note id path parameter.
func serve(handler http.HandlerFunc, req *http.Request, userID int64, noteID string) *httptest.ResponseRecorder {
	if noteID != "" {
		chiCtx := chi.NewRouteContext()
		chiCtx.URLParams.Add("id", noteID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
	}
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rr := httptest.NewRecorder()
	middleware.Store(testPool)(handler).ServeHTTP(rr, req)
	return rr
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeErrors(t *testing.T, rr *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Errors
}

func TestRegister(t *testing.T) {
	t.Run("Successful registration", func(t *testing.T) {
		rr := serve(testHandlers.Register, formRequest(http.MethodPost, "/api/register", url.Values{
			"username":   {"newuser"},
			"password":   {"password123"},
			"password_2": {"password123"},
		}), 0, "")

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var count int
		require.NoError(t, testPool.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", "newuser").Scan(&count))
		assert.Equal(t, 1, count)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("JSON body", func(t *testing.T) {
		rr := serve(testHandlers.Register, jsonRequest(http.MethodPost, "/api/register", map[string]string{
			"username":   "jsonuser",
			"password":   "password123",
			"password_2": "password123",
		}), 0, "")

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("User already exists", func(t *testing.T) {
		rr := serve(testHandlers.Register, formRequest(http.MethodPost, "/api/register", url.Values{
			"username":   {"testuser"},
			"password":   {"password123"},
			"password_2": {"password123"},
		}), 0, "")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, []string{store.MsgUsernameTaken}, decodeErrors(t, rr))
	})

	t.Run("Every validation failure is reported", func(t *testing.T) {
		rr := serve(testHandlers.Register, formRequest(http.MethodPost, "/api/register", url.Values{
			"username":   {"ab"},
			"password":   {"short"},
			"password_2": {"different"},
		}), 0, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{
			validation.MsgUsernameLength,
			validation.MsgPasswordLength,
			validation.MsgPasswordMismatch,
		}, decodeErrors(t, rr))
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rr := serve(testHandlers.Register, req, 0, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Successful login", func(t *testing.T) {
		rr := serve(testHandlers.Login, formRequest(http.MethodPost, "/api/login", url.Values{
			"username": {"testuser"},
			"password": {"testpassword"},
		}), 0, "")

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var response struct {
			Token  string `json:"token"`
			UserID int64  `json:"user_id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, testUserID, response.UserID)

		userID, err := testSessions.Parse(response.Token)
		require.NoError(t, err)
		assert.Equal(t, testUserID, userID)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.Equal(t, response.Token, cookies[0].Value)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		rr := serve(testHandlers.Login, formRequest(http.MethodPost, "/api/login", url.Values{
			"username": {"testuser"},
			"password": {"wrongpassword"},
		}), 0, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, []string{MsgBadCredentials}, decodeErrors(t, rr))
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("User not found looks the same", func(t *testing.T) {
		rr := serve(testHandlers.Login, formRequest(http.MethodPost, "/api/login", url.Values{
			"username": {"nonexistent"},
			"password": {"testpassword"},
		}), 0, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, []string{MsgBadCredentials}, decodeErrors(t, rr))
	})
}

func TestAuthenticateComparesForUnknownUsers(t *testing.T) {
	ctx := context.Background()
	st := store.New(testPool, db.SQLite, store.WithHashCost(bcrypt.MinCost))

	cost, err := bcrypt.Cost(testHandlers.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	res := testHandlers.authenticate(ctx, st, "nonexistent", "whatever1")
	require.True(t, res.IsFailure())
	assert.Equal(t, store.KindNotFound, res.Failure().Kind)

	res = testHandlers.authenticate(ctx, st, "testuser", "whatever1")
	require.True(t, res.IsFailure())
	assert.Equal(t, store.KindInvalidCredentials, res.Failure().Kind)

	res = testHandlers.authenticate(ctx, st, "testuser", "testpassword")
	require.True(t, res.IsSuccess())
	assert.Equal(t, testUserID, res.Unwrap().ID)
}

func TestLogout(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandlers.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestRefreshToken(t *testing.T) {
	t.Run("Successful token refresh", func(t *testing.T) {
		rr := serve(testHandlers.RefreshToken, httptest.NewRequest(http.MethodPost, "/api/refresh-token", nil), testUserID, "")

		require.Equal(t, http.StatusOK, rr.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.NotEmpty(t, response["token"])
	})

	t.Run("No user ID in context", func(t *testing.T) {
		rr := serve(testHandlers.RefreshToken, httptest.NewRequest(http.MethodPost, "/api/refresh-token", nil), 0, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAccount(t *testing.T) {
	t.Run("Returns the user without the hash", func(t *testing.T) {
		rr := serve(testHandlers.Account, httptest.NewRequest(http.MethodGet, "/api/account", nil), testUserID, "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"username":"testuser"}`, testUserID), rr.Body.String())
	})

	t.Run("Session for a vanished user", func(t *testing.T) {
		rr := serve(testHandlers.Account, httptest.NewRequest(http.MethodGet, "/api/account", nil), 99999, "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, []string{store.MsgUserNotFound}, decodeErrors(t, rr))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	st := store.New(testPool, db.SQLite, store.WithHashCost(bcrypt.MinCost))
	userID := st.CreateUser(ctx, "changer", "oldpassword").Unwrap().ID

	t.Run("New passwords must validate", func(t *testing.T) {
		rr := serve(testHandlers.ChangePassword, formRequest(http.MethodPut, "/api/account/password", url.Values{
			"old_password":   {"oldpassword"},
			"new_password":   {"newpassword"},
			"new_password_2": {"newpassw0rd"},
		}), userID, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{validation.MsgPasswordMismatch}, decodeErrors(t, rr))
	})

	t.Run("Wrong old password", func(t *testing.T) {
		rr := serve(testHandlers.ChangePassword, formRequest(http.MethodPut, "/api/account/password", url.Values{
			"old_password":   {"notmypassword"},
			"new_password":   {"newpassword"},
			"new_password_2": {"newpassword"},
		}), userID, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, []string{store.MsgWrongPassword}, decodeErrors(t, rr))
	})

	t.Run("Password changed", func(t *testing.T) {
		rr := serve(testHandlers.ChangePassword, formRequest(http.MethodPut, "/api/account/password", url.Values{
			"old_password":   {"oldpassword"},
			"new_password":   {"newpassword"},
			"new_password_2": {"newpassword"},
		}), userID, "")

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		hash := st.FindUserByID(ctx, userID).Unwrap().PasswordHash
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")))
	})
}

func TestMissingStoreConnection(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), testUserID))

	testHandlers.GetNotes(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, []string{store.MsgStorageFault}, decodeErrors(t, rr))
}
