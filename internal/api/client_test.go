package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartspend/internal/config"
	"smartspend/internal/core"
)

func testClient(coreURL, authURL string, legacy bool) *Client {
	return NewClient(&config.Config{
		CoreBaseURL:        coreURL,
		AuthBaseURL:        authURL,
		HTTPTimeout:        5 * time.Second,
		LegacyTokenInQuery: legacy,
	})
}

func TestClient_TokenTransport(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("token")
		_ = json.NewEncoder(w).Encode([]core.Transaction{})
	}))
	defer srv.Close()

	t.Run("legacy query enabled", func(t *testing.T) {
		c := testClient(srv.URL, srv.URL, true)
		_, err := c.Expenses(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-1", gotAuth)
		assert.Equal(t, "tok-1", gotQuery)
	})

	t.Run("bearer only", func(t *testing.T) {
		c := testClient(srv.URL, srv.URL, false)
		_, err := c.Expenses(context.Background(), "tok-2")
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-2", gotAuth)
		assert.Empty(t, gotQuery)
	})
}

func TestClient_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])
		require.Equal(t, "secret", body["password"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"X"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)
	res, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "X", res.AccessToken)
}

func TestClient_SignIn_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)
	_, err := c.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ErrorKinds(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL, true)
		_, err := c.Expenses(context.Background(), "tok")
		kind, ok := ErrKind(err)
		require.True(t, ok)
		assert.Equal(t, KindServer, kind)
	})

	t.Run("decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"an array"`))
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL, true)
		_, err := c.Expenses(context.Background(), "tok")
		kind, ok := ErrKind(err)
		require.True(t, ok)
		assert.Equal(t, KindDecode, kind)
	})

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse all connections

		c := testClient(srv.URL, srv.URL, true)
		_, err := c.Expenses(context.Background(), "tok")
		kind, ok := ErrKind(err)
		require.True(t, ok)
		assert.Equal(t, KindNetwork, kind)
	})
}

func TestClient_ChangePassword_DistinguishesWrongPassword(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)

	status = http.StatusUnauthorized
	err := c.ChangePassword(context.Background(), "tok", "old", "new")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	status = http.StatusBadRequest
	err = c.ChangePassword(context.Background(), "tok", "old", "new")
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))

	status = http.StatusCreated
	require.NoError(t, c.ChangePassword(context.Background(), "tok", "old", "new"))
}

func TestClient_CreateTransaction(t *testing.T) {
	var calls int
	var got core.NewTransaction
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)

	t.Run("defaults date to now", func(t *testing.T) {
		err := c.CreateTransaction(context.Background(), "tok", core.ExpenseKind, core.NewTransaction{
			Amount:      12.5,
			Description: "groceries",
			Category:    "food",
		})
		require.NoError(t, err)
		assert.Equal(t, "/expense", path)
		require.NotEmpty(t, got.Date)
		_, perr := time.Parse(core.DateLayout, got.Date)
		assert.NoError(t, perr)
	})

	t.Run("income goes to its own endpoint", func(t *testing.T) {
		err := c.CreateTransaction(context.Background(), "tok", core.IncomeKind, core.NewTransaction{
			Amount:      100,
			Description: "salary",
			Category:    "work",
		})
		require.NoError(t, err)
		assert.Equal(t, "/income", path)
	})

	t.Run("invalid payload never reaches the network", func(t *testing.T) {
		before := calls
		err := c.CreateTransaction(context.Background(), "tok", core.ExpenseKind, core.NewTransaction{
			Amount:      -1,
			Description: "bad",
			Category:    "food",
		})
		require.ErrorIs(t, err, core.ErrInvalidAmount)
		assert.Equal(t, before, calls)
	})

	t.Run("invalid kind is rejected", func(t *testing.T) {
		err := c.CreateTransaction(context.Background(), "tok", core.TransactionKind("Transfer"), core.NewTransaction{})
		require.ErrorIs(t, err, core.ErrInvalidKind)
	})
}

func TestClient_Recommendations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommendations/generate", r.URL.Path)
		require.Equal(t, "tok", r.URL.Query().Get("userToken"))
		require.Equal(t, "2024/12", r.URL.Query().Get("period"))
		_, _ = w.Write([]byte(`{"suggestions":[{"category":"food","advice":"cook more"}],"user":"u1","date":"2024-12-03","_id":"r1"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)
	res, err := c.Recommendations(context.Background(), "tok", "2024/12")
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "food", res.Suggestions[0].Category)
	assert.Equal(t, "cook more", res.Suggestions[0].Advice)
}

func TestClient_ForgotPassword_UsesAuthHost(t *testing.T) {
	var coreHits, authHits int
	coreSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		coreHits++
	}))
	defer coreSrv.Close()
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHits++
		require.Equal(t, "/auth/forgot-password", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer authSrv.Close()

	c := testClient(coreSrv.URL, authSrv.URL, true)
	require.NoError(t, c.ForgotPassword(context.Background(), "a@b.c"))
	assert.Zero(t, coreHits)
	assert.Equal(t, 1, authHits)
}

func TestClient_VerifyResetToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-reset-token", r.URL.Path)
		valid := r.URL.Query().Get("token") == "123456"
		_ = json.NewEncoder(w).Encode(map[string]bool{"isValid": valid})
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL, true)

	ok, err := c.VerifyResetToken(context.Background(), "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifyResetToken(context.Background(), "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}
