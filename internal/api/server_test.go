package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmukherjee/storefront/internal/auth"
	"github.com/tmukherjee/storefront/internal/service"
	"github.com/tmukherjee/storefront/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	// adminToken belongs to the first registered user, memberToken to the
	// second (non-admin) user.
	adminToken  string
	memberToken string
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "storefront-api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("api-test-secret-key-for-signing", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	catalogSvc := service.NewCatalogService(store)
	authSvc := service.NewAuthService(authenticator, jwtManager, store)

	server := httptest.NewServer(NewServer(catalogSvc, authSvc, jwtManager))
	t.Cleanup(server.Close)

	env := &testEnv{server: server}
	env.adminToken = env.registerAndLogin(t, "root", "admin password!")
	env.memberToken = env.registerAndLogin(t, "clerk", "member password!")
	return env
}

func (e *testEnv) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	status, _ := e.do(t, http.MethodPost, "/register", "",
		map[string]any{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, status)

	status, resp := e.do(t, http.MethodPost, "/login", "",
		map[string]any{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// do performs a request and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, apiResponse) {
	t.Helper()

	var payload *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(b)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded apiResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res.StatusCode, decoded
}

func (e *testEnv) createStore(t *testing.T, name string) string {
	t.Helper()
	status, resp := e.do(t, http.MethodPost, "/store", e.memberToken, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, status)
	var store struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &store))
	return store.ID
}

func (e *testEnv) createItem(t *testing.T, name string, price float64, storeID string) string {
	t.Helper()
	status, resp := e.do(t, http.MethodPost, "/item", e.memberToken,
		map[string]any{"name": name, "price": price, "store_id": storeID})
	require.Equal(t, http.StatusCreated, status)
	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	return item.ID
}

func (e *testEnv) createTag(t *testing.T, name, storeID string) string {
	t.Helper()
	status, resp := e.do(t, http.MethodPost, "/store/"+storeID+"/tag", e.memberToken,
		map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, status)
	var tag struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tag))
	return tag.ID
}

func TestAuthFlow(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/register", "",
			map[string]any{"username": "root", "password": "whatever pass!"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Contains(t, resp.Error, "already exists")
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/login", "",
			map[string]any{"username": "root", "password": "not the password"})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "invalid credentials", resp.Error)
	})

	t.Run("reads require authentication", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/store", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("password hash never serializes", func(t *testing.T) {
		status, resp := env.do(t, http.MethodGet, "/user", env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotContains(t, string(resp.Data), "password")
	})
}

func TestStoreEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	storeID := env.createStore(t, "luna")

	t.Run("duplicate store name is a bad request", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/store", env.memberToken,
			map[string]any{"name": "luna"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "already exists")
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, "/store", env.memberToken,
			map[string]any{"name": "venus", "surprise": true})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("get store", func(t *testing.T) {
		status, resp := env.do(t, http.MethodGet, "/store/"+storeID, env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		var store struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &store))
		assert.Equal(t, "luna", store.Name)
	})

	t.Run("missing store is 404", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/store/no-such-id", env.memberToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("delete cascades to items and tags", func(t *testing.T) {
		itemID := env.createItem(t, "laptop", 999, storeID)
		tagID := env.createTag(t, "electronics", storeID)
		status, _ := env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagID), env.memberToken, nil)
		require.Equal(t, http.StatusCreated, status)

		status, _ = env.do(t, http.MethodDelete, "/store/"+storeID, env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = env.do(t, http.MethodGet, "/item/"+itemID, env.memberToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = env.do(t, http.MethodGet, "/tag/"+tagID, env.memberToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestItemEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t, "bookshop")

	t.Run("create item in unknown store is 404", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, "/item", env.memberToken,
			map[string]any{"name": "ghost", "price": 1.0, "store_id": "nope"})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("replace is admin only", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPut, "/item/chosen-id", env.memberToken,
			map[string]any{"name": "atlas", "price": 30.0, "store_id": storeID})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Contains(t, resp.Error, "admin privilege required")
	})

	t.Run("replace inserts then updates in place", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPut, "/item/chosen-id", env.adminToken,
			map[string]any{"name": "atlas", "price": 30.0, "store_id": storeID})
		require.Equal(t, http.StatusCreated, status)

		status, resp := env.do(t, http.MethodPut, "/item/chosen-id", env.adminToken,
			map[string]any{"name": "atlas", "price": 25.0})
		require.Equal(t, http.StatusOK, status)
		var item struct {
			Price   float64 `json:"price"`
			StoreID string  `json:"store_id"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &item))
		assert.Equal(t, 25.0, item.Price)
		assert.Equal(t, storeID, item.StoreID)

		status, resp = env.do(t, http.MethodGet, "/item", env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		var list struct {
			Items []json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		assert.Len(t, list.Items, 1, "update must not add an item")
	})

	t.Run("delete item requires admin", func(t *testing.T) {
		itemID := env.createItem(t, "notebook", 5, storeID)

		status, resp := env.do(t, http.MethodDelete, "/item/"+itemID, env.memberToken, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Contains(t, resp.Error, "admin privilege required")

		status, _ = env.do(t, http.MethodDelete, "/item/"+itemID, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestTagEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	storeA := env.createStore(t, "store-a")
	storeB := env.createStore(t, "store-b")
	itemID := env.createItem(t, "novel", 12.5, storeA)
	tagA := env.createTag(t, "fiction", storeA)
	tagB := env.createTag(t, "fiction", storeB)

	t.Run("duplicate tag in store is a bad request", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, "/store/"+storeA+"/tag", env.memberToken,
			map[string]any{"name": "fiction"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("cross-store link is a bad request", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagB), env.memberToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "same store")
	})

	t.Run("same-store link succeeds and retries", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagA), env.memberToken, nil)
		require.Equal(t, http.StatusCreated, status)
		status, _ = env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagA), env.memberToken, nil)
		require.Equal(t, http.StatusCreated, status)

		status, resp := env.do(t, http.MethodGet, "/tag/"+tagA, env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		var tag struct {
			Items []json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &tag))
		assert.Len(t, tag.Items, 1)
	})

	t.Run("linked tag cannot be deleted", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, "/tag/"+tagA, env.adminToken, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Contains(t, resp.Error, "in use")
	})

	t.Run("unlink then delete succeeds", func(t *testing.T) {
		status, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/item/%s/tag/%s", itemID, tagA), env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = env.do(t, http.MethodDelete, "/tag/"+tagA, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("deleting item empties tag links", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagB), env.memberToken, nil)
		require.Equal(t, http.StatusBadRequest, status) // still cross-store

		tagC := env.createTag(t, "paperback", storeA)
		status, _ = env.do(t, http.MethodPost, fmt.Sprintf("/item/%s/tag/%s", itemID, tagC), env.memberToken, nil)
		require.Equal(t, http.StatusCreated, status)

		status, _ = env.do(t, http.MethodDelete, "/item/"+itemID, env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		status, resp := env.do(t, http.MethodGet, "/tag/"+tagC, env.memberToken, nil)
		require.Equal(t, http.StatusOK, status)
		var tag struct {
			Items []json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &tag))
		assert.Empty(t, tag.Items)
	})
}

func TestUserEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/user", env.memberToken, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Users, 2)

	var clerkID string
	for _, u := range list.Users {
		switch u.Username {
		case "root":
			assert.True(t, u.IsAdmin)
		case "clerk":
			assert.False(t, u.IsAdmin)
			clerkID = u.ID
		}
	}
	require.NotEmpty(t, clerkID)

	t.Run("delete user requires admin", func(t *testing.T) {
		status, _ := env.do(t, http.MethodDelete, "/user/"+clerkID, env.memberToken, nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = env.do(t, http.MethodDelete, "/user/"+clerkID, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = env.do(t, http.MethodGet, "/user/"+clerkID, env.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestHealthz(t *testing.T) {
	env := setupTestEnv(t)
	status, _ := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
