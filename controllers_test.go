package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	controllers "github.com/arikaim/controllers"
	"github.com/arikaim/controllers/pkg/access"
	"github.com/arikaim/controllers/pkg/crud"
	"github.com/arikaim/controllers/pkg/messages"
	"github.com/arikaim/controllers/pkg/validation"
)

type openPolicy struct{}

func (openPolicy) HasAccess(context.Context, string, string, string) bool { return true }
func (openPolicy) ControlPanelPermission() string                         { return "control-panel" }
func (openPolicy) FullPermissions() string                                { return "full" }

// End-to-end flow through the public facade: validate, persist through
// the CRUD service and answer with a translated envelope.
func TestResourceFlow(t *testing.T) {
	t.Parallel()

	resolver := messages.NewResolver("users", messages.WithTable("en", map[string]any{
		"create": "User created",
		"errors": map[string]any{
			"validation": map[string]any{
				"required": "The {{field}} field is required.",
			},
		},
	}))
	service := crud.NewService(crud.NewMemory())

	rs := controllers.NewResource(controllers.WithAPIOptions(
		controllers.WithResolver(resolver),
		controllers.WithGate(access.NewGate(openPolicy{})),
	))
	rs.Register("create", func(ctx context.Context, api *controllers.API, _ http.ResponseWriter, r *http.Request) error {
		if err := api.RequireAccess(ctx, "users", "write"); err != nil {
			return err
		}
		api.OnDataValid(ctx, func(data map[string]any) error {
			res, err := service.Create(ctx, data)
			if err != nil {
				return api.CrudError(ctx, crud.OpCreate, err)
			}
			api.ApplyCrudResult(ctx, res)
			return nil
		})

		name := r.URL.Query().Get("name")
		if name == "" {
			return api.Dispatch(validation.Invalid(validation.Errors{
				{Field: "name", Code: "required"},
			}))
		}
		return api.Dispatch(validation.Valid(map[string]any{"name": name}))
	})

	router := chi.NewRouter()
	rs.Mount(router, "/api/users")

	t.Run("valid data persists and answers ok", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/create?name=alice", nil))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", body["status"])
		result := body["result"].(map[string]any)
		assert.Equal(t, "User created", result["message"])
		assert.NotEmpty(t, result["uuid"])
	})

	t.Run("invalid data answers translated errors", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/create", nil))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, []any{"The name field is required."}, body["errors"])
	})
}

func TestHTTPErrorHelpers(t *testing.T) {
	t.Parallel()

	err := controllers.ErrNotFound("no such user", controllers.WithErrorCode("errors.user"))
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Equal(t, "errors.user", err.ErrorCode)
}
