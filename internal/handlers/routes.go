package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/ratelimit"
)

// Handlers bundles every handler the main API serves.
type Handlers struct {
	Links    *LinkHandler
	Users    *UserHandler
	Domains  *DomainHandler
	Redirect *RedirectHandler
	Config   *ConfigHandler
}

// RegisterRoutes registers the full API surface plus the public redirect.
func RegisterRoutes(api huma.API, h Handlers) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/link/shorten",
		Summary:       "Shorten a URL",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Limit{Max: 30, Window: time.Minute},
		},
	}, h.Links.Shorten)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/link/{slug}",
		Summary: "Delete a link",
		Tags:    []string{"Links"},
	}, h.Links.Delete)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/user/register",
		Summary:       "Register an account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Limit{Max: 10, Window: time.Hour},
		},
	}, h.Users.Register)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/user/login",
		Summary: "Log in",
		Tags:    []string{"Users"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Limit{Max: 20, Window: time.Minute},
		},
	}, h.Users.Login)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/user/logout",
		Summary: "Log out",
		Tags:    []string{"Users"},
	}, h.Users.Logout)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/user/me",
		Summary: "Current user profile",
		Tags:    []string{"Users"},
	}, h.Users.Profile)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/user/me",
		Summary: "Delete own account",
		Tags:    []string{"Users"},
	}, h.Users.DeleteMe)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/user/me/links",
		Summary: "List own links",
		Tags:    []string{"Users"},
	}, h.Users.MyLinks)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/user/me/update",
		Summary: "Update profile",
		Tags:    []string{"Users"},
	}, h.Users.UpdateProfile)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/user/me/password",
		Summary: "Change password",
		Tags:    []string{"Users"},
	}, h.Users.ChangePassword)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/user/password",
		Summary: "Check password strength",
		Tags:    []string{"Users"},
	}, h.Users.CheckPassword)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/user/verify/{token}",
		Summary: "Verify email address",
		Tags:    []string{"Users"},
	}, h.Users.Verify)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/domains",
		Summary: "List domains paged",
		Tags:    []string{"Domains"},
	}, h.Domains.ListPaged)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/domains/public",
		Summary: "List public domains",
		Tags:    []string{"Domains"},
	}, h.Domains.ListPublic)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/domains/all",
		Summary: "List visible domains",
		Tags:    []string{"Domains"},
	}, h.Domains.ListAll)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/api/domains/create",
		Summary:       "Create a domain",
		Tags:          []string{"Domains"},
		DefaultStatus: http.StatusCreated,
	}, h.Domains.Create)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPut,
		Path:    "/api/domains/{id}",
		Summary: "Update a domain",
		Tags:    []string{"Domains"},
	}, h.Domains.Update)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/domains/{id}",
		Summary: "Delete a domain",
		Tags:    []string{"Domains"},
	}, h.Domains.Delete)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/config",
		Summary: "Public configuration",
		Tags:    []string{"Config"},
	}, h.Config.Get)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/{slug}",
		Summary: "Redirect to the original URL",
		Tags:    []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Limit{Max: 1000, Window: time.Minute},
		},
	}, h.Redirect.Redirect)
}

// RegisterSetupRoutes registers the first-run wizard surface. These routes
// are only served while the app runs in setup mode.
func RegisterSetupRoutes(api huma.API, h *SetupHandler) {
	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/setup/set",
		Summary: "Write the initial configuration",
		Tags:    []string{"Setup"},
	}, h.SetConfig)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/setup/restart",
		Summary: "Restart the setup server",
		Tags:    []string{"Setup"},
	}, h.Restart)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/setup/serialize",
		Summary: "Serialize the current configuration",
		Tags:    []string{"Setup"},
	}, h.Serialize)
}
