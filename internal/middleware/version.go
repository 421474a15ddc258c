package middleware

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"foodtruck/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one published version of the HTTP API.
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active" or "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	versions       map[string]APIVersion
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		versions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// Deprecate marks version as deprecated until sunset.
func (vm *VersionMiddleware) Deprecate(version string, sunset time.Time) {
	v := vm.versions[version]
	v.Version = version
	v.Status = "deprecated"
	v.SunsetDate = &sunset
	vm.versions[version] = v
}

// VersionHeader stamps responses of a route group with its API version.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)

			if v, ok := vm.versions[version]; ok {
				if v.Status == "deprecated" && v.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", v.SunsetDate.Format(time.RFC3339))
				}
				if v.Message != "" {
					h.Set("X-API-Message", v.Message)
				}
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects unknown /vN prefixes and records the version on the context.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := versionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.versions[version]; !ok {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse("UNSUPPORTED_API_VERSION",
					"Unsupported API version", map[string]string{"supported_versions": strings.Join(vm.supported(), ", ")}))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// versionFromPath returns "vN" for paths like /vN or /vN/..., else "".
func versionFromPath(path string) string {
	if !strings.HasPrefix(path, "/v") {
		return ""
	}
	segment := strings.SplitN(path[1:], "/", 2)[0]
	digits := segment[1:]
	if digits == "" || strings.Trim(digits, "0123456789") != "" || digits[0] == '0' {
		return ""
	}
	return segment
}

func (vm *VersionMiddleware) supported() []string {
	versions := make([]string, 0, len(vm.versions))
	for v := range vm.versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}
