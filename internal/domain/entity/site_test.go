package entity_test

import (
	"testing"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTrimsDomainAndPath(t *testing.T) {
	site := entity.Site{Domain: " example.com. ", Path: "blog/"}

	err := site.Normalize()
	require.NoError(t, err)
	require.Equal(t, "example.com", site.Domain)
	require.Equal(t, "/blog", site.Path)
	require.Equal(t, "example.com/blog", site.URN())
}

func TestNormalizeRootPathIsEmpty(t *testing.T) {
	site := entity.Site{Domain: "example.com", Path: "/"}

	err := site.Normalize()
	require.NoError(t, err)
	require.Equal(t, "", site.Path)
	require.Equal(t, "example.com", site.URN())
}

func TestNormalizeRejectsInvalidDomain(t *testing.T) {
	for _, domain := range []string{"", "...", "exa mple.com", "host/with/path"} {
		site := entity.Site{Domain: domain}
		require.Error(t, site.Normalize(), "domain %q should be rejected", domain)
	}
}

func TestAbsolutizeUsesSchemeAndPath(t *testing.T) {
	site := entity.Site{Domain: "example.com", Path: "/blog", Secure: true}
	require.Equal(t, "https://example.com/blog/hello.html", site.Absolutize("hello.html"))

	site.Secure = false
	require.Equal(t, "http://example.com/blog", site.Absolutize(""))
}

func TestCanEditAdminAndStaff(t *testing.T) {
	admin := uuid.New()
	staff := uuid.New()
	stranger := uuid.New()
	site := entity.Site{AdminID: admin, Staff: []uuid.UUID{staff}}

	require.True(t, site.CanEdit(admin))
	require.True(t, site.CanEdit(staff))
	require.False(t, site.CanEdit(stranger))
}
