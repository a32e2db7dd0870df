package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var domainPattern = regexp.MustCompile(`^([a-zA-Z0-9_\-]+\.?)+$`)
var pathPattern = regexp.MustCompile(`^([a-zA-Z0-9_\-]+/?)*$`)

// Site is one tenant's published destination, identified by its URN (domain plus
// optional path). Engine and Deployment select implementations out of the
// registries by id.
type Site struct {
	ID       uint64
	Domain   string
	Path     string
	AdminID  uuid.UUID
	Staff    []uuid.UUID
	Lang     string
	Timezone string

	Title    string
	Subtitle string
	Logo     string
	Heading  string

	AllowCrawlers bool
	AllowTraining bool

	Engine     string
	Deployment string
	Secure     bool

	// Links are the site's menu items, loaded for render runs.
	Links []Link

	CreatedAt time.Time
	UpdatedAt time.Time
}

// URN uniquely identifies the site, e.g. "example.com" or "example.com/blog".
func (s *Site) URN() string {
	return s.Domain + s.Path
}

// Normalize enforces the URN invariants before a save: the domain never ends
// in a dot and the path is either empty or "/"-prefixed with no trailing slash.
func (s *Site) Normalize() error {
	s.Domain = strings.Trim(strings.TrimSpace(s.Domain), ".")
	if s.Domain == "" || !domainPattern.MatchString(s.Domain) {
		return fmt.Errorf("invalid site domain %q", s.Domain)
	}
	path := strings.Trim(s.Path, "/")
	if path != "" && !pathPattern.MatchString(path) {
		return fmt.Errorf("invalid site path %q", s.Path)
	}
	if path == "" {
		s.Path = ""
	} else {
		s.Path = "/" + path
	}
	return nil
}

// Absolutize turns a site-relative path into a full URL using the site scheme.
func (s *Site) Absolutize(path string) string {
	scheme := "http://"
	if s.Secure {
		scheme = "https://"
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + s.Domain + s.Path + path
}

// CanEdit reports whether the user is the site admin or one of its staff.
func (s *Site) CanEdit(user uuid.UUID) bool {
	if user == s.AdminID {
		return true
	}
	for _, staff := range s.Staff {
		if user == staff {
			return true
		}
	}
	return false
}
