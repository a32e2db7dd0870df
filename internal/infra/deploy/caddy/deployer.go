package caddy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/publish"
)

// Deployer serves sites straight from the engine output directory through a
// caddy instance, driving its admin API. Each site gets one named route on
// the configured server; deploys beyond registration are no-ops since caddy
// reads the rendered files in place.
type Deployer struct {
	cfg       *Config
	client    *http.Client
	engines   *publish.EngineRegistry
	available bool
}

var _ publish.Deployer = (*Deployer)(nil)

type route struct {
	ID     string    `json:"@id,omitempty"`
	Match  []match   `json:"match,omitempty"`
	Handle []handler `json:"handle"`
}

type match struct {
	Host []string `json:"host,omitempty"`
	Path []string `json:"path,omitempty"`
}

type handler struct {
	Handler         string `json:"handler"`
	Root            string `json:"root,omitempty"`
	StripPathPrefix string `json:"strip_path_prefix,omitempty"`
}

type server struct {
	Listen []string `json:"listen"`
	Routes []route  `json:"routes"`
}

func NewDeployer(config *Config, engines *publish.EngineRegistry) *Deployer {
	d := &Deployer{
		cfg: config,
		client: &http.Client{Timeout: 4 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			}},
		engines: engines,
	}

	resp, err := d.client.Get(config.AdminURL + "/config/")
	if err != nil {
		slog.Warn("Caddy admin API not reachable, deployer disabled", "url", config.AdminURL, "error", err)
		return d
	}
	defer resp.Body.Close()
	d.available = resp.StatusCode == http.StatusOK
	return d
}

func (d *Deployer) Available() bool {
	return d.available
}

// Register attaches a file server route for the site's domain, creating the
// http server on first use. Idempotent through the route's config id.
func (d *Deployer) Register(ctx context.Context, site *entity.Site) error {
	if err := d.ensureServer(ctx); err != nil {
		return err
	}

	exists, err := d.routeExists(ctx, routeID(site))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	engine, err := d.engines.Get(site.Engine)
	if err != nil {
		return err
	}
	newRoute := route{
		ID:     routeID(site),
		Match:  []match{{Host: []string{site.Domain}}},
		Handle: []handler{{Handler: "file_server", Root: engine.OutputPath(site)}},
	}
	if site.Path != "" {
		newRoute.Match[0].Path = []string{site.Path + "/*"}
		newRoute.Handle = append([]handler{{Handler: "rewrite", StripPathPrefix: site.Path}}, newRoute.Handle...)
	}

	slog.Info("Registering caddy route", "site", site.URN())
	return d.do(ctx, "POST", fmt.Sprintf("/config/apps/http/servers/%s/routes", d.cfg.Server), newRoute)
}

// Deploy only has to keep the routing current, the rendered output is already
// on local disk where caddy serves it from.
func (d *Deployer) Deploy(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page, _ publish.Options) error {
	if post != nil || page != nil {
		return nil
	}
	return d.Register(ctx, site)
}

// Delete drops the site's route. Single-artifact deletes need no routing
// change since the engine already removed the file being served.
func (d *Deployer) Delete(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page) error {
	if post != nil || page != nil {
		return nil
	}

	exists, err := d.routeExists(ctx, routeID(site))
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	slog.Info("Removing caddy route", "site", site.URN())
	return d.do(ctx, "DELETE", "/id/"+routeID(site), nil)
}

func (d *Deployer) ensureServer(ctx context.Context) error {
	path := fmt.Sprintf("/config/apps/http/servers/%s", d.cfg.Server)
	resp, err := d.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	slog.Info("Creating caddy server", "server", d.cfg.Server)
	return d.do(ctx, "POST", path, server{Listen: []string{":443"}, Routes: []route{}})
}

func (d *Deployer) routeExists(ctx context.Context, id string) (bool, error) {
	resp, err := d.get(ctx, "/id/"+id)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (d *Deployer) get(ctx context.Context, path string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, "GET", d.cfg.AdminURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("err querying caddy admin API at %s, %v", path, err)
	}
	return resp, nil
}

func (d *Deployer) do(ctx context.Context, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}
	request, err := http.NewRequestWithContext(ctx, method, d.cfg.AdminURL+path, body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(request)
	if err != nil {
		return fmt.Errorf("err calling caddy admin API at %s, %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("caddy admin API %s %s returned %d: %s", method, path, resp.StatusCode, detail)
	}
	return nil
}

func routeID(site *entity.Site) string {
	return fmt.Sprintf("blogward-site-%d", site.ID)
}
