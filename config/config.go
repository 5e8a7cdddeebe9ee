package config

import (
	"fmt"
	"io/fs"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// BaseConfig is the application configuration tree. Values are loaded by
// the config container from app.json plus environment overrides.
type BaseConfig struct {
	Debug       bool         `json:"debug"`
	Server      *Server      `json:"server"`
	Gateway     *Gateway     `json:"gateway"`
	Session     *Session     `json:"session"`
	Views       *Views       `json:"views"`
	Persistence *Persistence `json:"persistence"`
}

func (c *BaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Gateway),
	)
}

func (c *BaseConfig) GetDebug() bool {
	return c.Debug
}

func (c *BaseConfig) GetServer() *Server {
	if c.Server == nil {
		c.Server = &Server{}
	}
	return c.Server
}

func (c *BaseConfig) GetGateway() *Gateway {
	if c.Gateway == nil {
		c.Gateway = &Gateway{}
	}
	return c.Gateway
}

func (c *BaseConfig) GetSession() *Session {
	if c.Session == nil {
		c.Session = &Session{}
	}
	return c.Session
}

func (c *BaseConfig) GetViews() *Views {
	if c.Views == nil {
		c.Views = &Views{}
	}
	return c.Views
}

func (c *BaseConfig) GetPersistence() *Persistence {
	if c.Persistence == nil {
		c.Persistence = &Persistence{}
	}
	return c.Persistence
}

// GetBaseURL implements the client configuration surface.
func (c *BaseConfig) GetBaseURL() string {
	return c.GetGateway().GetBaseURL()
}

func (c *BaseConfig) GetLoginRoute() string {
	return c.GetSession().GetLoginRoute()
}

func (c *BaseConfig) GetDefaultRoute() string {
	return c.GetSession().GetDefaultRoute()
}

func (c *BaseConfig) GetCredentialKey() string {
	return c.GetSession().GetCredentialKey()
}

// Server holds the HTTP listener options.
type Server struct {
	Addr string `json:"addr"`
}

func (s *Server) GetAddr() string {
	if s.Addr == "" {
		return ":3000"
	}
	return s.Addr
}

// Gateway holds the upstream analytics API options.
type Gateway struct {
	BaseURL           string `json:"base_url"`
	TimeoutExpression string `json:"timeout"`
}

func (g Gateway) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.BaseURL, is.URL),
	)
}

func (g *Gateway) GetBaseURL() string {
	if g.BaseURL == "" {
		return "http://localhost:8000"
	}
	return g.BaseURL
}

func (g *Gateway) GetTimeout() time.Duration {
	if g.TimeoutExpression == "" {
		return 30 * time.Second
	}
	dur, err := time.ParseDuration(g.TimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", g.TimeoutExpression),
		)
	}
	return dur
}

// Session holds the auth session and routing options.
type Session struct {
	LoginRoute       string `json:"login_route"`
	DefaultRoute     string `json:"default_route"`
	CredentialKey    string `json:"credential_key"`
	RejectedRouteKey string `json:"rejected_route_key"`
}

func (s *Session) GetLoginRoute() string {
	if s.LoginRoute == "" {
		return "/login"
	}
	return s.LoginRoute
}

func (s *Session) GetDefaultRoute() string {
	if s.DefaultRoute == "" {
		return "/dashboard"
	}
	return s.DefaultRoute
}

func (s *Session) GetCredentialKey() string {
	if s.CredentialKey == "" {
		return "token"
	}
	return s.CredentialKey
}

func (s *Session) GetRejectedRouteKey() string {
	if s.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return s.RejectedRouteKey
}

// Views holds the template engine options. The FS setters let the app
// layer disk overrides on top of the embedded templates before the view
// engine initializes.
type Views struct {
	DirFS     string `json:"dir"`
	AssetsDir string `json:"assets_dir"`
	Ext       string `json:"ext"`
	Reload    bool   `json:"reload"`
	Debug     bool   `json:"debug"`

	templatesFS []fs.FS
	assetsFS    fs.FS
	funcs       map[string]any
}

func (v *Views) GetDirFS() string {
	if v.DirFS == "" {
		return "views"
	}
	return v.DirFS
}

func (v *Views) GetAssetsDir() string {
	if v.AssetsDir == "" {
		return "public"
	}
	return v.AssetsDir
}

func (v *Views) GetExt() string {
	if v.Ext == "" {
		return ".html"
	}
	return v.Ext
}

func (v *Views) GetReload() bool {
	return v.Reload
}

func (v *Views) GetDebug() bool {
	return v.Debug
}

func (v *Views) SetTemplatesFS(fsys []fs.FS) {
	v.templatesFS = fsys
}

func (v *Views) GetTemplatesFS() []fs.FS {
	return v.templatesFS
}

func (v *Views) SetAssetsFS(fsys fs.FS) {
	v.assetsFS = fsys
}

func (v *Views) GetAssetsFS() fs.FS {
	return v.assetsFS
}

func (v *Views) SetTemplateFunctions(funcs map[string]any) {
	v.funcs = funcs
}

func (v *Views) GetTemplateFunctions() map[string]any {
	return v.funcs
}

// Persistence holds the credential store database options.
type Persistence struct {
	Debug                 bool   `json:"debug"`
	Driver                string `json:"driver"`
	DSN                   string `json:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout"`
}

func (p *Persistence) GetDebug() bool {
	return p.Debug
}

func (p *Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p *Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file:finmind.db?cache=shared&mode=rwc"
	}
	return p.DSN
}

func (p *Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
