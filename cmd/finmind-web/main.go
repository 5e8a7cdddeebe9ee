package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	cfs "github.com/goliatone/go-composite-fs"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/finmind/finmind-go"
	"github.com/finmind/finmind-go/client"
	"github.com/finmind/finmind-go/config"
	"github.com/finmind/finmind-go/web"
)

// Templates and assets ship inside the binary; disk copies layered on top
// allow local overrides during dev.
//
//go:embed views public
var embeddedFS embed.FS

type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	bunDB   *bun.DB
	tokens  finmind.TokenStore
	session *finmind.SessionController
	queue   *finmind.Queue
	toaster *finmind.Toaster
	gateway *client.Client
	srv     router.Server[*fiber.App]
	logger  *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("finmind"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetDebug() {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	WithSession(app)

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	WebRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()

	app.toaster.Stop()
}

// WithPersistence opens the credential database, runs migrations, and
// builds the durable token store.
func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	db, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*finmind.Credential)(nil))

	dialect := sqlitedialect.New()
	pclient, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	pclient.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(finmind.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	pclient.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := pclient.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := pclient.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = pclient.DB()

	repo := finmind.NewRepositoryManager(app.bunDB)
	if err := repo.Validate(); err != nil {
		return err
	}

	app.tokens = finmind.NewCredentialTokenStore(
		repo.Credentials(),
		finmind.WithCredentialKey(app.Config().GetCredentialKey()),
	)

	return nil
}

// WithSession wires the session controller, notification queue, toaster,
// and the upstream gateway client.
func WithSession(app *App) {
	app.session = finmind.NewSessionController(
		app.tokens,
		finmind.WithSessionLogger(glogAdapter{app.GetLogger("session")}),
	)

	app.queue = finmind.NewQueue()
	app.toaster = finmind.NewToaster(app.queue)

	app.gateway = client.New(
		app.Config().GetBaseURL(),
		app.tokens,
		client.WithLogger(glogAdapter{app.GetLogger("gateway")}),
		client.WithHTTPClient(&http.Client{
			Timeout: app.Config().GetGateway().GetTimeout(),
		}),
	)

	// resolve session state up front so the first request never sees the
	// unresolved placeholder
	app.session.CheckAuth(context.Background())
}

func WithHTTPServer(ctx context.Context, app *App) error {
	vcfg := app.Config().GetViews()
	viewLogger := app.GetLogger("views")

	assetDir := strings.Trim(strings.TrimSpace(vcfg.GetAssetsDir()), "/")
	if assetDir == "" {
		assetDir = "."
	}

	subOrRoot := func(fsys fs.FS, dir string) fs.FS {
		dir = filepath.ToSlash(filepath.Clean(strings.TrimSpace(dir)))
		dir = strings.TrimPrefix(dir, "./")
		dir = strings.Trim(dir, "/")
		if dir == "" || dir == "." {
			return fsys
		}
		if _, err := fs.Stat(fsys, dir); err == nil {
			if sub, err := fs.Sub(fsys, dir); err == nil {
				return sub
			}
		}
		return fsys
	}

	embeddedAssets := subOrRoot(fs.FS(embeddedFS), assetDir)
	diskAssets := os.DirFS(filepath.Join("cmd", "finmind-web", assetDir))
	assetFS := cfs.NewCompositeFS(diskAssets, embeddedAssets)
	vcfg.AssetsDir = "."
	vcfg.SetAssetsFS(assetFS)

	templateDir := filepath.ToSlash(filepath.Clean(strings.TrimSpace(vcfg.GetDirFS())))
	templateDir = strings.TrimPrefix(templateDir, "./")
	templateDir = strings.Trim(templateDir, "/")
	if templateDir == "" {
		templateDir = "views"
	}

	embeddedTemplates, err := fs.Sub(embeddedFS, templateDir)
	if err != nil {
		return fmt.Errorf("unable to scope embedded templates to %q: %w", templateDir, err)
	}

	diskPath := filepath.Join("cmd", "finmind-web", templateDir)
	if _, err := os.Stat(templateDir); err == nil {
		diskPath = templateDir
	}
	diskTemplates := os.DirFS(diskPath)

	var templatesFS fs.FS = cfs.NewCompositeFS(diskTemplates, embeddedTemplates)
	vcfg.DirFS = "."
	vcfg.SetTemplatesFS([]fs.FS{templatesFS})

	engine, err := router.InitializeViewEngine(vcfg, viewLogger)
	if err != nil {
		return err
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: app.Config().GetDebug(),
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))
	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	srv.Router().Static("/", ".", router.Static{
		FS:   assetFS,
		Root: ".",
	})

	app.srv = srv

	return nil
}

func WebRoutes(app *App) {
	scfg := app.Config().GetSession()

	web.RegisterWebRoutes(app.srv.Router().Group("/"),
		web.WithDebug(app.Config().GetDebug()),
		web.WithLogger(glogAdapter{app.GetLogger("web")}),
		web.WithSession(app.session),
		web.WithTokens(app.tokens),
		web.WithGateway(app.gateway),
		web.WithNotifications(app.queue, app.toaster),
		web.WithDefaultRoute(scfg.GetDefaultRoute()),
		func(c *web.Controller) *web.Controller {
			c.Routes.Login = scfg.GetLoginRoute()
			c.RejectedRouteKey = scfg.GetRejectedRouteKey()
			return c
		},
	)

	defaultRoute := scfg.GetDefaultRoute()
	app.srv.Router().Get("/", func(ctx router.Context) error {
		return ctx.Redirect(defaultRoute, router.StatusSeeOther)
	})
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

// glogAdapter bridges the structured logger into the printf-style logger
// the library components expect.
type glogAdapter struct {
	lgr glog.Logger
}

func (a glogAdapter) Debug(format string, args ...any) {
	a.lgr.Debug(fmt.Sprintf(format, args...))
}

func (a glogAdapter) Info(format string, args ...any) {
	a.lgr.Info(fmt.Sprintf(format, args...))
}

func (a glogAdapter) Warn(format string, args ...any) {
	a.lgr.Warn(fmt.Sprintf(format, args...))
}

func (a glogAdapter) Error(format string, args ...any) {
	a.lgr.Error(fmt.Sprintf(format, args...))
}
