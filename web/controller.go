package web

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"

	"github.com/finmind/finmind-go"
	"github.com/finmind/finmind-go/client"
	"github.com/finmind/finmind-go/middleware/gate"
)

type ControllerRoutes struct {
	Login         string
	Signup        string
	Logout        string
	Dashboard     string
	Upload        string
	Analysis      string
	Insights      string
	Reports       string
	Forecast      string
	Compliance    string
	Notifications string
}

type ControllerViews struct {
	Login         string
	Signup        string
	Dashboard     string
	Upload        string
	Analysis      string
	Insights      string
	Reports       string
	Forecast      string
	Compliance    string
	Notifications string
	Waiting       string
}

type Controller struct {
	Debug            bool
	Logger           finmind.Logger
	Session          *finmind.SessionController
	Tokens           finmind.TokenStore
	Gateway          *client.Client
	Queue            *finmind.Queue
	Notify           *finmind.Notifier
	Toaster          *finmind.Toaster
	Routes           *ControllerRoutes
	Views            *ControllerViews
	ErrorHandler     router.ErrorHandler
	DefaultRoute     string
	RejectedRouteKey string
}

type ControllerOption func(*Controller) *Controller

func WithDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

func WithLogger(logger finmind.Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = logger
		return c
	}
}

func WithSession(session *finmind.SessionController) ControllerOption {
	return func(c *Controller) *Controller {
		c.Session = session
		return c
	}
}

func WithTokens(tokens finmind.TokenStore) ControllerOption {
	return func(c *Controller) *Controller {
		c.Tokens = tokens
		return c
	}
}

func WithGateway(gateway *client.Client) ControllerOption {
	return func(c *Controller) *Controller {
		c.Gateway = gateway
		return c
	}
}

func WithNotifications(queue *finmind.Queue, toaster *finmind.Toaster) ControllerOption {
	return func(c *Controller) *Controller {
		c.Queue = queue
		c.Notify = finmind.NewNotifier(queue)
		c.Toaster = toaster
		return c
	}
}

func WithErrorHandler(handler router.ErrorHandler) ControllerOption {
	return func(c *Controller) *Controller {
		c.ErrorHandler = handler
		return c
	}
}

func WithDefaultRoute(route string) ControllerOption {
	return func(c *Controller) *Controller {
		c.DefaultRoute = route
		return c
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       finmind.DefaultLogger(),
		ErrorHandler: defaultErrHandler,
		DefaultRoute: "/dashboard",
		Routes: &ControllerRoutes{
			Login:         "/login",
			Signup:        "/signup",
			Logout:        "/logout",
			Dashboard:     "/dashboard",
			Upload:        "/upload",
			Analysis:      "/analysis",
			Insights:      "/insights",
			Reports:       "/reports",
			Forecast:      "/forecast",
			Compliance:    "/compliance",
			Notifications: "/notifications",
		},
		Views: &ControllerViews{
			Login:         "login",
			Signup:        "signup",
			Dashboard:     "dashboard",
			Upload:        "upload",
			Analysis:      "analysis",
			Insights:      "insights",
			Reports:       "reports",
			Forecast:      "forecast",
			Compliance:    "compliance",
			Notifications: "notifications",
			Waiting:       "waiting",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Session == nil {
		panic("Missing SessionController in web controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenStore in web controller...")
	}

	if c.Gateway == nil {
		panic("Missing gateway client in web controller...")
	}

	if c.Queue == nil {
		panic("Missing notification queue in web controller...")
	}

	return c
}

// viewContext decorates every page with the ambient session and
// notification state the layout renders.
func (a *Controller) viewContext(extra router.ViewContext) router.ViewContext {
	vc := router.ViewContext{
		"authenticated": a.Session.State().Authenticated(),
		"unread":        a.Queue.UnreadCount(),
	}
	if a.Toaster != nil {
		vc["toasts"] = a.Toaster.Visible()
	}
	for k, v := range extra {
		vc[k] = v
	}
	return vc
}

func (a *Controller) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, a.viewContext(router.ViewContext{
		"errors": nil,
		"record": nil,
	}))
}

func (a *Controller) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)
	errs := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, a.viewContext(router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		}))
	}

	if a.Debug {
		fmt.Println("======= LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("====================")
	}

	token, err := a.Gateway.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login: %v", err)
		errs["authentication"] = apiErrorMessage(err, "Login failed")
		return ctx.Render(a.Views.Login, a.viewContext(router.ViewContext{
			"errors": errs,
			"record": payload,
		}))
	}

	if err := a.Tokens.Save(ctx.Context(), token); err != nil {
		a.Logger.Error("login: token save: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	a.Session.CheckAuth(ctx.Context())
	a.Notify.Success("Logged in successfully")

	redirect := gate.GetRedirect(ctx, a.RejectedRouteKey, a.DefaultRoute)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Welcome back",
	}).Redirect(redirect, fiber.StatusSeeOther)
}

func (a *Controller) SignupShow(ctx router.Context) error {
	return ctx.Render(a.Views.Signup, a.viewContext(router.ViewContext{
		"errors": map[string]string{},
		"record": SignupRequest{},
	}))
}

func (a *Controller) SignupPost(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		errs := map[string]string{}
		errs["form"] = "Failed to parse form"
		a.Logger.Error("signup parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Signup, a.viewContext(router.ViewContext{
			"errors": errs,
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		errs := FormatValidationErrorToMap(err)
		a.Logger.Error("signup validate payload: %v", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Signup, a.viewContext(router.ViewContext{
			"record":     payload,
			"validation": errs,
		}))
	}

	input := client.SignupInput{
		Email:        payload.Email,
		FullName:     payload.FullName,
		BusinessName: payload.BusinessName,
		Industry:     payload.Industry,
		Password:     payload.Password,
	}

	if err := a.Gateway.Signup(ctx.Context(), input); err != nil {
		a.Logger.Error("signup: %v", err)
		msg := apiErrorMessage(err, "Signup failed")
		a.Notify.Error(msg)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  msg,
			"system_message": "Error creating account",
		}).Render(a.Views.Signup, a.viewContext(router.ViewContext{
			"record": payload,
			"errors": []string{msg},
		}))
	}

	a.Notify.Success("Account created, you can sign in now")

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Successful registration",
	}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

func (a *Controller) LogOut(ctx router.Context) error {
	if err := a.Session.Logout(ctx.Context()); err != nil {
		a.Logger.Error("logout: %v", err)
	}
	a.Notify.Info("You have been logged out")
	return ctx.Redirect(a.Routes.Login, router.StatusTemporaryRedirect)
}

func (a *Controller) Dashboard(ctx router.Context) error {
	vc := router.ViewContext{}

	token, err := a.Tokens.Get(ctx.Context())
	if err == nil && token != "" {
		if info, derr := finmind.DecodeTokenInfo(token); derr == nil {
			vc["token_info"] = info
		}
	}

	analysis, err := a.Gateway.Analysis(ctx.Context())
	if err != nil {
		a.Logger.Warn("dashboard analysis: %v", err)
		vc["analysis_error"] = apiErrorMessage(err, "Could not load analysis")
	} else {
		vc["analysis"] = analysis
	}

	if a.Debug {
		fmt.Println("======= DASHBOARD ======")
		fmt.Println(print.MaybePrettyJSON(analysis))
		fmt.Println("========================")
	}

	return ctx.Render(a.Views.Dashboard, a.viewContext(vc))
}

func (a *Controller) UploadShow(ctx router.Context) error {
	return ctx.Render(a.Views.Upload, a.viewContext(router.ViewContext{
		"errors": nil,
		"record": nil,
	}))
}

func (a *Controller) UploadPost(ctx router.Context) error {
	payload := new(UploadRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("upload parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Upload, a.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Upload, a.viewContext(router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		}))
	}

	file, err := os.Open(payload.FilePath)
	if err != nil {
		a.Logger.Error("upload open file: %v", err)
		return a.uploadError(ctx, payload, "Could not open the selected file")
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		a.Logger.Error("upload stat file: %v", err)
		return a.uploadError(ctx, payload, "Could not read the selected file")
	}

	filename := filepath.Base(payload.FilePath)
	if err := ValidateUploadFile(filename, stat.Size()); err != nil {
		a.Notify.Error(err.Error(), "Upload rejected")
		return a.uploadError(ctx, payload, err.Error())
	}

	if err := a.Gateway.Upload(ctx.Context(), filename, file); err != nil {
		a.Logger.Error("upload: %v", err)
		msg := apiErrorMessage(err, "Upload failed")
		a.Notify.Error(msg, "Upload failed")
		return a.uploadError(ctx, payload, msg)
	}

	a.Notify.Success("File uploaded successfully")

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Statement uploaded",
	}).Redirect(a.Routes.Analysis, fiber.StatusSeeOther)
}

func (a *Controller) uploadError(ctx router.Context, payload *UploadRequest, msg string) error {
	return flash.WithError(ctx, router.ViewContext{
		"error_message":  msg,
		"system_message": "Upload error",
	}).Render(a.Views.Upload, a.viewContext(router.ViewContext{
		"record": payload,
		"errors": []string{msg},
	}))
}

func (a *Controller) AnalysisShow(ctx router.Context) error {
	vc := router.ViewContext{}

	analysis, err := a.Gateway.Analysis(ctx.Context())
	if err != nil {
		a.Logger.Warn("analysis: %v", err)
		vc["error"] = apiErrorMessage(err, "Could not load analysis")
	} else {
		vc["analysis"] = analysis
	}

	return ctx.Render(a.Views.Analysis, a.viewContext(vc))
}

func (a *Controller) InsightsShow(ctx router.Context) error {
	lang := ctx.Query("lang", "en")
	vc := router.ViewContext{"lang": lang}

	insights, err := a.Gateway.Insights(ctx.Context(), lang)
	if err != nil {
		a.Logger.Warn("insights: %v", err)
		vc["insights_error"] = apiErrorMessage(err, "Could not load insights")
	} else {
		vc["insights"] = insights
	}

	return ctx.Render(a.Views.Insights, a.viewContext(vc))
}

// InsightsGenerate asks the gateway to produce a fresh financial health
// narrative and renders it alongside the cached insights.
func (a *Controller) InsightsGenerate(ctx router.Context) error {
	payload := InsightsRequest{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	lang := payload.Lang
	if lang == "" {
		lang = ctx.Query("lang", "en")
	}
	vc := router.ViewContext{"lang": lang}

	insights, err := a.Gateway.Insights(ctx.Context(), lang)
	if err != nil {
		a.Logger.Warn("insights: %v", err)
		vc["insights_error"] = apiErrorMessage(err, "Could not load insights")
	} else {
		vc["insights"] = insights
	}

	health, err := a.Gateway.FinancialHealth(ctx.Context(), lang)
	if err != nil {
		a.Logger.Warn("financial health: %v", err)
		vc["health_error"] = apiErrorMessage(err, "Could not generate financial health")
	} else {
		vc["health"] = health
	}

	return ctx.Render(a.Views.Insights, a.viewContext(vc))
}

func (a *Controller) ReportsShow(ctx router.Context) error {
	vc := router.ViewContext{}

	reports, err := a.Gateway.Reports(ctx.Context())
	if err != nil {
		a.Logger.Warn("reports: %v", err)
		vc["error"] = apiErrorMessage(err, "Could not load reports")
	} else {
		vc["reports"] = reports
	}

	if a.Debug {
		fmt.Println("======= REPORTS ======")
		fmt.Println(print.MaybePrettyJSON(reports))
		fmt.Println("======================")
	}

	return ctx.Render(a.Views.Reports, a.viewContext(vc))
}

func (a *Controller) ForecastShow(ctx router.Context) error {
	vc := router.ViewContext{}

	forecast, err := a.Gateway.Forecast(ctx.Context())
	if err != nil {
		a.Logger.Warn("forecast: %v", err)
		vc["error"] = apiErrorMessage(err, "Could not load forecast")
	} else {
		vc["forecast"] = forecast
	}

	return ctx.Render(a.Views.Forecast, a.viewContext(vc))
}

func (a *Controller) ComplianceShow(ctx router.Context) error {
	vc := router.ViewContext{}

	compliance, err := a.Gateway.Compliance(ctx.Context())
	if err != nil {
		a.Logger.Warn("compliance: %v", err)
		vc["error"] = apiErrorMessage(err, "Could not load compliance report")
	} else {
		vc["compliance"] = compliance
	}

	return ctx.Render(a.Views.Compliance, a.viewContext(vc))
}

func (a *Controller) NotificationsShow(ctx router.Context) error {
	filter := finmind.ReadFilter(ctx.Query("filter", string(finmind.FilterAll)))
	query := ctx.Query("q", "")

	items := finmind.FilterNotifications(a.Queue.All(), filter, query)

	return ctx.Render(a.Views.Notifications, a.viewContext(router.ViewContext{
		"notifications": items,
		"filter":        string(filter),
		"q":             query,
		"total":         a.Queue.Len(),
	}))
}

func (a *Controller) NotificationMarkRead(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id", ""))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	a.Queue.MarkRead(id)
	return ctx.Redirect(a.Routes.Notifications, fiber.StatusSeeOther)
}

func (a *Controller) NotificationsMarkAllRead(ctx router.Context) error {
	a.Queue.MarkAllRead()
	return ctx.Redirect(a.Routes.Notifications, fiber.StatusSeeOther)
}

func (a *Controller) NotificationRemove(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id", ""))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	a.Queue.Remove(id)
	return ctx.Redirect(a.Routes.Notifications, fiber.StatusSeeOther)
}

func (a *Controller) NotificationsClear(ctx router.Context) error {
	a.Queue.ClearAll()
	return ctx.Redirect(a.Routes.Notifications, fiber.StatusSeeOther)
}

func (a *Controller) ToastDismiss(ctx router.Context) error {
	if a.Toaster != nil {
		if id, err := uuid.Parse(ctx.Param("id", "")); err == nil {
			a.Toaster.Dismiss(id)
		}
	}
	return ctx.Redirect(backTo(ctx, a.DefaultRoute), fiber.StatusSeeOther)
}

func backTo(ctx router.Context, def string) string {
	if r := ctx.Referer(); r != "" {
		return r
	}
	return def
}

func apiErrorMessage(err error, def string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return def
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
