package web

import (
	"fmt"

	"github.com/goliatone/go-router"

	"github.com/finmind/finmind-go/middleware/gate"
)

// RegisterWebRoutes mounts every page of the dashboard. Entry pages go
// behind the public gate, everything else behind the protected gate.
func RegisterWebRoutes[T any](app router.Router[T], opts ...ControllerOption) *Controller {
	controller := NewController(opts...)

	cfg := gate.Config{
		Session:          controller.Session,
		LoginRoute:       controller.Routes.Login,
		DefaultRoute:     controller.DefaultRoute,
		WaitingView:      controller.Views.Waiting,
		RejectedRouteKey: controller.RejectedRouteKey,
		ErrorHandler:     controller.ErrorHandler,
	}

	public := gate.Public(cfg)
	protected := gate.Protected(cfg)

	app.Get(controller.Routes.Login, public(controller.LoginShow)).
		SetName("sign-in.get")
	app.Post(controller.Routes.Login, public(controller.LoginPost)).
		SetName("sign-in.post")

	app.Get(controller.Routes.Signup, public(controller.SignupShow)).
		SetName("sign-up.get")
	app.Post(controller.Routes.Signup, public(controller.SignupPost)).
		SetName("sign-up.post")

	app.Get(controller.Routes.Logout, protected(controller.LogOut)).
		SetName("sign-out.get")

	app.Get(controller.Routes.Dashboard, protected(controller.Dashboard)).
		SetName("dashboard.get")

	app.Get(controller.Routes.Upload, protected(controller.UploadShow)).
		SetName("upload.get")
	app.Post(controller.Routes.Upload, protected(controller.UploadPost)).
		SetName("upload.post")

	app.Get(controller.Routes.Analysis, protected(controller.AnalysisShow)).
		SetName("analysis.get")
	app.Get(controller.Routes.Insights, protected(controller.InsightsShow)).
		SetName("insights.get")
	app.Post(controller.Routes.Insights, protected(controller.InsightsGenerate)).
		SetName("insights.post")
	app.Get(controller.Routes.Reports, protected(controller.ReportsShow)).
		SetName("reports.get")
	app.Get(controller.Routes.Forecast, protected(controller.ForecastShow)).
		SetName("forecast.get")
	app.Get(controller.Routes.Compliance, protected(controller.ComplianceShow)).
		SetName("compliance.get")

	app.Get(controller.Routes.Notifications, protected(controller.NotificationsShow)).
		SetName("notifications.get")
	app.Post(fmt.Sprintf("%s/read-all", controller.Routes.Notifications), protected(controller.NotificationsMarkAllRead)).
		SetName("notifications.read-all.post")
	app.Post(fmt.Sprintf("%s/clear", controller.Routes.Notifications), protected(controller.NotificationsClear)).
		SetName("notifications.clear.post")
	app.Post(fmt.Sprintf("%s/:id/read", controller.Routes.Notifications), protected(controller.NotificationMarkRead)).
		SetName("notifications.read.post")
	app.Post(fmt.Sprintf("%s/:id/remove", controller.Routes.Notifications), protected(controller.NotificationRemove)).
		SetName("notifications.remove.post")

	app.Post("/toasts/:id/dismiss", protected(controller.ToastDismiss)).
		SetName("toasts.dismiss.post")

	return controller
}
