package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/httpx/middlewares"
)

func NewRouter(handler *Handler, serviceName string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/totals", handler.ComputeTotals)
	r.Get("/week", handler.GetWeek)

	r.Get("/technicians", handler.ListTechnicians)
	r.Get("/technicians/{name}/weeks", handler.GetWeeklyView)

	r.Route("/workorders", func(r chi.Router) {
		r.Get("/", handler.ListWorkOrders)
		r.Post("/", handler.CreateWorkOrder)
		r.Get("/search", handler.SearchWorkOrders)

		r.Route("/{folder}", func(r chi.Router) {
			r.Get("/", handler.GetWorkOrder)
			r.Put("/", handler.UpdateWorkOrder)
			r.Delete("/", handler.DeleteWorkOrder)
			r.Get("/history", handler.GetHistory)
			r.Get("/media", handler.ListMedia)
			r.Post("/media", handler.UploadMedia)
			r.Delete("/media/{filename}", handler.DeleteMedia)
		})
	})

	r.Get("/parts", handler.SearchParts)
	r.Get("/travel-time", handler.SearchTravel)

	return otelhttp.NewHandler(r, serviceName)
}
