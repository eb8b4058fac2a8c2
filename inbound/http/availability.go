package http

import (
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"museum-ticket/service"
	"net/http"
)

type AvailabilityHttp struct {
	Resolver *service.Resolver
}

func RegisterAvailabilityHttp(mux *http.ServeMux, resolver *service.Resolver) *AvailabilityHttp {
	in := &AvailabilityHttp{Resolver: resolver}

	mux.HandleFunc("GET /api/products", in.products)
	mux.HandleFunc("GET /api/availability", in.availability)
	mux.HandleFunc("GET /api/availability/calendar", in.calendar)

	return in
}

func (in AvailabilityHttp) products(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.ListProductsResponse{
		Products: constant.ProductsData,
		Slots:    constant.SlotTimes,
		Currency: constant.Currency,
	})
}

func (in AvailabilityHttp) availability(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "AvailabilityHttp.availability")
	defer span.End()

	query := r.URL.Query()
	resp, err := in.Resolver.GetAvailability(ctx, query.Get("date"), query.Get("product"))
	if err != nil {
		slog.DebugContext(ctx, "get availability rejected", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

func (in AvailabilityHttp) calendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "AvailabilityHttp.calendar")
	defer span.End()

	query := r.URL.Query()
	resp, err := in.Resolver.GetCalendar(ctx, query.Get("month"), query.Get("product"))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
