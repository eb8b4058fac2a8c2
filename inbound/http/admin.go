package http

import (
	"encoding/json"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"io"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"museum-ticket/service"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxTicketUploadBytes = 32 << 20
	ticketFilesField     = "ticketFiles"
)

type AdminHttp struct {
	Console     *service.BlockingConsole
	Lifecycle   *service.OrderLifecycle
	Fulfillment *service.Fulfillment
	Validate    *validator.Validate

	TimeNow func() time.Time

	email        string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
}

func RegisterAdminHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	console *service.BlockingConsole,
	lifecycle *service.OrderLifecycle,
	fulfillment *service.Fulfillment,
	validate *validator.Validate,
) *AdminHttp {
	in := &AdminHttp{
		Console:     console,
		Lifecycle:   lifecycle,
		Fulfillment: fulfillment,
		Validate:    validate,
		TimeNow:     time.Now,

		email:        cfg.GetString("admin.email"),
		passwordHash: []byte(cfg.GetString("admin.password_hash")),
		secret:       []byte(cfg.GetString("admin.jwt_secret")),
		tokenTTL:     cfg.GetDuration("admin.token_ttl"),
	}

	auth := AdminAuthMiddleware(in.secret)

	mux.HandleFunc("POST /api/admin/login", in.login)
	mux.Handle("GET /api/admin/availability", auth(http.HandlerFunc(in.listRules)))
	mux.Handle("PUT /api/admin/availability/{date}", auth(http.HandlerFunc(in.upsertRule)))
	mux.Handle("DELETE /api/admin/availability/{date}", auth(http.HandlerFunc(in.deleteRule)))
	mux.Handle("GET /api/admin/orders", auth(http.HandlerFunc(in.listOrders)))
	mux.Handle("POST /api/admin/orders/{id}/fulfill", auth(http.HandlerFunc(in.fulfill)))
	mux.Handle("POST /api/admin/orders/{id}/tickets", auth(http.HandlerFunc(in.sendTickets)))

	return in
}

func (in AdminHttp) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx := r.Context()
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if in.email == "" || len(in.passwordHash) == 0 || !strings.EqualFold(req.Email, in.email) ||
		bcrypt.CompareHashAndPassword(in.passwordHash, []byte(req.Password)) != nil {
		slog.WarnContext(ctx, "admin login rejected", traceIdAttr, slog.String("email", req.Email))
		writeErrorResponse(w, errs.Unauthorized())
		return
	}

	token, expiresAt, err := issueAdminToken(in.secret, in.email, in.TimeNow(), in.tokenTTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue admin token", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "admin login success", traceIdAttr, slog.String("email", in.email))

	writeJSONResponse(w, http.StatusOK, model.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

func (in AdminHttp) listRules(w http.ResponseWriter, r *http.Request) {
	resp, err := in.Console.ListRules(r.Context())
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

func (in AdminHttp) upsertRule(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}
	req.Date = r.PathValue("date")

	ctx, span := otel.Tracer.Start(r.Context(), "AdminHttp.upsertRule")
	defer span.End()

	slog.InfoContext(ctx, "operator rule change", common.ExtractTraceIDFromCtx(ctx), slog.String("admin", AdminFromContext(ctx)))

	rule, err := in.Console.UpsertRule(ctx, req)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if rule == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSONResponse(w, http.StatusOK, rule)
}

func (in AdminHttp) deleteRule(w http.ResponseWriter, r *http.Request) {
	deleted, err := in.Console.DeleteRule(r.Context(), r.PathValue("date"))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if !deleted {
		writeErrorResponse(w, errs.NotFound("Rule"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (in AdminHttp) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.OrderFilter{Status: model.OrderStatus(query.Get("status"))}

	if raw := query.Get("tickets_sent"); raw != "" {
		sent, err := strconv.ParseBool(raw)
		if err != nil {
			writeErrorResponse(w, errs.Validation("tickets_sent", "boolean"))
			return
		}
		filter.TicketsSent = &sent
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeErrorResponse(w, errs.Validation("limit", "number"))
			return
		}
		filter.Limit = int32(limit)
	}

	orders, err := in.Lifecycle.ListOrders(r.Context(), filter)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.ListOrdersResponse{Orders: orders})
}

func (in AdminHttp) fulfill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, errs.Validation("id", "number"))
		return
	}

	order, err := in.Lifecycle.MarkFulfilled(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, order)
}

func (in AdminHttp) sendTickets(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, errs.Validation("id", "number"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTicketUploadBytes)
	if err = r.ParseMultipartForm(maxTicketUploadBytes); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	attachments, err := readTicketFiles(r)
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	order, err := in.Fulfillment.SendTickets(r.Context(), id, attachments)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, order)
}

func readTicketFiles(r *http.Request) ([]model.Attachment, error) {
	headers := r.MultipartForm.File[ticketFilesField]
	attachments := make([]model.Attachment, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(content)
		}

		attachments = append(attachments, model.Attachment{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     content,
		})
	}

	return attachments, nil
}
