package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"io"
	"mime/multipart"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract/mocks"
	"museum-ticket/model"
	"museum-ticket/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type AdminHttpTestSuite struct {
	suite.Suite

	ctrl        *gomock.Controller
	rules       *mocks.MockAvailabilityStore
	broadcaster *mocks.MockBroadcaster
	orders      *mocks.MockOrderStore
	mailer      *mocks.MockMailer

	mux   *http.ServeMux
	token string
}

func (s *AdminHttpTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.rules = mocks.NewMockAvailabilityStore(s.ctrl)
	s.broadcaster = mocks.NewMockBroadcaster(s.ctrl)
	s.orders = mocks.NewMockOrderStore(s.ctrl)
	s.mailer = mocks.NewMockMailer(s.ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	s.Require().NoError(err)

	cfg := viper.New()
	cfg.Set("admin.email", "admin@example.com")
	cfg.Set("admin.password_hash", string(hash))
	cfg.Set("admin.jwt_secret", "test-secret")
	cfg.Set("admin.token_ttl", "1h")

	validate := service.NewValidator()
	lifecycle := &service.OrderLifecycle{
		Store:        s.orders,
		Payment:      mocks.NewMockPaymentProvider(s.ctrl),
		Publisher:    mocks.NewMockPublisher(s.ctrl),
		Validate:     validate,
		Currency:     constant.Currency,
		Timeout:      5 * time.Second,
		NewDisplayId: service.NewDisplayId,
	}
	console := &service.BlockingConsole{
		Store:       s.rules,
		Broadcaster: s.broadcaster,
		Validate:    validate,
		Timeout:     5 * time.Second,
	}

	s.mux = http.NewServeMux()
	RegisterAdminHttp(s.mux, cfg, console, lifecycle, &service.Fulfillment{Orders: lifecycle, Mailer: s.mailer}, validate)

	s.token, _, err = issueAdminToken([]byte("test-secret"), "admin@example.com", time.Now(), time.Hour)
	s.Require().NoError(err)
}

func TestAdminHttpTestSuite(t *testing.T) {
	suite.Run(t, new(AdminHttpTestSuite))
}

func (s *AdminHttpTestSuite) serve(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+s.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func paidOrder() *model.Order {
	return &model.Order{
		Id:                  7,
		DisplayId:           "00001234",
		AuthorizationHandle: "pi_123",
		Product:             "lift",
		VisitDate:           "2025-12-24",
		VisitTime:           "15:00",
		Adults:              2,
		Reduced:             1,
		TotalPriceCents:     9170,
		CustomerName:        "John Doe",
		CustomerEmail:       "john@example.com",
		Language:            "en",
		Status:              model.OrderStatusPaid,
	}
}

func (s *AdminHttpTestSuite) TestLogin() {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "success", body: `{"email":"Admin@Example.com","password":"correct-horse"}`, expectedStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"admin@example.com","password":"wrong"}`, expectedStatus: http.StatusUnauthorized},
		{name: "unknown email", body: `{"email":"other@example.com","password":"correct-horse"}`, expectedStatus: http.StatusUnauthorized},
		{name: "missing password", body: `{"email":"admin@example.com"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()

			s.mux.ServeHTTP(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp model.LoginResponse
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			s.NotEmpty(resp.Token)

			email, err := parseAdminToken([]byte("test-secret"), resp.Token)
			s.NoError(err)
			s.Equal("admin@example.com", email)
		})
	}
}

func (s *AdminHttpTestSuite) TestRoutesRequireToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/availability", nil)
	w := httptest.NewRecorder()

	s.mux.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AdminHttpTestSuite) TestUpsertRule() {
	s.Run("partial block", func() {
		s.rules.EXPECT().UpsertRule(gomock.Any(), model.BlockingRule{
			Date:         "2025-12-24",
			ProductScope: "all",
			BlockedTimes: []string{"10:00", "14:00"},
		}).Return(int64(5), nil)
		s.broadcaster.EXPECT().Publish(constant.SubjectAvailabilityChanged, []byte(`{"revision":5,"date":"2025-12-24"}`)).Return(nil)

		w := s.serve(http.MethodPut, "/api/admin/availability/2025-12-24",
			bytes.NewBufferString(`{"product_scope":"all","blocked_times":["14:00","10:00"]}`), "application/json")

		s.Equal(http.StatusOK, w.Code)

		var rule model.BlockingRule
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rule))
		s.Equal([]string{"10:00", "14:00"}, rule.BlockedTimes)
	})

	s.Run("empty rule clears the date", func() {
		s.rules.EXPECT().DeleteRule(gomock.Any(), "2025-12-24").Return(int64(0), false, nil)

		w := s.serve(http.MethodPut, "/api/admin/availability/2025-12-24",
			bytes.NewBufferString(`{"product_scope":"all","blocked_times":[]}`), "application/json")

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("invalid date", func() {
		w := s.serve(http.MethodPut, "/api/admin/availability/24-12-2025",
			bytes.NewBufferString(`{"product_scope":"all","full_day_blocked":true}`), "application/json")

		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *AdminHttpTestSuite) TestDeleteRule() {
	s.Run("not found", func() {
		s.rules.EXPECT().DeleteRule(gomock.Any(), "2025-12-24").Return(int64(0), false, nil)

		w := s.serve(http.MethodDelete, "/api/admin/availability/2025-12-24", nil, "")

		s.Equal(http.StatusNotFound, w.Code)
		s.JSONEq(`{"error":"Rule not found","code":"not_found"}`, w.Body.String())
	})

	s.Run("deleted", func() {
		s.rules.EXPECT().DeleteRule(gomock.Any(), "2025-12-24").Return(int64(6), true, nil)
		s.broadcaster.EXPECT().Publish(constant.SubjectAvailabilityChanged, gomock.Any()).Return(nil)

		w := s.serve(http.MethodDelete, "/api/admin/availability/2025-12-24", nil, "")

		s.Equal(http.StatusNoContent, w.Code)
	})
}

func (s *AdminHttpTestSuite) TestListOrders() {
	s.Run("filters", func() {
		sent := false
		s.orders.EXPECT().ListOrders(gomock.Any(), model.OrderFilter{
			Status:      model.OrderStatusPaid,
			TicketsSent: &sent,
			Limit:       50,
		}).Return([]model.Order{*paidOrder()}, nil)

		w := s.serve(http.MethodGet, "/api/admin/orders?status=paid&tickets_sent=false&limit=50", nil, "")

		s.Equal(http.StatusOK, w.Code)

		var resp model.ListOrdersResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Len(resp.Orders, 1)
	})

	s.Run("invalid tickets_sent", func() {
		w := s.serve(http.MethodGet, "/api/admin/orders?tickets_sent=maybe", nil, "")

		s.Equal(http.StatusBadRequest, w.Code)
		s.JSONEq(`{"error":"Validation failed","code":"validation_failed","data":{"tickets_sent":"boolean"}}`, w.Body.String())
	})

	s.Run("store error", func() {
		s.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("database error"))

		w := s.serve(http.MethodGet, "/api/admin/orders", nil, "")

		s.Equal(http.StatusInternalServerError, w.Code)
		s.JSONEq(`{"error":"Persistence error","code":"persistence_error"}`, w.Body.String())
	})
}

func (s *AdminHttpTestSuite) TestFulfill() {
	s.orders.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(paidOrder(), nil)
	s.orders.EXPECT().UpdateOrder(gomock.Any(), int64(7), gomock.Any()).Return(true, nil)

	w := s.serve(http.MethodPost, "/api/admin/orders/7/fulfill", nil, "")

	s.Equal(http.StatusOK, w.Code)

	var order model.Order
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &order))
	s.True(order.TicketsSent)
}

func (s *AdminHttpTestSuite) TestSendTickets() {
	s.Run("success", func() {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile(ticketFilesField, "ticket-1.pdf")
		s.Require().NoError(err)
		_, err = part.Write([]byte("%PDF-1.4 ticket"))
		s.Require().NoError(err)
		s.Require().NoError(writer.Close())

		s.orders.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(paidOrder(), nil).Times(2)
		s.mailer.EXPECT().Send(gomock.Any(), []string{"john@example.com"}, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, to []string, subject, body string, attachments ...model.Attachment) error {
				s.Require().Len(attachments, 1)
				s.Equal("ticket-1.pdf", attachments[0].Filename)
				s.Equal([]byte("%PDF-1.4 ticket"), attachments[0].Content)
				return nil
			})
		s.orders.EXPECT().UpdateOrder(gomock.Any(), int64(7), gomock.Any()).Return(true, nil)

		w := s.serve(http.MethodPost, "/api/admin/orders/7/tickets", &body, writer.FormDataContentType())

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("no files", func() {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		s.Require().NoError(writer.WriteField("note", "none"))
		s.Require().NoError(writer.Close())

		w := s.serve(http.MethodPost, "/api/admin/orders/7/tickets", &body, writer.FormDataContentType())

		s.Equal(http.StatusBadRequest, w.Code)
		s.JSONEq(`{"error":"Validation failed","code":"validation_failed","data":{"ticketFiles":"required"}}`, w.Body.String())
	})

	s.Run("bad id", func() {
		w := s.serve(http.MethodPost, "/api/admin/orders/abc/tickets", nil, "")

		s.Equal(http.StatusBadRequest, w.Code)
	})
}
