package http

import (
	"bytes"
	"context"
	"fmt"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/mock/gomock"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract/mocks"
	"museum-ticket/service"
	"net/http"
	"net/http/httptest"
	"testing"
)

type PaymentHttpTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	publisher *mocks.MockPublisher
	mux       *http.ServeMux
}

func (s *PaymentHttpTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.mux = http.NewServeMux()
	RegisterPaymentHttp(s.mux, s.publisher, service.NewValidator(), "")
}

func TestPaymentHttpTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHttpTestSuite))
}

func (s *PaymentHttpTestSuite) TestCallback() {
	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"authorization_handle":"pi_123"}`,
			setupMock: func() {
				s.publisher.EXPECT().Publish(gomock.Any(), constant.SubjectConfirmOrder, []byte(`{"authorization_handle":"pi_123"}`)).
					DoAndReturn(func(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
						return &jetstream.PubAck{}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request"}`,
		},
		{
			name:           "missing handle",
			body:           `{}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Validation failed","code":"validation_failed","data":{"AuthorizationHandle":"required"}}`,
		},
		{
			name: "publish error",
			body: `{"authorization_handle":"pi_123"}`,
			setupMock: func() {
				s.publisher.EXPECT().Publish(gomock.Any(), constant.SubjectConfirmOrder, gomock.Any()).
					Return(nil, fmt.Errorf("nats unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()

			s.mux.ServeHTTP(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				s.JSONEq(tc.expectedBody, w.Body.String())
			}
		})
	}
}

func (s *PaymentHttpTestSuite) TestSignedCallback() {
	const secret = "whsec_test"

	mux := http.NewServeMux()
	RegisterPaymentHttp(mux, s.publisher, service.NewValidator(), secret)

	event := func(eventType string) []byte {
		return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","type":%q,"data":{"object":{"id":"pi_123","object":"payment_intent"}}}`, eventType))
	}

	tests := []struct {
		name           string
		payload        []byte
		signWith       string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:     "succeeded intent is queued",
			payload:  event("payment_intent.succeeded"),
			signWith: secret,
			setupMock: func() {
				s.publisher.EXPECT().Publish(gomock.Any(), constant.SubjectConfirmOrder, []byte(`{"authorization_handle":"pi_123"}`)).
					Return(&jetstream.PubAck{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "other events are acknowledged",
			payload:        event("charge.refunded"),
			signWith:       secret,
			setupMock:      func() {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong signature",
			payload:        event("payment_intent.succeeded"),
			signWith:       "whsec_other",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
				Payload: tc.payload,
				Secret:  tc.signWith,
			})

			req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(tc.payload))
			req.Header.Set("Stripe-Signature", signed.Header)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			s.Equal(tc.expectedStatus, w.Code)
		})
	}
}
