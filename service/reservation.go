package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"log/slog"
	"museum-ticket/common"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/common/errs"
	"museum-ticket/common/otel"
	"museum-ticket/model"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Metadata keys attached to every payment authorization so a paid order can be
// rebuilt from the provider alone.
const (
	MetadataProduct  = "product"
	MetadataDate     = "date"
	MetadataTime     = "time"
	MetadataAdults   = "adults"
	MetadataReduced  = "reduced"
	MetadataName     = "name"
	MetadataEmail    = "email"
	MetadataPhone    = "phone"
	MetadataLanguage = "language"
)

// ReservationManager re-checks a booking against the stored rules and opens
// the payment authorization. It never decrements inventory.
type ReservationManager struct {
	Store    contract.AvailabilityStore
	Payment  contract.PaymentProvider
	Cache    *redis.Client
	Validate *validator.Validate
	Resolver *Resolver

	Currency string
	LockTTL  time.Duration
	Timeout  time.Duration

	// NewNonce scopes the provider idempotency key to one in-flight lock.
	// Defaults to a random UUID.
	NewNonce func() string
}

func (m *ReservationManager) BeginReservation(ctx context.Context, req model.ReservationRequest) (model.BeginReservationResponse, error) {
	ctx, span := otel.Tracer.Start(ctx, "ReservationManager.BeginReservation")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "begin reservation receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	amount, err := m.validateReservation(req)
	if err != nil {
		slog.DebugContext(ctx, "reservation rejected", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.BeginReservationResponse{}, err
	}

	storeCtx, cancel := withTimeout(ctx, m.Timeout)
	rule, err := m.Store.GetRule(storeCtx, req.Date)
	cancel()
	if err != nil {
		slog.ErrorContext(ctx, "failed to get availability rule", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.BeginReservationResponse{}, errs.Persistence(err)
	}

	if rule != nil && rule.AppliesTo(req.Product) {
		if rule.FullDayBlocked {
			slog.DebugContext(ctx, "day sold out", traceIdAttr, slog.String("date", req.Date))
			return model.BeginReservationResponse{}, errs.SoldOutDay(req.Date)
		}

		if rule.IsTimeBlocked(req.Time) {
			slog.DebugContext(ctx, "time sold out", traceIdAttr, slog.String("date", req.Date), slog.String("time", req.Time))
			return model.BeginReservationResponse{}, errs.SoldOutTime(req.Date, req.Time)
		}
	}

	fingerprint := Fingerprint(req)
	lockKey := fmt.Sprintf(constant.ReservationInFlightKey, fingerprint)
	nonce := m.nonce()

	locked, err := m.Cache.SetNX(ctx, lockKey, fmt.Sprintf(constant.ReservationInFlightPendingValue, nonce), m.LockTTL).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to set reservation lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.BeginReservationResponse{}, errs.Persistence(err)
	}

	if !locked {
		return m.inFlightReservation(ctx, lockKey)
	}

	providerCtx, cancel := withTimeout(ctx, m.Timeout)
	defer cancel()

	auth, err := m.Payment.CreateAuthorization(providerCtx, model.CreateAuthorizationParams{
		AmountCents:    amount,
		Currency:       m.Currency,
		Metadata:       reservationMetadata(req),
		IdempotencyKey: IdempotencyKey(fingerprint, nonce),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create payment authorization", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)

		if delErr := m.Cache.Del(ctx, lockKey).Err(); delErr != nil {
			slog.ErrorContext(ctx, "failed to release reservation lock", traceIdAttr, slog.Any(constant.LogFieldErr, delErr))
		}
		return model.BeginReservationResponse{}, errs.PaymentProvider(err)
	}

	resp := model.BeginReservationResponse{
		AuthorizationHandle: auth.Handle,
		ClientSecret:        auth.ClientSecret,
		AmountCents:         auth.AmountCents,
		Currency:            auth.Currency,
	}

	data, err := json.Marshal(resp)
	if err == nil {
		err = m.Cache.Set(ctx, lockKey, string(data), m.LockTTL).Err()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to store reservation authorization", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	slog.InfoContext(ctx, "begin reservation success", traceIdAttr, slog.String("authorization_handle", auth.Handle))

	return resp, nil
}

// inFlightReservation answers a duplicate submission with the authorization
// issued to the first one, once it exists.
func (m *ReservationManager) inFlightReservation(ctx context.Context, lockKey string) (model.BeginReservationResponse, error) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	val, err := m.Cache.Get(ctx, lockKey).Result()
	if errors.Is(err, redis.Nil) || strings.HasPrefix(val, constant.ReservationInFlightPending) {
		slog.DebugContext(ctx, "reservation already in flight", traceIdAttr)
		return model.BeginReservationResponse{}, errs.ReservationInFlight()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get reservation lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.BeginReservationResponse{}, errs.Persistence(err)
	}

	var resp model.BeginReservationResponse
	if err = json.Unmarshal([]byte(val), &resp); err != nil {
		slog.ErrorContext(ctx, "failed to decode reservation authorization", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return model.BeginReservationResponse{}, errs.ReservationInFlight()
	}

	slog.DebugContext(ctx, "duplicate reservation, reuse authorization", traceIdAttr, slog.String("authorization_handle", resp.AuthorizationHandle))

	return resp, nil
}

// validateReservation checks the request shape and returns the server side
// amount.
func (m *ReservationManager) validateReservation(req model.ReservationRequest) (int64, error) {
	if err := m.Validate.Struct(req); err != nil {
		return 0, toValidationError(err)
	}

	if !slices.Contains(constant.SlotTimes, req.Time) {
		return 0, errs.Validation("Time", "not found")
	}

	if req.Date < m.Resolver.Today() {
		return 0, errs.Validation("Date", "past")
	}

	return Price(req.Product, req.Adults, req.Reduced)
}

// Fingerprint identifies a logical reservation: the same customer asking for
// the same visit and party yields the same value.
func Fingerprint(req model.ReservationRequest) string {
	parts := []string{
		req.Product,
		req.Date,
		req.Time,
		strconv.Itoa(int(req.Adults)),
		strconv.Itoa(int(req.Reduced)),
		strings.ToLower(strings.TrimSpace(req.Email)),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// IdempotencyKey is stable across provider retries of one lock holder. A new
// lock after expiry gets a new nonce, so a corrected or repeated booking never
// replays an older authorization.
func IdempotencyKey(fingerprint, nonce string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fingerprint+"|"+nonce)).String()
}

func (m *ReservationManager) nonce() string {
	if m.NewNonce != nil {
		return m.NewNonce()
	}
	return uuid.NewString()
}

func reservationMetadata(req model.ReservationRequest) map[string]string {
	return map[string]string{
		MetadataProduct:  req.Product,
		MetadataDate:     req.Date,
		MetadataTime:     req.Time,
		MetadataAdults:   strconv.Itoa(int(req.Adults)),
		MetadataReduced:  strconv.Itoa(int(req.Reduced)),
		MetadataName:     req.Name,
		MetadataEmail:    req.Email,
		MetadataPhone:    req.Phone,
		MetadataLanguage: languageOrDefault(req.Language),
	}
}

// reservationFromMetadata rebuilds the booking the customer paid for.
func reservationFromMetadata(metadata map[string]string) model.ReservationRequest {
	adults, _ := strconv.Atoi(metadata[MetadataAdults])
	reduced, _ := strconv.Atoi(metadata[MetadataReduced])

	return model.ReservationRequest{
		Product:  metadata[MetadataProduct],
		Date:     metadata[MetadataDate],
		Time:     metadata[MetadataTime],
		Adults:   int32(adults),
		Reduced:  int32(reduced),
		Name:     metadata[MetadataName],
		Email:    metadata[MetadataEmail],
		Phone:    metadata[MetadataPhone],
		Language: metadata[MetadataLanguage],
	}
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return constant.DefaultLanguage
	}
	return lang
}
