package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bookaro-backend/api/middleware"
	"github.com/angelmondragon/bookaro-backend/internal/auth"
	"github.com/angelmondragon/bookaro-backend/internal/bookings"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

type stubBookingService struct {
	principal string
	created   bookings.CreateBookingInput
	target    enums.BookingStatus
	err       error
}

func (s *stubBookingService) Create(ctx context.Context, principal string, input bookings.CreateBookingInput) (bookings.BookingDTO, error) {
	s.principal = principal
	s.created = input
	if s.err != nil {
		return bookings.BookingDTO{}, s.err
	}
	return bookings.BookingDTO{ID: 7, ServiceID: input.ServiceID, Status: enums.BookingStatusPending}, nil
}

func (s *stubBookingService) Get(ctx context.Context, principal string, id int64) (bookings.BookingDTO, error) {
	s.principal = principal
	return bookings.BookingDTO{ID: id}, s.err
}

func (s *stubBookingService) ListForCustomer(ctx context.Context, principal string, status *enums.BookingStatus) ([]bookings.BookingDTO, error) {
	return nil, s.err
}

func (s *stubBookingService) ListForVendor(ctx context.Context, principal string, status *enums.BookingStatus) ([]bookings.BookingDTO, error) {
	return nil, s.err
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, principal string, id int64, target enums.BookingStatus) (bookings.BookingDTO, error) {
	s.principal = principal
	s.target = target
	if s.err != nil {
		return bookings.BookingDTO{}, s.err
	}
	return bookings.BookingDTO{ID: id, Status: target}, nil
}

func (s *stubBookingService) Cancel(ctx context.Context, principal string, id int64) (bookings.BookingDTO, error) {
	return bookings.BookingDTO{ID: id, Status: enums.BookingStatusCancelled}, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func withRoute(req *http.Request, params map[string]string) *http.Request {
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = middleware.WithPrincipal(ctx, "cust@example.com", 1)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestAuthLoginReturnsToken(t *testing.T) {
	handler := AuthLogin(stubAuthService{resp: &auth.LoginResponse{AccessToken: "token", TokenType: "Bearer"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"Secret#1"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "token" {
		t.Fatalf("expected token got %q", envelope.Data.AccessToken)
	}
}

func TestAuthLoginMapsUnauthorized(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"nope"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestBookingCreatePassesPrincipal(t *testing.T) {
	svc := &stubBookingService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"service_id":3,"booking_date":"2026-03-10","booking_time":"10:00"}`))
	req = withRoute(req, nil)
	resp := httptest.NewRecorder()
	BookingCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.principal != "cust@example.com" {
		t.Fatalf("expected principal from context got %q", svc.principal)
	}
	if svc.created.ServiceID != 3 || svc.created.BookingTime != "10:00" {
		t.Fatalf("unexpected input %+v", svc.created)
	}
}

func TestBookingCreateRejectsMissingFields(t *testing.T) {
	svc := &stubBookingService{}
	req := withRoute(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"service_id":3}`)), nil)
	resp := httptest.NewRecorder()
	BookingCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeError(t, resp.Body.Bytes()); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %s", code)
	}
	if svc.principal != "" {
		t.Fatalf("service should not be called")
	}
}

func TestBookingUpdateStatusParsesTarget(t *testing.T) {
	svc := &stubBookingService{}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/9/status", strings.NewReader(`{"status":"confirmed"}`))
	req = withRoute(req, map[string]string{"bookingId": "9"})
	resp := httptest.NewRecorder()
	BookingUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.target != enums.BookingStatusConfirmed {
		t.Fatalf("expected CONFIRMED got %s", svc.target)
	}
}

func TestBookingUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubBookingService{}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/9/status", strings.NewReader(`{"status":"ARCHIVED"}`))
	req = withRoute(req, map[string]string{"bookingId": "9"})
	resp := httptest.NewRecorder()
	BookingUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBookingErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		code pkgerrors.Code
		want int
	}{
		{pkgerrors.CodeForbidden, http.StatusForbidden},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeInvalidTransition, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		svc := &stubBookingService{err: pkgerrors.New(tc.code, "nope")}
		req := withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/bookings/4", nil), map[string]string{"bookingId": "4"})
		resp := httptest.NewRecorder()
		BookingGet(svc, nil).ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.code, tc.want, resp.Code)
		}
	}
}

func TestBookingGetRejectsBadID(t *testing.T) {
	svc := &stubBookingService{}
	req := withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil), map[string]string{"bookingId": "abc"})
	resp := httptest.NewRecorder()
	BookingGet(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestNilServiceIsInternal(t *testing.T) {
	req := withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil), nil)
	resp := httptest.NewRecorder()
	FavoriteList(nil, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": nil}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("expected redis reported disabled: %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{err: errors.New("down")}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if code := decodeError(t, resp.Body.Bytes()); code != string(pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %s", code)
	}
}
