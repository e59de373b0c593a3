package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/usecase"
	"repairmate-backend/pkg/response"
	"repairmate-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCustomerBookingUsecase struct {
	createFn   func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	myBookings func(ctx context.Context) (*dto.BookingListResponse, error)
	activeFn   func(ctx context.Context) (*dto.BookingResponse, error)
	cancelFn   func(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
}

func (s *stubCustomerBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	return s.createFn(ctx, req)
}

func (s *stubCustomerBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	return s.myBookings(ctx)
}

func (s *stubCustomerBookingUsecase) GetActiveBooking(ctx context.Context) (*dto.BookingResponse, error) {
	return s.activeFn(ctx)
}

func (s *stubCustomerBookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return s.cancelFn(ctx, bookingID, reason)
}

type stubBookingQueryUsecase struct {
	getFn func(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
}

func (s *stubBookingQueryUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return s.getFn(ctx, bookingID)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func validCreateBookingBody() []byte {
	body, _ := json.Marshal(dto.CreateBookingRequest{
		ServiceType: "screen_repair",
		DeviceInfo: dto.DeviceInfoRequest{
			Brand: "Apple",
			Model: "iPhone 14",
			Issue: "cracked screen",
		},
		Urgency:           "normal",
		PreferredDate:     "2025-09-15",
		PreferredTimeSlot: "morning",
		Address: dto.AddressRequest{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		Phone: "+15550001111",
	})
	return body
}

func TestCreateBookingHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			createFn: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{ID: uuid.New(), Status: "pending"}, nil
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(validCreateBookingBody()))
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeResponse(t, rec).Success)
	})

	t.Run("validation failure", func(t *testing.T) {
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, nil, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(`{"urgency":"someday"}`)))
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "Validation failed", resp.Message)
		assert.NotNil(t, resp.Error)
	})

	t.Run("active booking conflict", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			createFn: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, usecase.ErrActiveBookingExists
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(validCreateBookingBody()))
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			createFn: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, usecase.ErrInvalidDateFormat
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(validCreateBookingBody()))
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetBookingHandler(t *testing.T) {
	withID := func(req *http.Request, id string) *http.Request {
		return mux.SetURLVars(req, map[string]string{"id": id})
	}

	t.Run("found", func(t *testing.T) {
		bookingID := uuid.New()
		query := &stubBookingQueryUsecase{
			getFn: func(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
				assert.Equal(t, bookingID, id)
				return &dto.BookingResponse{ID: id, Status: "assigned"}, nil
			},
		}
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, query, validator.NewValidator())

		req := withID(httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID.String(), nil), bookingID.String())
		rec := httptest.NewRecorder()
		h.GetBooking(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, &stubBookingQueryUsecase{}, validator.NewValidator())

		req := withID(httptest.NewRequest(http.MethodGet, "/bookings/nope", nil), "nope")
		rec := httptest.NewRecorder()
		h.GetBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		query := &stubBookingQueryUsecase{
			getFn: func(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
				return nil, usecase.ErrBookingNotFound
			},
		}
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, query, validator.NewValidator())

		id := uuid.New().String()
		req := withID(httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil), id)
		rec := httptest.NewRecorder()
		h.GetBooking(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		query := &stubBookingQueryUsecase{
			getFn: func(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
				return nil, entity.ErrForbidden
			},
		}
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, query, validator.NewValidator())

		id := uuid.New().String()
		req := withID(httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil), id)
		rec := httptest.NewRecorder()
		h.GetBooking(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCancelBookingHandler(t *testing.T) {
	body := []byte(`{"reason":"no longer needed"}`)
	id := uuid.New().String()

	newReq := func(b []byte) (*http.Request, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPatch, "/bookings/"+id+"/cancel", bytes.NewReader(b))
		return mux.SetURLVars(req, map[string]string{"id": id}), httptest.NewRecorder()
	}

	t.Run("cancelled", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			cancelFn: func(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
				assert.Equal(t, "no longer needed", reason)
				return &dto.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req, rec := newReq(body)
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reason required", func(t *testing.T) {
		h := NewBookingHandler(&stubCustomerBookingUsecase{}, nil, validator.NewValidator())

		req, rec := newReq([]byte(`{}`))
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("past cancellation window", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			cancelFn: func(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
				return nil, entity.ErrInvalidTransition
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req, rec := newReq(body)
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			cancelFn: func(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
				return nil, entity.ErrForbidden
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		req, rec := newReq(body)
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetActiveBookingHandler(t *testing.T) {
	t.Run("active booking present", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			activeFn: func(ctx context.Context) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{ID: uuid.New(), Status: "in_progress"}, nil
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetActiveBooking(rec, httptest.NewRequest(http.MethodGet, "/bookings/my/active", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no active booking", func(t *testing.T) {
		stub := &stubCustomerBookingUsecase{
			activeFn: func(ctx context.Context) (*dto.BookingResponse, error) {
				return nil, nil
			},
		}
		h := NewBookingHandler(stub, nil, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.GetActiveBooking(rec, httptest.NewRequest(http.MethodGet, "/bookings/my/active", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Data)
	})
}
