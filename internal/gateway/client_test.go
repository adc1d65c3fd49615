package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/stretchr/testify/require"
)

// captured is the last request a fakeBackend handler saw.
type captured struct {
	method string
	auth   string
	form   map[string][]string
	files  map[string]string
	body   map[string][]byte
}

// fakeBackend records the last multipart form it received.
type fakeBackend struct {
	mu    sync.Mutex
	req   captured
	reads atomic.Int32
}

func (b *fakeBackend) last() captured {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.req
}

func (b *fakeBackend) router(t *testing.T) *mux.Router {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/vehicles", b.capture(t, http.StatusCreated, `{"data":{"id":7,"brand":"Dacia"}}`)).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/{id:[0-9]+}", b.capture(t, http.StatusOK, `{"vehicle":{"id":7,"brand":"Renault"}}`)).Methods(http.MethodPut)
	r.HandleFunc("/clients", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already exists"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/reservations", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"field":"endDate","code":"overlap","message":"Vehicle is booked on these dates"}]}`))
	}).Methods(http.MethodPut)

	r.HandleFunc("/vehicles/{id}", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.req = captured{method: req.Method, auth: req.Header.Get("Authorization")}
		b.mu.Unlock()
		if mux.Vars(req)["id"] != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Vehicle not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"brand":"Dacia","dailyRate":"50"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/vehicles", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,"dailyRate":50},{"id":2,"dailyRate":62.5}]}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/clients", func(w http.ResponseWriter, _ *http.Request) {
		if b.reads.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":3,"firstName":"Amina"}]`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/reservations", func(w http.ResponseWriter, _ *http.Request) {
		b.reads.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"Maintenance in progress"}`))
	}).Methods(http.MethodGet)
	return r
}

func (b *fakeBackend) capture(t *testing.T, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got := captured{
			method: req.Method,
			auth:   req.Header.Get("Authorization"),
			form:   req.MultipartForm.Value,
			files:  map[string]string{},
			body:   map[string][]byte{},
		}
		for name, headers := range req.MultipartForm.File {
			got.files[name] = headers[0].Filename
			f, err := headers[0].Open()
			if err != nil {
				continue
			}
			got.body[name], _ = io.ReadAll(f)
			_ = f.Close()
		}
		b.mu.Lock()
		b.req = got
		b.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeBackend) {
	t.Helper()

	b := &fakeBackend{}
	srv := httptest.NewServer(b.router(t))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}, opts...)
	c, err := New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c, b
}

func vehicleSubmission(id string) *form.Submission {
	return &form.Submission{
		Resource: "vehicles",
		Singular: "vehicle",
		ID:       id,
		Payload: &form.Payload{
			Values: []form.Part{
				{Name: "brand", Value: "Dacia"},
				{Name: "dailyRate", Value: "50"},
				{Name: "insuranceExpiry", Value: "2026-01-31T12:00:00Z"},
				{Name: "features", Value: "GPS"},
				{Name: "features", Value: "Bluetooth"},
			},
			Files: []form.Attachment{
				{Name: "image", File: form.File{Name: "Photo Été 2024.JPG", Data: []byte("jpegdata")}},
			},
		},
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("localhost:3000")
	require.Error(t, err)
	_, err = New("://nope")
	require.Error(t, err)
}

func TestSubmit_CreateMultipart(t *testing.T) {
	t.Parallel()

	c, b := newTestClient(t, WithToken("tok"))
	rec, err := c.Submit(context.Background(), vehicleSubmission(""))
	require.NoError(t, err)
	require.Equal(t, float64(7), rec["id"], "data envelope is unwrapped")

	got := b.last()
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "Bearer tok", got.auth)
	require.Equal(t, []string{"Dacia"}, got.form["brand"])
	require.Equal(t, []string{"50"}, got.form["dailyRate"])
	require.Equal(t, []string{"2026-01-31T12:00:00Z"}, got.form["insuranceExpiry"])
	require.Equal(t, []string{"GPS", "Bluetooth"}, got.form["features"])
	require.Equal(t, "photo-ete-2024.jpg", got.files["image"])
	require.Equal(t, []byte("jpegdata"), got.body["image"])
}

func TestSubmit_UpdateSingularEnvelope(t *testing.T) {
	t.Parallel()

	c, b := newTestClient(t)
	rec, err := c.Submit(context.Background(), vehicleSubmission("7"))
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, b.last().method)
	require.Empty(t, b.last().auth)
	require.Equal(t, "Renault", rec["brand"])
}

func TestSubmit_ServerMessage(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	_, err := c.Submit(context.Background(), &form.Submission{
		Resource: "clients", Singular: "client", Payload: &form.Payload{},
	})

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusConflict, gwErr.Status)
	require.Equal(t, "Email already exists", gwErr.Error())
	require.Equal(t, "email", gwErr.FieldName())

	var fe form.FieldError
	require.ErrorAs(t, err, &fe)
}

func TestSubmit_GenericFallback(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	_, err := c.Submit(context.Background(), &form.Submission{
		Resource: "reservations", Singular: "reservation", Payload: &form.Payload{},
	})

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, GenericMessage, gwErr.Message)
	require.Empty(t, gwErr.Field)
}

func TestSubmit_StructuredFieldError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	_, err := c.Submit(context.Background(), &form.Submission{
		Resource: "reservations", Singular: "reservation", ID: "4", Payload: &form.Payload{},
	})

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "endDate", gwErr.Field)
	require.Equal(t, "overlap", gwErr.Code)
	require.Equal(t, "Vehicle is booked on these dates", gwErr.Message)
}

func TestSubmit_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), vehicleSubmission(""))

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Zero(t, gwErr.Status)
	require.Equal(t, unreachableMessage, gwErr.Message)
	require.NotNil(t, errors.Unwrap(err))
}

func TestGet(t *testing.T) {
	t.Parallel()

	c, b := newTestClient(t, WithToken("tok"))
	rec, err := c.Get(context.Background(), "vehicles", "vehicle", "7")
	require.NoError(t, err)
	require.Equal(t, "Dacia", rec["brand"])
	require.Equal(t, "Bearer tok", b.last().auth)

	_, err = c.Get(context.Background(), "vehicles", "vehicle", "8")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Get(context.Background(), "vehicles", "vehicle", "abc")
	require.ErrorIs(t, err, ErrNotFound, "non-numeric ids never reach the server")
}

func TestList(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	recs, err := c.List(context.Background(), "vehicles")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, 62.5, recs[1]["dailyRate"])
}

func TestList_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	c, b := newTestClient(t)
	recs, err := c.List(context.Background(), "clients")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, int32(2), b.reads.Load())
}

func TestList_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	c, b := newTestClient(t, WithReadRetries(1))
	_, err := c.List(context.Background(), "reservations")

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusServiceUnavailable, gwErr.Status)
	require.Equal(t, "Maintenance in progress", gwErr.Message)
	require.Equal(t, int32(2), b.reads.Load())
}

func TestDecodeList_Shapes(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`[{"id":1}]`,
		`{"data":[{"id":1}]}`,
		`{"vehicles":[{"id":1}]}`,
	} {
		recs, err := decodeList([]byte(body), "vehicles")
		require.NoError(t, err, body)
		require.Len(t, recs, 1, body)
	}

	_, err := decodeList([]byte(`{"items":[]}`), "vehicles")
	require.Error(t, err)
}

func TestClassifyMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Email already exists":                       "email",
		"This email is already used by another user": "email",
		"Plate number already exists":                "plateNumber",
		"License number already taken":               "licenseNumber",
		"Vehicle is not available for these dates":   "vehicleId",
		"Internal server error":                      "",
		"Invalid email":                              "",
	}
	for msg, want := range tests {
		require.Equal(t, want, classifyMessage(msg), msg)
	}
}

func TestErrorFromResponse(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, errorFromResponse(http.StatusNotFound, nil), ErrNotFound)

	body, err := json.Marshal(map[string]string{"message": "  "})
	require.NoError(t, err)
	var gwErr *Error
	require.ErrorAs(t, errorFromResponse(http.StatusBadRequest, body), &gwErr)
	require.Equal(t, GenericMessage, gwErr.Message)
}
