package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/logging"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRegistrar struct {
	regErr    error
	lookupErr error
	lookup    *models.RegisteredUser
	got       []models.Submission
	gotEmail  string
}

func (f *fakeRegistrar) Register(ctx context.Context, sub models.Submission) (*models.RegisteredUser, error) {
	f.got = append(f.got, sub)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.RegisteredUser{ID: "1", Email: sub.Email, Username: sub.Username}, nil
}

func (f *fakeRegistrar) Lookup(ctx context.Context, email string) (*models.RegisteredUser, error) {
	f.gotEmail = email
	return f.lookup, f.lookupErr
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestServer(r Registrar, p Pinger) *Server {
	return NewServer("127.0.0.1:0", []string{"*"}, logging.Nop(), r, p)
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func aliceForm() url.Values {
	return url.Values{
		"username":    {"alice"},
		"Gender":      {"F"},
		"email":       {"a@x.com"},
		"Age":         {"30"},
		"weight":      {"60"},
		"height":      {"170"},
		"pulse_rate":  {"70"},
		"Temperature": {"36.6"},
	}
}

func TestRegister_FormBindsAllFields(t *testing.T) {
	f := &fakeRegistrar{}
	s := newTestServer(f, fakePinger{})

	w := postForm(t, s, "/register", aliceForm())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgInserted, w.Body.String())
	require.Len(t, f.got, 1)
	assert.Equal(t, models.Submission{
		Username: "alice", Gender: "F", Email: "a@x.com", Age: "30",
		Weight: "60", Height: "170", PulseRate: "70", Temperature: "36.6",
	}, f.got[0])
}

func TestRegister_RootPathAndJSON(t *testing.T) {
	f := &fakeRegistrar{}
	s := newTestServer(f, fakePinger{})

	body := `{"username":"bob","email":"b@x.com","pulse_rate":"65"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.got, 1)
	assert.Equal(t, "bob", f.got[0].Username)
	assert.Equal(t, "b@x.com", f.got[0].Email)
	assert.Equal(t, "65", f.got[0].PulseRate)
}

func TestRegister_MalformedJSON(t *testing.T) {
	f := &fakeRegistrar{}
	s := newTestServer(f, fakePinger{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgBadRequest, w.Body.String())
	assert.Empty(t, f.got)
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"all empty", &common.ValidationError{Reason: "all fields required"}, http.StatusBadRequest, MsgAllFieldsRequired},
		{"bad number", &common.ValidationError{Field: "Age", Reason: "not an integer"}, http.StatusBadRequest, `Invalid value for field "Age"`},
		{"conflict", common.ErrConflict, http.StatusConflict, MsgEmailTaken},
		{"wrapped conflict", fmt.Errorf("db: %w", common.ErrConflict), http.StatusConflict, MsgEmailTaken},
		{"connection", &common.ConnectionError{Code: "2002", Err: errors.New("No such file or directory")}, http.StatusServiceUnavailable, "Connect Error(2002)No such file or directory"},
		{"other", errors.New("boom"), http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeRegistrar{regErr: tt.err}, fakePinger{})

			w := postForm(t, s, "/register", aliceForm())

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestLookup(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := &fakeRegistrar{lookup: &models.RegisteredUser{ID: "7", Email: "a@x.com", Username: "alice"}}
		s := newTestServer(f, fakePinger{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/a@x.com", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a@x.com", f.gotEmail)

		var got models.RegisteredUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "7", got.ID)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(&fakeRegistrar{lookupErr: common.ErrorNotFound}, fakePinger{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/nobody@x.com", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage down", func(t *testing.T) {
		err := &common.ConnectionError{Code: "0", Err: errors.New("refused")}
		s := newTestServer(&fakeRegistrar{lookupErr: err}, fakePinger{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/a@x.com", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("internal", func(t *testing.T) {
		s := newTestServer(&fakeRegistrar{lookupErr: errors.New("boom")}, fakePinger{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/a@x.com", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&fakeRegistrar{}, fakePinger{})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s = newTestServer(&fakeRegistrar{}, fakePinger{err: errors.New("down")})
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}
