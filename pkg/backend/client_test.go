package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken struct {
	token string
	err   error
}

func (s staticToken) Token(context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc, creds CredentialSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, creds)
}

// --------------------- Authenticate ---------------------
func TestAuthenticate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@school.test", body["email"])
		assert.Equal(t, "secret", body["password"])

		_, _ = io.WriteString(w, `{"token":"tok-1","admin":{"id":3,"fullname":"Bu Rina","email":"admin@school.test"}}`)
	}, nil)

	res, err := c.Authenticate(context.Background(), "admin@school.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, uint(3), res.Admin.ID)
	assert.Equal(t, "Bu Rina", res.Admin.FullName)
}

func TestAuthenticate_BadCredentialsIsAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
	}, nil)

	_, err := c.Authenticate(context.Background(), "a@b.test", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, "Invalid email or password", MessageOf(err, "fallback"))
}

func TestAuthenticate_StatusKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{http.StatusBadRequest, ErrUnauthorized},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusUnprocessableEntity, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, nil)

			_, err := c.Authenticate(context.Background(), "a@b.test", "pw")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.kind == ErrUnauthorized, IsAuth(err))
		})
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"admin":{"id":1}}`)
	}, nil)

	_, err := c.Authenticate(context.Background(), "a@b.test", "pw")
	assert.ErrorIs(t, err, ErrServer)
}

// --------------------- Listing ---------------------
func TestListApplications_EnvelopeAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/user-applications", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":[
			{"id":7,"id_user_applicant":99,"status_application":"SUBMITTED","parent_fullname":"Ibu Sari","payment_verification_status":null},
			{"id":8,"id_user_applicant":4,"status_application":"VERIFIED","payment_verification_status":false,"payment_proof_url":"x.jpg"}
		]}`)
	}, staticToken{token: "tok-1"})

	apps, err := c.ListApplications(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, uint(7), apps[0].ID)
	assert.Equal(t, "Ibu Sari", apps[0].GuardianName)
	assert.Equal(t, admission.PaymentUnverified, apps[0].PaymentVerificationStatus)
	assert.Equal(t, admission.PaymentRejected, apps[1].PaymentVerificationStatus)
	assert.Equal(t, admission.StatusVerified, apps[1].Status)
}

func TestListApplications_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	}, staticToken{token: "tok"})

	apps, err := c.ListApplications(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestListApplicants_DateOnlyBirthDate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/user-applicants", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":4,"fullname":"Budi","birth_date":"2010-05-02"},{"id":5,"birth_date":"2011-01-01T00:00:00Z"}]`)
	}, staticToken{token: "tok"})

	applicants, err := c.ListApplicants(context.Background())
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, "Budi", applicants[0].FullName)
	assert.Equal(t, 2010, applicants[0].BirthDate.Year())
	assert.Equal(t, 2011, applicants[1].BirthDate.Year())
}

// --------------------- Mutations ---------------------
func TestSetApplicationStatus_SendsStatusAndNotes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/user-applications/7/verify", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "REJECTED", body["application_status"])
		assert.Equal(t, "check NIK", body["notes"])
		w.WriteHeader(http.StatusOK)
	}, staticToken{token: "tok"})

	err := c.SetApplicationStatus(context.Background(), 7, admission.StatusRejected, "check NIK")
	assert.NoError(t, err)
}

func TestSetPaymentVerification_SendsOnlyDecision(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/user-applications/8/payment-verification", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"payment_verification_status": false}, body)
		w.WriteHeader(http.StatusNoContent)
	}, staticToken{token: "tok"})

	err := c.SetPaymentVerification(context.Background(), 8, false)
	assert.NoError(t, err)
}

// --------------------- Error taxonomy ---------------------
func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"token expired"}`, ErrUnauthorized, "token expired"},
		{"forbidden", http.StatusForbidden, `{"error":"admins only"}`, ErrUnauthorized, "admins only"},
		{"not found", http.StatusNotFound, `not here`, ErrNotFound, "not here"},
		{"server nested", http.StatusInternalServerError, `{"error":{"message":"db down"}}`, ErrServer, "db down"},
		{"server html", http.StatusBadGateway, `<html>bad gateway</html>`, ErrServer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, staticToken{token: "tok"})

			err := c.SetPaymentVerification(context.Background(), 1, true)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, MessageOf(err, ""))

			var be *Error
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.status, be.StatusCode)
		})
	}
}

func TestDo_MissingCredentialNeverCallsBackend(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, staticToken{err: errors.New("no credential")})

	_, err := c.ListApplicants(context.Background())
	assert.True(t, IsAuth(err))
	assert.False(t, called)
	assert.Equal(t, "auth", KindOf(err))
}

func TestDo_NilCredentialSource(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"}, nil)
	_, err := c.ListApplications(context.Background(), 1, 0)
	assert.True(t, IsAuth(err))
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, staticToken{token: "tok"})
	err := c.SetApplicationStatus(context.Background(), 1, admission.StatusVerified, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "timeout", KindOf(err))
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url}, staticToken{token: "tok"})
	_, err := c.ListApplicants(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestWithCredentials_Copies(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	}, staticToken{token: "first"})

	other := c.WithCredentials(staticToken{token: "second"})
	_, err := c.ListApplicants(context.Background())
	require.NoError(t, err)
	_, err = other.ListApplicants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, got)
}
