package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/pkg/metrics"
	"github.com/rs/zerolog"
)

const (
	loginPath             = "/admin/login"
	applicationsPath      = "/admin/user-applications"
	applicantsPath        = "/user/user-applicants"
	verifyPathFmt         = "/admin/user-applications/%d/verify"
	paymentVerifyPathFmt  = "/admin/user-applications/%d/payment-verification"
	maxResponseBody       = 8 << 20
	maxPlainErrorLength   = 300
	expiredSessionMessage = "Session expired, please log in again"
	timeoutMessage        = "The admissions server did not respond in time"
)

//go:generate mockgen -destination=mock/mock_api.go -package=mock github.com/linskybing/admission-portal/pkg/backend API

// API is the contract of the admissions backend.
type API interface {
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	ListApplications(ctx context.Context, limit, offset int) ([]admission.Application, error)
	ListApplicants(ctx context.Context) ([]admission.Applicant, error)
	SetApplicationStatus(ctx context.Context, applicationID uint, status admission.ApplicationStatus, notes string) error
	SetPaymentVerification(ctx context.Context, applicationID uint, approved bool) error
}

// CredentialSource supplies the bearer token for authorized calls.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// AuthResult is the login response.
type AuthResult struct {
	Token string                 `json:"token"`
	Admin admission.AdminProfile `json:"admin"`
}

type Options struct {
	BaseURL string
	// Timeout bounds every call. Zero leaves only the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	creds      CredentialSource
	log        zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient returns a client that authorizes calls with creds. creds may be
// nil for a client that is only used to Authenticate.
func NewClient(opts Options, creds CredentialSource) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		httpClient: httpClient,
		creds:      creds,
		log:        logger.With("backend"),
	}
}

// WithCredentials returns a copy of c bound to another credential source.
func (c *Client) WithCredentials(creds CredentialSource) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	err := c.do(ctx, request{op: "authenticate", method: http.MethodPost, path: loginPath, body: body}, &result)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && isCredentialRejection(be.StatusCode) {
			be.Kind = ErrUnauthorized
		}
		return nil, err
	}
	if result.Token == "" {
		return nil, &Error{Kind: ErrServer, Op: "authenticate", Message: "login response carried no token"}
	}
	return &result, nil
}

func (c *Client) ListApplications(ctx context.Context, limit, offset int) ([]admission.Application, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var raw json.RawMessage
	if err := c.do(ctx, request{op: "list_applications", method: http.MethodGet, path: applicationsPath, query: query, auth: true}, &raw); err != nil {
		return nil, err
	}
	return decodeApplications(raw)
}

func (c *Client) ListApplicants(ctx context.Context) ([]admission.Applicant, error) {
	var applicants []admission.Applicant
	if err := c.do(ctx, request{op: "list_applicants", method: http.MethodGet, path: applicantsPath, auth: true}, &applicants); err != nil {
		return nil, err
	}
	return applicants, nil
}

func (c *Client) SetApplicationStatus(ctx context.Context, applicationID uint, status admission.ApplicationStatus, notes string) error {
	body := admission.SetStatusRequest{Status: status, Notes: notes}
	return c.do(ctx, request{
		op:     "set_application_status",
		method: http.MethodPut,
		path:   fmt.Sprintf(verifyPathFmt, applicationID),
		body:   body,
		auth:   true,
	}, nil)
}

func (c *Client) SetPaymentVerification(ctx context.Context, applicationID uint, approved bool) error {
	body := admission.SetPaymentVerificationRequest{Approved: approved}
	return c.do(ctx, request{
		op:     "set_payment_verification",
		method: http.MethodPut,
		path:   fmt.Sprintf(paymentVerifyPathFmt, applicationID),
		body:   body,
		auth:   true,
	}, nil)
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, req request, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = KindOf(err)
		}
		metrics.RecordBackendCall(req.op, outcome, time.Since(start))
		c.log.Debug().Str("op", req.op).Str("outcome", outcome).Dur("took", time.Since(start)).Msg("Backend call")
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var token string
	if req.auth {
		if c.creds == nil {
			return &Error{Kind: ErrUnauthorized, Op: req.op, Message: expiredSessionMessage}
		}
		token, err = c.creds.Token(ctx)
		if err != nil {
			return &Error{Kind: ErrUnauthorized, Op: req.op, Message: expiredSessionMessage, Err: err}
		}
	}

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", req.op, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: ErrTimeout, Op: req.op, Message: timeoutMessage, Err: err}
		}
		return &Error{Kind: ErrNetwork, Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Kind: ErrTimeout, Op: req.op, Message: timeoutMessage, Err: err}
		}
		return &Error{Kind: ErrNetwork, Op: req.op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			Op:         req.op,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: ErrServer, Op: req.op, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// isCredentialRejection reports the statuses backend versions use for a
// wrong email or password.
func isCredentialRejection(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// decodeApplications accepts both the paged envelope {"data": [...]} and a
// bare array.
func decodeApplications(raw json.RawMessage) ([]admission.Application, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var apps []admission.Application
		if err := json.Unmarshal(trimmed, &apps); err != nil {
			return nil, &Error{Kind: ErrServer, Op: "list_applications", Message: "malformed response", Err: err}
		}
		return apps, nil
	}
	var envelope struct {
		Data []admission.Application `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &Error{Kind: ErrServer, Op: "list_applications", Message: "malformed response", Err: err}
	}
	return envelope.Data, nil
}

// extractMessage pulls a human readable message out of an error body:
// {"message": ...}, {"error": ...}, {"error": {"message": ...}} or short
// plain text.
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return ""
		}
		for _, key := range []string{"message", "error", "detail"} {
			raw, ok := payload[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
		}
		return ""
	}
	if trimmed[0] == '<' || len(trimmed) > maxPlainErrorLength {
		return ""
	}
	return string(trimmed)
}
