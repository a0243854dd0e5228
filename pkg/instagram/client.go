package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	igerrors "iglikes/pkg/errors"
	"iglikes/pkg/logger"
	"iglikes/pkg/ratelimit"
)

// Error types for Instagram API operations
type (
	Error     = igerrors.Error
	ErrorType = igerrors.ErrorType
)

const (
	ErrorTypeNetwork     = igerrors.ErrorTypeNetwork
	ErrorTypeRateLimit   = igerrors.ErrorTypeRateLimit
	ErrorTypeAuth        = igerrors.ErrorTypeAuth
	ErrorTypeParsing     = igerrors.ErrorTypeParsing
	ErrorTypeNotFound    = igerrors.ErrorTypeNotFound
	ErrorTypeServerError = igerrors.ErrorTypeServerError
	ErrorTypeUnknown     = igerrors.ErrorTypeUnknown
)

// Client talks to Instagram's web API with a cookie session.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
	limiter    ratelimit.Limiter
	now        func() time.Time
}

// NewClient creates a new Instagram API client
func NewClient(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}
	// cookiejar.New only fails on a bad PublicSuffixList
	jar, _ := cookiejar.New(nil)

	headers := map[string]string{
		"User-Agent":       userAgent,
		"Accept":           "*/*",
		"Accept-Language":  "en-US,en;q=0.9",
		"X-IG-App-ID":      WebAppID,
		"X-Requested-With": "XMLHttpRequest",
	}
	if userAgent == "" {
		delete(headers, "User-Agent")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: headers,
		baseURL: BaseURL,
		logger:  log,
		now:     time.Now,
	}
}

// SetBaseURL points the client at another host
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetLimiter paces every request through l
func (c *Client) SetLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// csrfToken returns the session's current csrftoken cookie
func (c *Client) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == "csrftoken" {
			return cookie.Value
		}
	}
	return ""
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if token := c.csrfToken(); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, igerrors.Wrap(ErrorTypeNetwork, err, "network error")
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, igerrors.Wrap(ErrorTypeUnknown, err, "failed to create request")
	}
	req.Header.Set("Referer", c.baseURL+"/")
	return req, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	return c.decode(resp, target)
}

func (c *Client) decode(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          resp.Request.URL.String(),
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps HTTP status codes to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", fields)
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "authentication required")
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", fields)
		return igerrors.New(ErrorTypeNotFound, resp.StatusCode, "resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", fields)
		return igerrors.New(ErrorTypeRateLimit, resp.StatusCode, "rate limit exceeded")
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", fields)
		return igerrors.New(ErrorTypeServerError, resp.StatusCode, "server error")
	default:
		c.logger.ErrorWithFields("unexpected API error", fields)
		return igerrors.New(ErrorTypeUnknown, resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
}

// Login opens a session. Any failure to authenticate, including checkpoint
// and two-factor challenges, is returned as an ErrorTypeAuth error.
func (c *Client) Login(ctx context.Context, username, password string) error {
	log := c.logger.WithField("username", username)

	// The login page sets the csrftoken cookie the form post must echo.
	req, err := c.newRequest(ctx, http.MethodGet, LoginPageEndpoint, nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}
	if c.csrfToken() == "" {
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "login page did not issue a csrf token")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("enc_password", encPassword(password, c.now().Unix()))
	form.Set("queryParams", "{}")
	form.Set("optIntoOneTap", "false")

	req, err = c.newRequest(ctx, http.MethodPost, LoginEndpoint, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Challenges come back as 400 with a JSON body worth reading.
	if resp.StatusCode != http.StatusBadRequest {
		if err := c.checkResponseStatus(resp); err != nil {
			return err
		}
	}

	var body loginResponse
	if err := c.decode(resp, &body); err != nil {
		return err
	}

	switch {
	case body.Authenticated:
		log.Info("Logged in")
		return nil
	case body.TwoFactorRequired:
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "two-factor authentication required")
	case body.CheckpointURL != "":
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "checkpoint required: "+body.CheckpointURL)
	case !body.User:
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "unknown username")
	case body.Message != "":
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, body.Message)
	default:
		return igerrors.New(ErrorTypeAuth, resp.StatusCode, "incorrect password")
	}
}

// ResolveUserID returns the numeric id of a username
func (c *Client) ResolveUserID(ctx context.Context, username string) (string, error) {
	query := url.Values{}
	query.Set("username", username)

	var resp profileResponse
	if err := c.getJSON(ctx, ProfileEndpoint, query, &resp); err != nil {
		return "", err
	}
	if resp.RequiresToLogin {
		return "", igerrors.New(ErrorTypeAuth, http.StatusUnauthorized, "Instagram requires authentication to view this profile")
	}
	if resp.Data.User == nil || resp.Data.User.ID == "" {
		return "", igerrors.New(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("user %s not found", username))
	}

	c.logger.DebugWithFields("resolved user id", map[string]interface{}{
		"username": username,
		"user_id":  resp.Data.User.ID,
	})
	return resp.Data.User.ID, nil
}

// ListUserPosts pages through a user's feed. limit caps the number of posts
// returned; 0 returns every post.
func (c *Client) ListUserPosts(ctx context.Context, userID string, limit int) ([]Post, error) {
	var posts []Post
	maxID := ""

	for page := 1; ; page++ {
		remaining := 0
		if limit > 0 {
			remaining = limit - len(posts)
		}

		query := url.Values{}
		query.Set("count", strconv.Itoa(pageSize(remaining)))
		if maxID != "" {
			query.Set("max_id", maxID)
		}

		var resp feedResponse
		if err := c.getJSON(ctx, FeedEndpoint(userID), query, &resp); err != nil {
			return nil, err
		}
		posts = append(posts, resp.Items...)

		c.logger.DebugWithFields("fetched feed page", map[string]interface{}{
			"user_id": userID,
			"page":    page,
			"items":   len(resp.Items),
			"total":   len(posts),
		})

		if limit > 0 && len(posts) >= limit {
			posts = posts[:limit]
			break
		}
		if !resp.MoreAvailable || resp.NextMaxID == "" || len(resp.Items) == 0 {
			break
		}
		maxID = resp.NextMaxID
	}

	return posts, nil
}

// ListLikers returns the accounts that liked a post
func (c *Client) ListLikers(ctx context.Context, mediaID string) ([]Liker, error) {
	var resp likersResponse
	if err := c.getJSON(ctx, LikersEndpoint(mediaID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}
