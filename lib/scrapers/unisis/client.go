package unisis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("unigate.lib.scrapers.unisis")

// ErrUnavailable wraps transport-level failures talking to the portal
// (connection refused, DNS, timeout). Auth failures are never wrapped
// in it; a completed HTTP exchange is not "unavailable".
var ErrUnavailable = errors.New("portal unreachable")

const (
	LoginPath = "/Account/Login"
	MenuPath  = "/Yemekhane/HaftalikMenu"
	TripsPath = "/Gezi/Listesi"
)

type ClientOptions struct {
	BaseURL string
	// defaults to 30 seconds; the portal has been observed to hang
	// indefinitely without one
	Timeout time.Duration
}

// Client performs the three upstream interactions: login, menu fetch
// and authenticated scrape-and-post. It interprets nothing; raw
// statuses, cookies and body text are surfaced for the layers above.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	// the login success signal is the portal's redirect itself, so the
	// client must never follow one
	client.GetClient().CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL: baseURL,
		http:    client,
	}, nil
}

type LoginResult struct {
	StatusCode int
	Cookies    Jar
}

// Redirected reports whether the portal answered the credential post
// with a redirect, its only success signal.
func (r LoginResult) Redirected() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// Login posts the credential form and returns the raw outcome. It
// never errors on a non-2xx status; deciding what a given status and
// cookie combination means is the session bridge's job.
func (c *Client) Login(ctx context.Context, userID, password string) (LoginResult, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"UserName": userID,
			"Password": password,
		}).
		Post(LoginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach login endpoint")
		return LoginResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return LoginResult{
		StatusCode: res.StatusCode(),
		Cookies:    JarFromResponse(res.Cookies()),
	}, nil
}

// Get fetches a portal page, attaching the jar as a Cookie header when
// one is given, and returns the raw body text.
func (c *Client) Get(ctx context.Context, path string, jar Jar) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	req := c.http.R().SetContext(ctx)
	if !jar.Empty() {
		req.SetHeader("Cookie", jar.Header())
	}
	res, err := req.Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch portal page")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return res.String(), nil
}

// PostForm submits a form to a portal page under the given jar and
// returns the raw body text of the portal's response.
func (c *Client) PostForm(ctx context.Context, path string, jar Jar, form url.Values) (string, error) {
	ctx, span := tracer.Start(ctx, "client:PostForm")
	defer span.End()

	req := c.http.R().SetContext(ctx)
	if !jar.Empty() {
		req.SetHeader("Cookie", jar.Header())
	}
	res, err := req.
		SetFormDataFromValues(form).
		Post(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post portal form")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return res.String(), nil
}

// FetchWeeklyMenu fetches the public weekly menu page. No jar: the
// menu does not require a session.
func (c *Client) FetchWeeklyMenu(ctx context.Context) (string, error) {
	return c.Get(ctx, MenuPath, nil)
}
