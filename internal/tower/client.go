package tower

import (
	"fmt"
	"net/url"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/extract"
	"towerassist/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl       = "https://tower.im"
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64; rv:51.0) Gecko/20100101 Firefox/51.0"
	DefaultSessionCookie = "_tower2_session"

	acceptHtml = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJson = "application/json, text/javascript, */*; q=0.01"
)

// Options configures how a Session talks to Tower. Only Telemetry is
// required, everything else has a default.
type Options struct {
	BaseUrl string
	// Host overrides the Host header, it defaults to the host of BaseUrl.
	Host          string
	UserAgent     string
	SessionCookie string
	// RequestsPerSecond paces requests when > 0.
	RequestsPerSecond float64

	Extractor extract.Extractor
	Telemetry telemetry.API
	// Tracer and Dump are passed to restyutil.InstrumentClient, both may be nil.
	Tracer trace.Tracer
	Dump   restyutil.InstrumentOutput
}

func (o Options) withDefaults() Options {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.SessionCookie == "" {
		o.SessionCookie = DefaultSessionCookie
	}
	if o.Extractor == nil {
		o.Extractor = extract.NewRegexpExtractor()
	}
	return o
}

func newHttpClient(opts Options, tel telemetry.API) (*resty.Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", opts.BaseUrl)
	}
	host := opts.Host
	if host == "" {
		host = baseUrl.Host
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	// cookies are sent as one synthesized header, a jar would duplicate them
	httpClient.SetCookieJar(nil)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.SetHeader("Accept", acceptHtml)
	httpClient.SetHeader("Host", host)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, opts.Tracer, opts.Dump)

	return httpClient, nil
}
