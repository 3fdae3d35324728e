package app

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// newLLMHTTPClient returns the HTTP client used for the extraction service.
// proxy, when set, replaces HTTP(S)_PROXY from the environment; NO_PROXY
// still applies. There is no overall client timeout because responses are
// streamed; callers bound requests with a context deadline.
func newLLMHTTPClient(proxy string) *http.Client {
	pc := httpproxy.FromEnvironment()
	if p := strings.TrimSpace(proxy); p != "" {
		pc.HTTPProxy = p
		pc.HTTPSProxy = p
	}
	proxyFunc := pc.ProxyFunc()

	transport := &http.Transport{
		Proxy: func(r *http.Request) (*url.URL, error) {
			return proxyFunc(r.URL)
		},
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}
