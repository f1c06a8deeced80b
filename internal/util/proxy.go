package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc routes upstream requests through the configured proxies.
// Hosts listed in noProxy (comma separated, ".suffix" matches subdomains)
// go direct. With no proxies configured the environment decides.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var bypass []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(strings.ToLower(h)); h != "" {
			bypass = append(bypass, h)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if bypassed(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func bypassed(host string, rules []string) bool {
	host = strings.ToLower(host)
	for _, rule := range rules {
		if rule == "*" || host == rule || (strings.HasPrefix(rule, ".") && strings.HasSuffix(host, rule)) {
			return true
		}
	}
	return false
}
