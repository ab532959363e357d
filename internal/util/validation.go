package util

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/relder2/audiosnag/internal/config"
)

var privateNets []*net.IPNet

func init() {
	cidrs := []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"0.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, _ := net.ParseCIDR(cidr)
		privateNets = append(privateNets, network)
	}
}

// ValidateURL rejects anything that should never reach a subprocess:
// non-HTTP schemes, oversized URLs, and private or loopback hosts.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("URL is required")
	}
	if len(rawURL) > config.MaxURLLength {
		return errors.New("URL is too long")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("only HTTP/HTTPS URLs are allowed")
	}
	if isPrivateHost(strings.ToLower(parsed.Hostname())) {
		return errors.New("private/local URLs are not allowed")
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	for _, network := range privateNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func isPrivateHost(hostname string) bool {
	if hostname == "" || hostname == "localhost" {
		return true
	}

	ip := net.ParseIP(hostname)
	if ip == nil {
		ip = net.ParseIP(strings.Trim(hostname, "[]"))
	}
	if ip != nil {
		return isPrivateIP(ip)
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return true
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return true
		}
	}
	return false
}
