package utils

import (
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "fd00::/8", "garbage", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"192.168.1.5", true},
		{"192.168.1.6", false},
		{"::ffff:10.0.0.1", true},
		{"fd12::1", true},
		{"2001:db8::1", false},
		{"not-an-ip", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := m.Allow(tt.ip); got != tt.want {
				t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}

	if !NewIPMatcher([]string{"bogus"}).IsEmpty() {
		t.Error("matcher built from invalid entries should be empty")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		want       string
	}{
		{"remote addr", false, nil, "192.0.2.1"},
		{"headers ignored", false, map[string]string{"X-Real-IP": "10.0.0.9"}, "192.0.2.1"},
		{"cloudflare first", true, map[string]string{"CF-Connecting-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.2"}, "10.0.0.1"},
		{"left-most xff", true, map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, "10.0.0.2"},
		{"real ip", true, map[string]string{"X-Real-IP": "10.0.0.4"}, "10.0.0.4"},
		{"fallback", true, nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"10.0.0.1:80":     "10.0.0.1",
		"[::1]:8080":      "::1",
		"marks.local":     "marks.local",
		"marks.local:443": "marks.local",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"8.8.8.8":            true,
		"2606:4700::1111":    true,
		"127.0.0.1":          false,
		"::1":                false,
		"10.1.2.3":           false,
		"172.16.0.1":         false,
		"192.168.1.10":       false,
		"169.254.169.254":    false,
		"100.64.0.1":         false,
		"0.0.0.0":            false,
		"::ffff:192.168.1.1": false,
		"fd00::1":            false,
		"fe80::1":            false,
		"224.0.0.1":          false,
	}
	for ip, want := range cases {
		t.Run(ip, func(t *testing.T) {
			if got := IsPublicAddr(netip.MustParseAddr(ip)); got != want {
				t.Errorf("IsPublicAddr(%s) = %v, want %v", ip, got, want)
			}
		})
	}
}
