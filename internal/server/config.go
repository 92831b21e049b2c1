package server

import (
	"fmt"
	"net/netip"
)

// Config holds the server configuration.
type Config struct {
	Host        string          `mapstructure:"host"`
	Port        int             `mapstructure:"port"`
	DevMode     bool            `mapstructure:"dev_mode"`
	CORSOrigins []string        `mapstructure:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the per-IP token bucket. RPS <= 0 disables it.
// X-Forwarded-For is honoured only when the peer address falls inside
// TrustedProxies (CIDRs or bare IPs).
type RateLimitConfig struct {
	RPS            float64  `mapstructure:"rps"`
	Burst          int      `mapstructure:"burst"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseTrustedProxies parses CIDRs and bare IP addresses into prefixes.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		if p, err := netip.ParsePrefix(e); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", e)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
