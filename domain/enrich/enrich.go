package enrich

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"deal-detector/config"
	"deal-detector/domain/coupon"
	"deal-detector/pkg/logger"
)

// defaultLogoURL is served when no logo source responds for a domain.
const defaultLogoURL = "https://cdn-icons-png.flaticon.com/512/295/295144.png"

const defaultCategory = "general"

var angleAddrRE = regexp.MustCompile(`<(.+?)>`)

// Service resolves company enrichment (domain, logo URL, category) from
// a sender address. Lookups are pure input to output and degrade to
// nil/"general" on any failure; they never block record assembly.
type Service struct {
	client *http.Client
	log    logger.Logger
}

// NewService creates an enrichment service with a bounded probe timeout.
func NewService(probeTimeout time.Duration) *Service {
	return &Service{
		client: &http.Client{Timeout: probeTimeout},
		log:    logger.Get().WithComponent("enrichment"),
	}
}

// Lookup resolves all enrichment fields for a sender address.
func (s *Service) Lookup(ctx context.Context, sender string) coupon.Enrichment {
	domain := DomainFromSender(sender)
	if domain == "" {
		return coupon.Enrichment{}
	}

	logoURL := s.logoURL(ctx, domain)
	category := s.category(domain)

	return coupon.Enrichment{
		CompanyDomain:   &domain,
		CompanyLogoURL:  &logoURL,
		CompanyCategory: &category,
	}
}

// DomainFromSender extracts the root company domain from a sender
// header value, handling both "Name <a@sub.example.com>" and bare
// address forms. Subdomains collapse to the root domain.
func DomainFromSender(sender string) string {
	addr := strings.TrimSpace(sender)
	if m := angleAddrRE.FindStringSubmatch(addr); m != nil {
		addr = m[1]
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}

	return rootDomain(strings.ToLower(addr[at+1:]))
}

// rootDomain collapses subdomains: e.potbelly.com -> potbelly.com.
func rootDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) <= 2 {
		return domain
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

func logoSources(domain string) []string {
	return []string{
		fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=64", domain),
		fmt.Sprintf("https://logo.clearbit.com/%s", domain),
		fmt.Sprintf("https://img.logo.dev/%s?size=64", domain),
	}
}

// logoURL probes the known logo sources for a domain, caching the first
// working one. Every source failing falls back to the default logo.
func (s *Service) logoURL(ctx context.Context, domain string) string {
	if cached := config.GetCachedLogoURL(domain); cached != "" {
		return cached
	}

	for _, src := range logoSources(domain) {
		if s.probe(ctx, src) {
			if err := config.CacheLogoURL(domain, src); err != nil {
				s.log.Debug("Failed to cache logo URL", logger.Domain(domain), logger.Err(err))
			}
			return src
		}
	}

	s.log.Debug("No working logo source", logger.Domain(domain))
	return defaultLogoURL
}

func (s *Service) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// category maps a domain to a product category via the static map,
// consulting the cache first.
func (s *Service) category(domain string) string {
	if cached := config.GetCachedCategory(domain); cached != "" {
		return cached
	}

	category, ok := domainCategories[domain]
	if !ok {
		return defaultCategory
	}

	if err := config.CacheCategory(domain, category); err != nil {
		s.log.Debug("Failed to cache category", logger.Domain(domain), logger.Err(err))
	}
	return category
}
