// Package analysis holds the content scoring primitives: entity
// extraction, sentiment heuristics and weighted risk scoring.
package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// Entity type keys produced by the extractor.
const (
	EntityIPs      = "ip_addresses"
	EntityDomains  = "domains"
	EntityURLs     = "urls"
	EntityEmails   = "email_addresses"
	EntityHashes   = "file_hashes"
	EntityCVEs     = "cve_ids"
	EntityBitcoin  = "bitcoin_addresses"
	EntityKeywords = "threat_keywords"
	EntityOrgs     = "organizations"
)

// iocTypes are the entity keys counted as indicators of compromise.
var iocTypes = []string{EntityIPs, EntityDomains, EntityURLs, EntityHashes, EntityCVEs, EntityBitcoin}

type entityPattern struct {
	kind string
	re   *regexp.Regexp
}

// threatKeywords flag security-relevant vocabulary in free text.
var threatKeywords = []string{
	"malware", "ransomware", "phishing", "exploit", "vulnerability",
	"breach", "attack", "trojan", "virus", "botnet", "ddos",
	"injection", "backdoor", "rootkit", "spyware", "adware",
}

// knownOrgs supplements the suffix heuristic with vendors that appear
// in advisories without a corporate suffix.
var knownOrgs = []string{
	"Microsoft", "Google", "Apple", "Amazon", "Cisco", "Oracle",
	"Adobe", "IBM", "Intel", "VMware", "Fortinet", "Palo Alto Networks",
}

var orgSuffixRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&'.-]*(?:\s+[A-Z][A-Za-z0-9&'.-]*)*\s+(?:Inc|Corp|Corporation|Ltd|LLC|Company|Technologies|Systems|Solutions|Security)\b`)

// Extractor pulls indicators, threat vocabulary and organization names
// out of scraped text. Patterns are compiled once at construction.
type Extractor struct {
	patterns []entityPattern
}

// NewExtractor compiles the indicator pattern table.
func NewExtractor() *Extractor {
	return &Extractor{patterns: []entityPattern{
		{EntityIPs, regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)},
		{EntityURLs, regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s<>"']+`)},
		{EntityEmails, regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)},
		{EntityHashes, regexp.MustCompile(`\b[a-fA-F0-9]{32,64}\b`)},
		{EntityCVEs, regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,7}\b`)},
		{EntityBitcoin, regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`)},
		{EntityDomains, regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}\b`)},
	}}
}

// Extract returns every entity type found in the text, keyed by type.
// Matches within a type keep first-seen order with duplicates removed.
func (e *Extractor) Extract(text string) map[string][]string {
	out := make(map[string][]string)
	for _, p := range e.patterns {
		matches := p.re.FindAllString(text, -1)
		if p.kind == EntityCVEs {
			for i, m := range matches {
				matches[i] = strings.ToUpper(m)
			}
		}
		if u := uniq(matches); len(u) > 0 {
			out[p.kind] = u
		}
	}

	lower := strings.ToLower(text)
	var kws []string
	for _, kw := range threatKeywords {
		if strings.Contains(lower, kw) {
			kws = append(kws, kw)
		}
	}
	if len(kws) > 0 {
		out[EntityKeywords] = kws
	}

	var orgs []string
	orgs = append(orgs, orgSuffixRe.FindAllString(text, -1)...)
	for _, org := range knownOrgs {
		if strings.Contains(text, org) {
			orgs = append(orgs, org)
		}
	}
	if u := uniq(orgs); len(u) > 0 {
		out[EntityOrgs] = u
	}

	return out
}

// Validate drops syntactically matched but semantically invalid
// entities: IPs with out-of-range octets, short or uppercase domains,
// URLs on schemes other than http(s).
func (e *Extractor) Validate(entities map[string][]string) map[string][]string {
	out := make(map[string][]string, len(entities))
	for kind, values := range entities {
		var kept []string
		for _, v := range values {
			switch kind {
			case EntityIPs:
				if validIP(v) {
					kept = append(kept, v)
				}
			case EntityDomains:
				if validDomain(v) {
					kept = append(kept, v)
				}
			case EntityURLs:
				if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
					kept = append(kept, v)
				}
			default:
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[kind] = kept
		}
	}
	return out
}

// Summary reduces an entity map to aggregate counts.
type Summary struct {
	Total             int            `json:"total_entities"`
	TypeCount         int            `json:"entity_types"`
	CountsByType      map[string]int `json:"counts_by_type"`
	HasIOCs           bool           `json:"has_iocs"`
	HasThreatKeywords bool           `json:"has_threat_keywords"`
}

// Summarize counts entities by type and flags IOC presence.
func (e *Extractor) Summarize(entities map[string][]string) Summary {
	s := Summary{CountsByType: make(map[string]int, len(entities))}
	for kind, values := range entities {
		s.CountsByType[kind] = len(values)
		s.Total += len(values)
	}
	s.TypeCount = len(entities)
	for _, kind := range iocTypes {
		if s.CountsByType[kind] > 0 {
			s.HasIOCs = true
			break
		}
	}
	s.HasThreatKeywords = s.CountsByType[EntityKeywords] > 0
	return s
}

func validIP(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

func validDomain(s string) bool {
	return len(s) > 3 && strings.Contains(s, ".") && s == strings.ToLower(s)
}

func uniq(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
