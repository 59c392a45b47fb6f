// # internal/secrets/detector.go
package secrets

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"codeprof/internal/analyzer"
)

// Detector flags embedded credentials in source text. Findings become
// security issues on the owning file's report; the traversal engine itself
// stays unaware of them.
type Detector struct {
	entropyThreshold float64
	minTokenLength   int
	patterns         []compiledPattern
	contextVarRE     *regexp.Regexp
	quotedValueRE    *regexp.Regexp
}

type Config struct {
	EntropyThreshold float64
	MinTokenLength   int
}

type compiledPattern struct {
	name     string
	severity string
	re       *regexp.Regexp
}

func NewDetector(cfg Config) *Detector {
	if cfg.EntropyThreshold <= 0 {
		cfg.EntropyThreshold = 4.0
	}
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = 20
	}

	patterns := []compiledPattern{
		{name: "aws-access-key-id", severity: analyzer.SeverityHigh, re: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
		{name: "github-pat", severity: analyzer.SeverityHigh, re: regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`)},
		{name: "stripe-live-secret", severity: analyzer.SeverityHigh, re: regexp.MustCompile(`\bsk_live_[A-Za-z0-9]{16,}\b`)},
		{name: "slack-token", severity: analyzer.SeverityHigh, re: regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
		{name: "private-key-block", severity: analyzer.SeverityHigh, re: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`)},
	}

	return &Detector{
		entropyThreshold: cfg.EntropyThreshold,
		minTokenLength:   cfg.MinTokenLength,
		patterns:         patterns,
		contextVarRE:     regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|api[_-]?key|token|auth[_-]?token|access[_-]?key|private[_-]?key|client[_-]?secret)\b`),
		quotedValueRE:    regexp.MustCompile(`"([^"\r\n]{4,})"|'([^'\r\n]{4,})'` + "|`([^`\r\n]{4,})`"),
	}
}

// Detect scans content and returns issues for credential-shaped findings.
func (d *Detector) Detect(content []byte) []analyzer.Issue {
	if len(content) == 0 {
		return nil
	}

	text := string(content)
	seen := make(map[string]bool)
	var issues []analyzer.Issue

	for _, pattern := range d.patterns {
		for _, value := range pattern.re.FindAllString(text, -1) {
			key := pattern.name + ":" + value
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, analyzer.Issue{
				Kind:     analyzer.IssueKindSecurity,
				Message:  fmt.Sprintf("possible %s in source", pattern.name),
				Severity: pattern.severity,
			})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if !d.contextVarRE.MatchString(line) {
			continue
		}
		for _, match := range d.quotedValueRE.FindAllStringSubmatch(line, -1) {
			candidate := firstGroup(match)
			if len(candidate) < d.minTokenLength {
				continue
			}
			if !containsLetterAndDigit(candidate) {
				continue
			}
			if shannonEntropy(candidate) < d.entropyThreshold*0.8 {
				continue
			}
			key := "sensitive-assignment:" + candidate
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, analyzer.Issue{
				Kind:     analyzer.IssueKindSecurity,
				Message:  "high-entropy value assigned to a credential-named variable",
				Severity: analyzer.SeverityMedium,
			})
		}
	}

	return issues
}

func firstGroup(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

func containsLetterAndDigit(value string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range value {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

func shannonEntropy(value string) float64 {
	if value == "" {
		return 0
	}
	freq := make(map[rune]float64)
	for _, r := range value {
		freq[r]++
	}
	length := float64(len([]rune(value)))
	entropy := 0.0
	for _, count := range freq {
		p := count / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
