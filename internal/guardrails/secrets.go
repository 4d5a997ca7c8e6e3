package guardrails

import (
	"context"
	"fmt"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

const (
	secretScannerName = "secret_leak"

	// secretScoreCeiling is the finding count at which the score
	// saturates at 1.0.
	secretScoreCeiling = 5
)

// SecretScanner detects credentials using the gitleaks detector with its
// default rule set (API keys, tokens, private keys). In input mode it
// keeps user-pasted secrets out of the conversation; in output mode it
// stops the model from echoing credentials back to the caller.
type SecretScanner struct {
	detector *detect.Detector
}

// NewSecretScanner builds a scanner with the default gitleaks config.
// A failure to assemble the rule set is a configuration error.
func NewSecretScanner() (*SecretScanner, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("secret scanner: build gitleaks detector: %w", err)
	}
	return &SecretScanner{detector: detector}, nil
}

// Name implements InputScanner and OutputScanner.
func (s *SecretScanner) Name() string { return secretScannerName }

// ValidateInput scans the latest user text for credentials.
func (s *SecretScanner) ValidateInput(ctx context.Context, bag message.Bag) (Result, error) {
	return s.scan(bag.LatestUserText()), nil
}

// ValidateOutput scans the candidate answer for credentials.
func (s *SecretScanner) ValidateOutput(ctx context.Context, answer string) (Result, error) {
	return s.scan(answer), nil
}

func (s *SecretScanner) scan(text string) Result {
	if text == "" {
		return Result{Scanner: secretScannerName}
	}

	findings := s.detector.DetectString(text)
	if len(findings) == 0 {
		return Result{Scanner: secretScannerName}
	}

	score := float64(len(findings)) / secretScoreCeiling
	if score > 1.0 {
		score = 1.0
	}
	return Result{
		Triggered: true,
		Scanner:   secretScannerName,
		Score:     score,
		Reason:    fmt.Sprintf("Secret detected: %s", findings[0].RuleID),
	}
}
