package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anikamehra/resumelens/pkg/models"
)

// ErrInvalidResponse means the model's reply did not match the schema the
// prompt demanded. The caller must fail the call, never guess a score.
var ErrInvalidResponse = errors.New("response does not match requested schema")

// DecodeKeywordMatch parses and validates a Keywords reply.
func DecodeKeywordMatch(text string) (*models.KeywordMatch, error) {
	var out models.KeywordMatch
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if err := checkScore(out.Score); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeSkillsMatch parses and validates a Skills reply.
func DecodeSkillsMatch(text string) (*models.SkillsMatch, error) {
	var out models.SkillsMatch
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if err := checkScore(out.Score); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeFormatCheck parses and validates a Format reply.
func DecodeFormatCheck(text string) (*models.FormatCheck, error) {
	var out models.FormatCheck
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if err := checkScore(out.Score); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeRecommendations parses and validates a Recommend reply.
func DecodeRecommendations(text string) ([]models.Recommendation, error) {
	var out []models.Recommendation
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty recommendation list", ErrInvalidResponse)
	}
	return out, nil
}

// DecodeSectionScores parses and validates a Sections reply.
func DecodeSectionScores(text string) ([]models.SectionScore, error) {
	var out []models.SectionScore
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty section list", ErrInvalidResponse)
	}
	for _, s := range out {
		if err := checkScore(s.Score); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeRoastFeedback parses and validates a Roast reply.
func DecodeRoastFeedback(text string) (*models.RoastFeedback, error) {
	var out models.RoastFeedback
	if err := decode(text, &out); err != nil {
		return nil, err
	}
	if err := checkScore(out.MarketReadiness); err != nil {
		return nil, err
	}
	if len(out.Feedback) == 0 {
		return nil, fmt.Errorf("%w: empty feedback list", ErrInvalidResponse)
	}
	return &out, nil
}

// decode strips any markdown code fence the model wrapped its JSON in and
// unmarshals into target.
func decode(text string, target any) error {
	cleaned := stripFence(text)
	if cleaned == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func checkScore(n int) error {
	if n < 0 || n > 100 {
		return fmt.Errorf("%w: score %d out of range 0-100", ErrInvalidResponse, n)
	}
	return nil
}
