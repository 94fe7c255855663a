// Package results computes final standings at match end and obtains a
// coaching critique for every player: from the external advisory
// collaborator when it cooperates, from a deterministic heuristic when it
// does not. The match always completes with a non-empty critique for every
// player.
package results

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bullvbear/match-engine/internal/model"
)

// AdvisorRequest is the typed input contract for critique generation: the
// player's full transaction log plus summary stats.
type AdvisorRequest struct {
	PlayerName   string              `json:"playerName"`
	ROI          float64             `json:"roi"`
	RiskScore    int                 `json:"riskScore"`
	Transactions []model.Transaction `json:"transactions"`
}

// Advisor produces a structured critique for one player. Implementations:
// HTTPAdvisor (the external collaborator) and Heuristic (local fallback).
type Advisor interface {
	Critique(ctx context.Context, req AdvisorRequest) (model.Critique, error)
}

// ErrInvalidCritique is returned when the collaborator responds with a
// payload missing one of the required sections.
var ErrInvalidCritique = errors.New("results: critique missing required sections")

// maxLearningCards bounds the explainer items attached to a critique.
const maxLearningCards = 3

// validateCritique enforces the three-section shape and trims excess
// learning cards.
func validateCritique(c *model.Critique) error {
	if len(c.Strengths) == 0 || len(c.Mistakes) == 0 || len(c.Suggestions) == 0 {
		return ErrInvalidCritique
	}
	if len(c.Cards) > maxLearningCards {
		c.Cards = c.Cards[:maxLearningCards]
	}
	return nil
}

// HTTPAdvisor calls the external coaching service with a typed JSON
// request/response contract. Any transport error, non-200 status or
// malformed payload is surfaced to the caller, which falls back to the
// heuristic.
type HTTPAdvisor struct {
	url    string
	client *http.Client
}

// NewHTTPAdvisor builds an advisor for the given endpoint.
func NewHTTPAdvisor(url string) *HTTPAdvisor {
	return &HTTPAdvisor{
		url:    url,
		client: &http.Client{},
	}
}

// Critique implements Advisor. The caller bounds the call with its context;
// there is no unbounded path.
func (a *HTTPAdvisor) Critique(ctx context.Context, req AdvisorRequest) (model.Critique, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.Critique{}, fmt.Errorf("marshal advisor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return model.Critique{}, fmt.Errorf("build advisor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return model.Critique{}, fmt.Errorf("advisor call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Critique{}, fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}

	var critique model.Critique
	if err := json.NewDecoder(resp.Body).Decode(&critique); err != nil {
		return model.Critique{}, fmt.Errorf("decode advisor response: %w", err)
	}
	if err := validateCritique(&critique); err != nil {
		return model.Critique{}, err
	}
	return critique, nil
}
