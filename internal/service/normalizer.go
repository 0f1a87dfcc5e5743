// Package service wires acquisition, normalization and fallback into the
// pipeline the presentation boundary consumes.
package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/models"
)

// RawShape tags which of the recognized upstream response shapes a payload
// matched. The shape is resolved once per payload, never re-sniffed.
type RawShape int

// Recognized raw shapes
const (
	ShapeUnknown RawShape = iota
	ShapeCanonical
	ShapeEnveloped
	ShapeSequence
)

// String returns the display name of the shape.
func (s RawShape) String() string {
	switch s {
	case ShapeCanonical:
		return "canonical"
	case ShapeEnveloped:
		return "enveloped"
	case ShapeSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// envelope is the wrapper some upstreams put around the game list.
type envelope struct {
	Success     *bool           `json:"success"`
	Data        []models.Game   `json:"data"`
	Count       *int            `json:"count"`
	Timestamp   *flexibleTime   `json:"timestamp"`
	LastUpdated *flexibleTime   `json:"lastUpdated"`
	Source      string          `json:"source"`
	Games       json.RawMessage `json:"games"`
}

// flexibleTime accepts RFC3339 strings or unix epoch seconds/milliseconds.
type flexibleTime struct {
	time.Time
}

func (t *flexibleTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return perr
		}
		t.Time = parsed
		return nil
	}

	var epoch int64
	if err := json.Unmarshal(data, &epoch); err != nil {
		return err
	}
	if epoch > 1e12 {
		t.Time = time.UnixMilli(epoch).UTC()
	} else {
		t.Time = time.Unix(epoch, 0).UTC()
	}
	return nil
}

// Normalizer reconciles heterogeneous upstream response shapes into the
// canonical GameSet record.
type Normalizer struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewNormalizer creates a new response normalizer
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// Resolve tags the raw payload with the shape it matches. Resolution order:
// canonical, enveloped, bare sequence.
func (n *Normalizer) Resolve(raw json.RawMessage) RawShape {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if len(env.Games) > 0 {
			return ShapeCanonical
		}
		if env.Success != nil && env.Data != nil {
			return ShapeEnveloped
		}
		return ShapeUnknown
	}

	var games []models.Game
	if err := json.Unmarshal(raw, &games); err == nil {
		return ShapeSequence
	}

	return ShapeUnknown
}

// Normalize converts a raw payload into a GameSet. An unrecognized shape is
// not an error condition upstream of the caller's choosing: it returns
// ErrUnrecognizedShape and the caller fails closed to cache-then-fallback.
func (n *Normalizer) Normalize(raw json.RawMessage) (*models.GameSet, error) {
	shape := n.Resolve(raw)

	if n.logger != nil {
		n.logger.WithField("shape", shape.String()).Debug("Resolved upstream response shape")
	}

	switch shape {
	case ShapeCanonical:
		return n.normalizeCanonical(raw)
	case ShapeEnveloped:
		return n.normalizeEnveloped(raw)
	case ShapeSequence:
		return n.normalizeSequence(raw)
	default:
		return nil, fmt.Errorf("%w: payload matches no recognized shape", models.ErrUnrecognizedShape)
	}
}

// normalizeCanonical passes an already-canonical payload through unchanged.
// A totalGames count that disagrees with the game list is preserved as-is;
// the validity check disqualifies the set, not the normalizer.
func (n *Normalizer) normalizeCanonical(raw json.RawMessage) (*models.GameSet, error) {
	var set models.GameSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("%w: canonical decode failed: %v", models.ErrUnrecognizedShape, err)
	}
	if set.Source == "" {
		set.Source = models.SourceAPI
	}
	return &set, nil
}

// normalizeEnveloped unwraps a {success, data, count, ...} envelope. Count
// defaults to len(data) and the update time to whichever of timestamp or
// lastUpdated is present.
func (n *Normalizer) normalizeEnveloped(raw json.RawMessage) (*models.GameSet, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope decode failed: %v", models.ErrUnrecognizedShape, err)
	}

	total := len(env.Data)
	if env.Count != nil {
		total = *env.Count
	}

	lastUpdate := n.now().UTC()
	if env.Timestamp != nil {
		lastUpdate = env.Timestamp.Time
	} else if env.LastUpdated != nil {
		lastUpdate = env.LastUpdated.Time
	}

	source := env.Source
	if source == "" {
		source = models.SourceAPI
	}

	return &models.GameSet{
		Success:    env.Success == nil || *env.Success,
		Games:      env.Data,
		TotalGames: total,
		LastUpdate: lastUpdate,
		Source:     source,
	}, nil
}

// normalizeSequence wraps a bare ordered game list.
func (n *Normalizer) normalizeSequence(raw json.RawMessage) (*models.GameSet, error) {
	var games []models.Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("%w: sequence decode failed: %v", models.ErrUnrecognizedShape, err)
	}

	return &models.GameSet{
		Success:    true,
		Games:      games,
		TotalGames: len(games),
		LastUpdate: n.now().UTC(),
		Source:     models.SourceAPI,
	}, nil
}
