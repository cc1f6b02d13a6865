package ingredients

import (
	"encoding/json"
	"slices"
	"strings"
)

// Status is a halal compliance verdict.
type Status string

const (
	StatusHalal     Status = "HALAL"
	StatusHaram     Status = "HARAM"
	StatusMashbooh  Status = "MASHBOOH"
	StatusUncertain Status = "UNCERTAIN"
)

var statuses = []Status{StatusHalal, StatusHaram, StatusMashbooh, StatusUncertain}

// ParseStatus accepts a status in any letter case.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RiskLevel grades how likely an ingredient is to compromise compliance.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

var riskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// ParseRiskLevel accepts a risk level in any letter case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	v := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(riskLevels, v) {
		return "", ErrInvalidRiskLevel
	}
	return v, nil
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseRiskLevel(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
