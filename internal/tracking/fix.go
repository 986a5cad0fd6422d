package tracking

import (
	"encoding/json"
	"fmt"
	"time"
)

// Fix is one raw position sample from the location provider.
type Fix struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp int64    `json:"timestamp"` // epoch millis
}

// ParseFix parses a JSON payload into a Fix, stamping the receive time when
// the payload carries no timestamp.
func ParseFix(payload []byte) (*Fix, error) {
	var fix Fix
	if err := json.Unmarshal(payload, &fix); err != nil {
		return nil, err
	}
	if fix.Timestamp == 0 {
		fix.Timestamp = time.Now().UnixMilli()
	}
	return &fix, nil
}

// ValidateFix rejects coordinates outside the WGS84 envelope.
func ValidateFix(fix *Fix) error {
	if fix.Lat < -90 || fix.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", fix.Lat)
	}
	if fix.Lng < -180 || fix.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", fix.Lng)
	}
	if fix.Accuracy != nil && *fix.Accuracy < 0 {
		return fmt.Errorf("accuracy %v must be non-negative", *fix.Accuracy)
	}
	return nil
}
