package domain

import "time"

// Alarm defaults applied when an account has never saved an alarm config.
const (
	DefaultNoRecognitionThreshold = 300
	MaxNoRecognitionThreshold     = 86400
)

// AlarmConfig controls the silence watchdog of one account. The address
// shape is only checked while EmailNotification is on.
type AlarmConfig struct {
	NoRecognitionThreshold int    `json:"no_recognition_threshold" validate:"gt=0,max=86400"`
	EmailNotification      bool   `json:"email_notification"`
	EmailAddress           string `json:"email_address"            validate:"required_if=EmailNotification true,max=254"`
}

// DefaultAlarmConfig returns the configuration used before the operator
// saves one.
func DefaultAlarmConfig() AlarmConfig {
	return AlarmConfig{NoRecognitionThreshold: DefaultNoRecognitionThreshold}
}

// Threshold returns the silence threshold as a duration.
func (c AlarmConfig) Threshold() time.Duration {
	return time.Duration(c.NoRecognitionThreshold) * time.Second
}
