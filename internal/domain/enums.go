package domain

// AuditAction represents the kind of event recorded in the audit log.
type AuditAction string

const (
	AuditActionLogin             AuditAction = "LOGIN"
	AuditActionConfigUpdate      AuditAction = "CONFIG_UPDATE"
	AuditActionAlarmConfigUpdate AuditAction = "ALARM_CONFIG_UPDATE"
	AuditActionUserCreate        AuditAction = "USER_CREATE"
	AuditActionUserDelete        AuditAction = "USER_DELETE"
	AuditActionConnect           AuditAction = "CONNECT"
	AuditActionDisconnect        AuditAction = "DISCONNECT"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionLogin, AuditActionConfigUpdate, AuditActionAlarmConfigUpdate,
		AuditActionUserCreate, AuditActionUserDelete, AuditActionConnect, AuditActionDisconnect:
		return true
	}
	return false
}

// WatchdogStatus is the state of an account's silence detector.
type WatchdogStatus string

const (
	WatchdogArmed     WatchdogStatus = "ARMED"
	WatchdogTriggered WatchdogStatus = "TRIGGERED"
)

func (s WatchdogStatus) String() string { return string(s) }

// LogLevel classifies a live console line.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelSuccess LogLevel = "success"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

func (l LogLevel) String() string { return string(l) }

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelInfo, LogLevelSuccess, LogLevelWarning, LogLevelError:
		return true
	}
	return false
}
