package events

import (
	"go.uber.org/zap"
)

// LoggingObserver logs every event.
type LoggingObserver struct {
	logger  *zap.Logger
	verbose bool
}

// NewLoggingObserver creates an observer that logs events at debug level.
// verbose includes the payload.
func NewLoggingObserver(logger *zap.Logger, verbose bool) *LoggingObserver {
	return &LoggingObserver{logger: logger.Named("events"), verbose: verbose}
}

// OnEvent logs the event.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		o.logger.Debug("event", zap.String("type", event.Type), zap.Any("data", event.Data))
		return nil
	}
	o.logger.Debug("event", zap.String("type", event.Type))
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return "LoggingObserver"
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(string) bool {
	return true
}

// FuncObserver adapts a function to the Observer interface.
type FuncObserver struct {
	Name  string
	Types []string // Empty means every type
	Fn    func(Event) error
}

// OnEvent calls Fn.
func (o *FuncObserver) OnEvent(event Event) error {
	return o.Fn(event)
}

// GetName returns the observer's name.
func (o *FuncObserver) GetName() string {
	return o.Name
}

// ShouldHandle filters on Types.
func (o *FuncObserver) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
