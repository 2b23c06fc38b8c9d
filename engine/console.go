package engine

import "go.uber.org/zap"

// Console forwards script console output to a logger.
type Console struct {
	log *zap.Logger
}

func NewConsole(log *zap.Logger) *Console {
	if log == nil {
		log = Logger()
	}
	return &Console{log: log.Named("console")}
}

func (c *Console) Log(s string)   { c.log.Info(s) }
func (c *Console) Info(s string)  { c.log.Info(s) }
func (c *Console) Debug(s string) { c.log.Debug(s) }
func (c *Console) Warn(s string)  { c.log.Warn(s) }
func (c *Console) Error(s string) { c.log.Error(s) }
