package payment

import (
	"sync"

	"payments-sdk/models"
)

// Connectors is everything wired for one named configuration.
type Connectors struct {
	Gateway          Gateway
	Recurring        RecurringGateway
	Reservation      ReservationService
	DeviceInterface  DeviceInterface
	DeviceController DeviceController
}

// Container maps configuration names to their connectors. It is safe for
// concurrent use.
type Container struct {
	mu             sync.RWMutex
	configurations map[string]*Connectors
}

func NewContainer() *Container {
	return &Container{configurations: make(map[string]*Connectors)}
}

// Register stores conns under name, replacing any earlier entry.
func (c *Container) Register(name string, conns *Connectors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configurations[name] = conns
}

func (c *Container) lookup(name string) *Connectors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.configurations[name]
}

// Client returns the gateway for name, or nil when name is not configured.
func (c *Container) Client(name string) Gateway {
	if conns := c.lookup(name); conns != nil {
		return conns.Gateway
	}
	return nil
}

func (c *Container) RecurringClient(name string) RecurringGateway {
	if conns := c.lookup(name); conns != nil {
		return conns.Recurring
	}
	return nil
}

func (c *Container) DeviceInterface(name string) DeviceInterface {
	if conns := c.lookup(name); conns != nil {
		return conns.DeviceInterface
	}
	return nil
}

func (c *Container) DeviceController(name string) DeviceController {
	if conns := c.lookup(name); conns != nil {
		return conns.DeviceController
	}
	return nil
}

func (c *Container) ReservationService(name string) ReservationService {
	if conns := c.lookup(name); conns != nil {
		return conns.Reservation
	}
	return nil
}

var (
	defaultMu        sync.Mutex
	defaultContainer *Container
)

// Default returns the process-wide container, creating it on first use.
func Default() *Container {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultContainer == nil {
		defaultContainer = NewContainer()
	}
	return defaultContainer
}

// Instance returns the process-wide container once something has been
// configured into it.
func Instance() (*Container, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultContainer == nil {
		return nil, models.NewConfigurationError("Services container not configured.")
	}
	return defaultContainer, nil
}

// ResetDefault drops the process-wide container.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultContainer = nil
}

func resolve(c *Container) (*Container, error) {
	if c != nil {
		return c, nil
	}
	return Instance()
}

func configNameOrDefault(name string) string {
	if name == "" {
		return "default"
	}
	return name
}
