package gateways

import (
	"fmt"

	"golang.org/x/exp/slog"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/payment"
)

// Configure validates cfg and registers its connectors under configName in
// the process-wide container. An empty name means "default".
func Configure(cfg *config.ServicesConfig, configName string, opts ...Option) error {
	return ConfigureContainer(payment.Default(), cfg, configName, opts...)
}

// ConfigureContainer is Configure against an explicit container.
func ConfigureContainer(c *payment.Container, cfg *config.ServicesConfig, configName string, opts ...Option) error {
	if cfg == nil {
		return models.NewConfigurationError("config must be of type ServiceConfig")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if configName == "" {
		configName = config.DefaultName
	}

	o := buildOptions(opts)
	conns := &payment.Connectors{}

	if o.device != nil {
		device, err := o.device.ConfigureInterface()
		if err != nil {
			return fmt.Errorf("configure device interface: %w", err)
		}
		conns.DeviceController = o.device
		conns.DeviceInterface = device
	}

	if cfg.ReservationProvider == models.ReservationFreshTxt {
		conns.Reservation = NewTableServiceConnector(cfg, opts...)
	}

	if cfg.MerchantID != "" {
		realex := NewRealexConnector(cfg, opts...)
		conns.Gateway = realex
		conns.Recurring = realex
	} else {
		conns.Gateway = NewPorticoConnector(cfg, opts...)
		conns.Recurring = NewPayPlanConnector(cfg, opts...)
	}

	c.Register(configName, conns)

	o.logger.Info("gateway configured",
		slog.String("config", configName),
		slog.Bool("hosted", conns.Gateway.SupportsHostedPayments()),
		slog.Bool("reservations", conns.Reservation != nil),
		slog.Bool("device", conns.DeviceController != nil))
	return nil
}
