package platform

import (
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/vacuum"
)

// SettingsFromConfig converts the shared MQTT settings into session settings.
func SettingsFromConfig(cfg *config.Config) vacuum.Settings {
	return vacuum.Settings{
		Port:              cfg.MQTT.Port,
		KeepAlive:         cfg.GetKeepAlive(),
		ReconnectInterval: cfg.GetReconnectPeriod(),
		ConnectTimeout:    cfg.GetConnectTimeout(),
		ProtocolVersion:   uint(cfg.MQTT.ProtocolVersion), //nolint:gosec // validated as 3 or 4
		QoS:               byte(cfg.MQTT.QoS),              //nolint:gosec // validated as 0-2
	}
}
