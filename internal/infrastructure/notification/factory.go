package notification

import "github.com/erp/installments/internal/infrastructure/config"

// NewChannels returns every channel enabled in config
func NewChannels(cfg config.NotifyConfig) []Channel {
	channels := make([]Channel, 0, 2)
	if cfg.WhatsApp.Enabled {
		channels = append(channels, NewWhatsAppChannel(cfg.WhatsApp))
	}
	if cfg.SMTP.Enabled {
		channels = append(channels, NewEmailChannel(cfg.SMTP))
	}
	return channels
}
