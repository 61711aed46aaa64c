package config

import "time"

// Registry represents the entire user configuration file.
// It stores user-defined metadata for known appliances and application
// preferences; everything the device itself reports is fetched live.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device MAC address
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single appliance.
// Entries are keyed by the device MAC address in the Registry, matching
// the identity the appliance reports via getMacAddress.
type Device struct {
	Nickname         string    `yaml:"nickname,omitempty"`          // User-friendly name
	BaseURL          string    `yaml:"base_url,omitempty"`          // Device base URL (e.g. "http://192.168.1.50")
	ModelDescription string    `yaml:"model_description,omitempty"` // Last reported model description
	Username         string    `yaml:"username,omitempty"`          // Basic-auth username, if the device needs one
	LastSeen         time.Time `yaml:"last_seen,omitempty"`         // Last successful contact
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice string `yaml:"default_device,omitempty"` // MAC or nickname used when --device is omitted
	StateInterval int    `yaml:"state_interval,omitempty"` // Watch-mode state poll interval in seconds
}

// DefaultStateInterval is the watch-mode poll interval when the user has
// not configured one.
const DefaultStateInterval = 30

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			StateInterval: DefaultStateInterval,
		},
	}
}

// GetDevice retrieves device metadata by MAC address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *Device {
	return r.Devices[mac]
}

// FindDevice resolves a device by MAC address or nickname.
// Returns nil when nothing matches.
func (r *Registry) FindDevice(key string) *Device {
	if device, ok := r.Devices[key]; ok {
		return device
	}
	for _, device := range r.Devices {
		if device.Nickname == key {
			return device
		}
	}
	return nil
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(mac string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[mac]; exists {
		return device
	}

	device := &Device{}
	r.Devices[mac] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and base URL for a
// device after a successful contact.
func (r *Registry) UpdateDeviceLastSeen(mac, baseURL string) {
	device := r.EnsureDevice(mac)
	device.LastSeen = time.Now()
	device.BaseURL = baseURL
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(mac, nickname string) {
	device := r.EnsureDevice(mac)
	device.Nickname = nickname
}
