package api

// Sparse records mirroring the device's ad-hoc JSON. Every field is
// optional: an absent key simply decodes to the zero value. The device
// omits fields freely between firmware versions and appliance models, so
// nothing here distinguishes "absent" from "empty".

// DeviceStatusProgramEnd describes when and how the running program ends.
type DeviceStatusProgramEnd struct {
	EndType string `json:"EndType,omitempty"`
	End     string `json:"End,omitempty"`
}

// DeviceStatus is the getDeviceStatus record.
type DeviceStatus struct {
	DeviceName string                 `json:"DeviceName,omitempty"`
	Serial     string                 `json:"Serial,omitempty"`
	Inactive   string                 `json:"Inactive,omitempty"` // "true" / "false"
	Program    string                 `json:"Program,omitempty"`
	Status     string                 `json:"Status,omitempty"`
	ProgramEnd DeviceStatusProgramEnd `json:"ProgramEnd,omitempty"`
	DeviceUUID string                 `json:"deviceUuid,omitempty"`
}

// IsInactive reports whether the appliance considers itself idle. The
// firmware encodes the flag as the strings "true" and "false".
func (s DeviceStatus) IsInactive() bool {
	return s.Inactive == "true"
}

// UpdateProgress tracks a component update in percent.
type UpdateProgress struct {
	Download     int `json:"download,omitempty"`
	Installation int `json:"installation,omitempty"`
}

// UpdateComponent is one updatable firmware component.
type UpdateComponent struct {
	Name      string         `json:"name,omitempty"`
	Running   bool           `json:"running,omitempty"`
	Available bool           `json:"available,omitempty"`
	Required  bool           `json:"required,omitempty"`
	Progress  UpdateProgress `json:"progress,omitempty"`
}

// UpdateStatus is the getUpdateStatus record.
type UpdateStatus struct {
	Status             string            `json:"status,omitempty"` // "idle" when nothing is happening
	AIUpdateAvailable  bool              `json:"isAIUpdateAvailable,omitempty"`
	HHGUpdateAvailable bool              `json:"isHHGUpdateAvailable,omitempty"`
	Synced             bool              `json:"isSynced,omitempty"`
	Components         []UpdateComponent `json:"components,omitempty"`
}

// PushNotification is one entry of getLastPUSHNotifications. The device
// returns the list newest-first; the client keeps that order.
type PushNotification struct {
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
}

// EcoInfoMetric holds consumption figures for one resource.
type EcoInfoMetric struct {
	Total   float64 `json:"total,omitempty"`
	Average float64 `json:"average,omitempty"`
	Program float64 `json:"program,omitempty"`
	Option  float64 `json:"option,omitempty"` // sent by AdoraWash for water
}

// EcoInfo is the getEcoInfo record.
type EcoInfo struct {
	Water  EcoInfoMetric `json:"water,omitempty"`
	Energy EcoInfoMetric `json:"energy,omitempty"`
}

// Command type values exposed by the household gateway.
const (
	CommandTypeAction    = "action"
	CommandTypeBoolean   = "boolean"
	CommandTypeSelection = "selection"
	CommandTypeStatus    = "status"
	CommandTypeRange     = "range"
)

// Command is a device-defined configurable control point (getCommand).
// Not to be confused with the client-side request descriptor.
type Command struct {
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	Command     string    `json:"command,omitempty"`
	Value       string    `json:"value,omitempty"`
	Alterable   bool      `json:"alterable,omitempty"`
	Options     []string  `json:"options,omitempty"`
	MinMax      [2]string `json:"minMax,omitempty"`
	Refresh     []string  `json:"refresh,omitempty"` // commands to re-read after this one changes
}

// Category is the getCategory record.
type Category struct {
	Description string `json:"description,omitempty"`
}

// DeviceInfo is the getDeviceInfo record.
type DeviceInfo struct {
	Model         string `json:"model,omitempty"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type,omitempty"` // e.g. "WA" for washers
	Name          string `json:"name,omitempty"`
	SerialNumber  string `json:"serialNumber,omitempty"`
	ArticleNumber string `json:"articleNumber,omitempty"` // serial numbers start with this
	APIVersion    string `json:"apiVersion,omitempty"`    // seen: 1.7.0, 1.8.0
	ZHMode        int    `json:"zhMode,omitempty"`
}

// AiFwVersion is the appliance-intelligence variant of getFWVersion.
type AiFwVersion struct {
	FN         string `json:"fn,omitempty"`
	SW         string `json:"SW,omitempty"`
	SD         string `json:"SD,omitempty"`
	HW         string `json:"HW,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
	Phy        string `json:"phy,omitempty"`
	DeviceUUID string `json:"deviceUuid,omitempty"`
}

// HhFwVersion is the household-gateway variant of getFWVersion. The keys
// are the firmware's own abbreviations, carried through as-is.
type HhFwVersion struct {
	FN         string `json:"fn,omitempty"`
	AN         string `json:"an,omitempty"`
	V          string `json:"v,omitempty"`
	VR01       string `json:"vr01,omitempty"`
	V2         string `json:"v2,omitempty"`
	VR10       string `json:"vr10,omitempty"`
	VI2        string `json:"vi2,omitempty"`
	VH1        string `json:"vh1,omitempty"`
	VH2        string `json:"vh2,omitempty"`
	VR0B       string `json:"vr0B,omitempty"`
	VP         string `json:"vp,omitempty"`
	VR0C       string `json:"vr0C,omitempty"`
	VR0E       string `json:"vr0E,omitempty"`
	Mh         string `json:"Mh,omitempty"`
	MD         string `json:"MD,omitempty"`
	Zh         string `json:"Zh,omitempty"`
	ZV         string `json:"ZV,omitempty"`
	ZHSW       string `json:"ZHSW,omitempty"`
	DeviceType string `json:"device-type,omitempty"`
}
