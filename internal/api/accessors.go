package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// One method per device endpoint. Each accessor fixes its parsing mode,
// expected shape, emptiness policy and default value; callers only choose
// whether an unrecoverable failure degrades to the default (defaultOnError)
// or surfaces as an error.

// GetMacAddress returns the device MAC address as reported by the
// appliance-intelligence layer. The default on error is an empty string.
func (c *Client) GetMacAddress(ctx context.Context, defaultOnError bool) (string, error) {
	req := newRequest[string](ComponentAI, "getMacAddress")
	req.raw = true
	if defaultOnError {
		req.fallback = func() string { return "" }
	}
	return invoke(ctx, c, req)
}

// GetModelDescription returns the human-readable model description.
func (c *Client) GetModelDescription(ctx context.Context, defaultOnError bool) (string, error) {
	req := newRequest[string](ComponentAI, "getModelDescription")
	req.raw = true
	if defaultOnError {
		req.fallback = func() string { return "" }
	}
	return invoke(ctx, c, req)
}

// GetDeviceStatus returns the current device status record.
func (c *Client) GetDeviceStatus(ctx context.Context, defaultOnError bool) (DeviceStatus, error) {
	req := newRequest[DeviceStatus](ComponentAI, "getDeviceStatus")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() DeviceStatus { return DeviceStatus{} }
	}
	return invoke(ctx, c, req)
}

// GetUpdateStatus returns the firmware update status record.
func (c *Client) GetUpdateStatus(ctx context.Context, defaultOnError bool) (UpdateStatus, error) {
	req := newRequest[UpdateStatus](ComponentAI, "getUpdateStatus")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() UpdateStatus { return UpdateStatus{} }
	}
	return invoke(ctx, c, req)
}

// CheckForUpdates asks the appliance to look for new firmware.
func (c *Client) CheckForUpdates(ctx context.Context) error {
	req := newRequest[string](ComponentAI, "checkUpdate")
	req.raw = true
	req.attempts = writeAttempts
	_, err := invoke(ctx, c, req)
	return err
}

// DoAIUpdate starts an update of the appliance-intelligence firmware.
func (c *Client) DoAIUpdate(ctx context.Context) error {
	req := newRequest[string](ComponentAI, "doAIUpdate")
	req.raw = true
	req.attempts = writeAttempts
	_, err := invoke(ctx, c, req)
	return err
}

// DoHHGUpdate starts an update of the household-gateway firmware.
func (c *Client) DoHHGUpdate(ctx context.Context) error {
	req := newRequest[string](ComponentAI, "doHHGUpdate")
	req.raw = true
	req.attempts = writeAttempts
	_, err := invoke(ctx, c, req)
	return err
}

// GetLastPushNotifications returns recent notifications, newest first.
func (c *Client) GetLastPushNotifications(ctx context.Context, defaultOnError bool) ([]PushNotification, error) {
	req := newRequest[[]PushNotification](ComponentAI, "getLastPUSHNotifications")
	req.shape = ShapeArray
	if defaultOnError {
		req.fallback = func() []PushNotification { return []PushNotification{} }
	}
	return invoke(ctx, c, req)
}

// ListCategories returns the configuration category keys. An empty list
// is a valid answer: some appliances (AdoraWash V4000 for one) expose no
// categories at all, so emptiness must not be treated as failure.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	req := newRequest[[]string](ComponentHH, "getCategories")
	req.shape = ShapeArray
	return invoke(ctx, c, req)
}

// GetCategory returns the description record for one category key.
func (c *Client) GetCategory(ctx context.Context, value string) (Category, error) {
	req := newRequest[Category](ComponentHH, "getCategory")
	req.params = []Param{{Key: "value", Value: value}}
	req.shape = ShapeObject
	return invoke(ctx, c, req)
}

// ListCommands returns the command names within one category.
func (c *Client) ListCommands(ctx context.Context, value string) ([]string, error) {
	req := newRequest[[]string](ComponentHH, "getCommands")
	req.params = []Param{{Key: "value", Value: value}}
	req.shape = ShapeArray
	return invoke(ctx, c, req)
}

// GetCommand returns the full definition of one device command.
func (c *Client) GetCommand(ctx context.Context, value string) (Command, error) {
	req := newRequest[Command](ComponentHH, "getCommand")
	req.params = []Param{{Key: "value", Value: value}}
	req.shape = ShapeObject
	return invoke(ctx, c, req)
}

// SetCommand writes a new value to a device command. Write failures
// always surface as errors.
func (c *Client) SetCommand(ctx context.Context, command, value string) error {
	req := newRequest[string](ComponentHH, "set"+command)
	req.params = []Param{{Key: "value", Value: value}}
	req.raw = true
	req.attempts = writeAttempts
	_, err := invoke(ctx, c, req)
	return err
}

// DoCommandAction triggers an action-type device command.
func (c *Client) DoCommandAction(ctx context.Context, command string) error {
	req := newRequest[string](ComponentHH, "do"+command)
	req.raw = true
	req.attempts = writeAttempts
	_, err := invoke(ctx, c, req)
	return err
}

// GetHhFwVersion returns the household-gateway firmware version record.
func (c *Client) GetHhFwVersion(ctx context.Context, defaultOnError bool) (HhFwVersion, error) {
	req := newRequest[HhFwVersion](ComponentHH, "getFWVersion")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() HhFwVersion { return HhFwVersion{} }
	}
	return invoke(ctx, c, req)
}

// GetAiFwVersion returns the appliance-intelligence firmware version record.
func (c *Client) GetAiFwVersion(ctx context.Context, defaultOnError bool) (AiFwVersion, error) {
	req := newRequest[AiFwVersion](ComponentAI, "getFWVersion")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() AiFwVersion { return AiFwVersion{} }
	}
	return invoke(ctx, c, req)
}

// zhModeEnvelope is the {"value": N} wrapper around getZHMode.
type zhModeEnvelope struct {
	Value int `json:"value"`
}

// GetZHMode returns the current ZH mode, or -1 when defaultOnError is set
// and the device cannot be asked.
func (c *Client) GetZHMode(ctx context.Context, defaultOnError bool) (int, error) {
	req := newRequest[zhModeEnvelope](ComponentHH, "getZHMode")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() zhModeEnvelope { return zhModeEnvelope{Value: -1} }
	}
	data, err := invoke(ctx, c, req)
	if err != nil {
		return 0, err
	}
	return data.Value, nil
}

// GetEcoInfo returns water and energy consumption metrics.
func (c *Client) GetEcoInfo(ctx context.Context, defaultOnError bool) (EcoInfo, error) {
	req := newRequest[EcoInfo](ComponentHH, "getEcoInfo")
	req.shape = ShapeObject
	if defaultOnError {
		req.fallback = func() EcoInfo { return EcoInfo{} }
	}
	return invoke(ctx, c, req)
}

// GetDeviceInfo returns the household-gateway device info record, which
// also carries the API version and ZH mode in one call.
func (c *Client) GetDeviceInfo(ctx context.Context) (DeviceInfo, error) {
	req := newRequest[DeviceInfo](ComponentHH, "getDeviceInfo")
	req.shape = ShapeObject
	return invoke(ctx, c, req)
}

// GetProgram returns the currently known programs, each split into
// identity fields and options.
func (c *Client) GetProgram(ctx context.Context) ([]Program, error) {
	req := newRequest[[]map[string]json.RawMessage](ComponentHH, "getProgram")
	req.shape = ShapeArray
	rawPrograms, err := invoke(ctx, c, req)
	if err != nil {
		return nil, err
	}

	programs := make([]Program, 0, len(rawPrograms))
	for _, raw := range rawPrograms {
		programs = append(programs, BuildProgram(raw))
	}
	return programs, nil
}

// SetProgram selects a program, optionally overriding program options.
// The option object is sent JSON-encoded in the value parameter, with the
// program id folded in.
func (c *Client) SetProgram(ctx context.Context, programID int, options map[string]any) error {
	payload := make(map[string]any, len(options)+1)
	for k, v := range options {
		payload[k] = v
	}
	payload["id"] = programID

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding program options: %w", err)
	}

	req := newRequest[string](ComponentHH, "setProgram")
	req.params = []Param{{Key: "value", Value: string(value)}}
	req.raw = true
	req.attempts = writeAttempts
	_, err = invoke(ctx, c, req)
	return err
}

// GetAllProgramIDs returns every program id the appliance knows. Useful
// together with SetProgram, though the device offers no id-to-name map.
func (c *Client) GetAllProgramIDs(ctx context.Context) ([]int, error) {
	req := newRequest[[]int](ComponentHH, "getAllProgramIds")
	req.shape = ShapeArray
	return invoke(ctx, c, req)
}
