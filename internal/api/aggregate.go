package api

import (
	"context"
	"sync"
	"time"
)

// Aggregate snapshots compose several endpoint calls into one coherent
// view. They are rebuilt wholesale on every call and never patched
// incrementally.

// AggState is the periodic device state snapshot.
type AggState struct {
	ZHMode          int
	Device          DeviceStatus
	DeviceFetchedAt time.Time
	Notifications   []PushNotification
	Eco             EcoInfo
}

// AggUpdateStatus is the firmware update snapshot.
type AggUpdateStatus struct {
	Update      UpdateStatus
	AiFwVersion AiFwVersion
	HhFwVersion HhFwVersion
}

// AggMeta is the device identity snapshot.
type AggMeta struct {
	MacAddress       string
	ModelDescription string
}

// AggCategory is one configuration category with its resolved commands.
type AggCategory struct {
	Key         string
	Description string
	Commands    map[string]Command
}

// AggConfig is the full configuration tree, keyed by category key.
type AggConfig map[string]AggCategory

// AggregateState fetches the device state snapshot. ZH mode is always
// read first; the firmware misbehaves when other state reads come before
// it. With defaultOnError set, each sub-fetch independently degrades to
// its default instead of failing the snapshot.
func (c *Client) AggregateState(ctx context.Context, defaultOnError bool) (AggState, error) {
	zhMode, err := c.GetZHMode(ctx, true)
	if err != nil {
		return AggState{}, err
	}

	device, err := c.GetDeviceStatus(ctx, defaultOnError)
	if err != nil {
		return AggState{}, err
	}
	deviceFetchedAt := time.Now().UTC()

	notifications, err := c.GetLastPushNotifications(ctx, defaultOnError)
	if err != nil {
		return AggState{}, err
	}

	eco, err := c.GetEcoInfo(ctx, defaultOnError)
	if err != nil {
		return AggState{}, err
	}

	return AggState{
		ZHMode:          zhMode,
		Device:          device,
		DeviceFetchedAt: deviceFetchedAt,
		Notifications:   notifications,
		Eco:             eco,
	}, nil
}

// AggregateUpdateStatus fetches the firmware update snapshot.
func (c *Client) AggregateUpdateStatus(ctx context.Context, defaultOnError bool) (AggUpdateStatus, error) {
	update, err := c.GetUpdateStatus(ctx, defaultOnError)
	if err != nil {
		return AggUpdateStatus{}, err
	}

	aiFw, err := c.GetAiFwVersion(ctx, defaultOnError)
	if err != nil {
		return AggUpdateStatus{}, err
	}

	hhFw, err := c.GetHhFwVersion(ctx, defaultOnError)
	if err != nil {
		return AggUpdateStatus{}, err
	}

	return AggUpdateStatus{Update: update, AiFwVersion: aiFw, HhFwVersion: hhFw}, nil
}

// AggregateMeta fetches the identity snapshot. MAC address and model
// description are required identity data, so callers normally pass
// defaultOnError=false and let failures propagate.
func (c *Client) AggregateMeta(ctx context.Context, defaultOnError bool) (AggMeta, error) {
	mac, err := c.GetMacAddress(ctx, defaultOnError)
	if err != nil {
		return AggMeta{}, err
	}

	model, err := c.GetModelDescription(ctx, defaultOnError)
	if err != nil {
		return AggMeta{}, err
	}

	return AggMeta{MacAddress: mac, ModelDescription: model}, nil
}

// AggregateConfig walks the full configuration tree: category keys first,
// then per category its description and command list concurrently, then
// every command definition concurrently. The shared admission semaphore
// keeps the fan-out within the device's concurrency budget. There is no
// default-on-error path; a partial tree is not usable.
func (c *Client) AggregateConfig(ctx context.Context) (AggConfig, error) {
	categoryKeys, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	tree := make(AggConfig, len(categoryKeys))
	for _, key := range categoryKeys {
		category, err := c.fetchCategory(ctx, key)
		if err != nil {
			return nil, err
		}
		tree[key] = category
	}
	return tree, nil
}

func (c *Client) fetchCategory(ctx context.Context, key string) (AggCategory, error) {
	var (
		category    Category
		commandKeys []string
	)
	err := gather(ctx,
		func() error {
			var err error
			category, err = c.GetCategory(ctx, key)
			return err
		},
		func() error {
			var err error
			commandKeys, err = c.ListCommands(ctx, key)
			return err
		},
	)
	if err != nil {
		return AggCategory{}, err
	}

	var mu sync.Mutex
	commands := make(map[string]Command, len(commandKeys))

	fetches := make([]func() error, 0, len(commandKeys))
	for _, commandKey := range commandKeys {
		fetches = append(fetches, func() error {
			cmd, err := c.GetCommand(ctx, commandKey)
			if err != nil {
				return err
			}
			mu.Lock()
			commands[commandKey] = cmd
			mu.Unlock()
			return nil
		})
	}
	if err := gather(ctx, fetches...); err != nil {
		return AggCategory{}, err
	}

	return AggCategory{Key: key, Description: category.Description, Commands: commands}, nil
}

// gather runs fns concurrently and waits for all of them, returning the
// first error. Once the context is done, not-yet-started fns are skipped
// while in-flight ones finish on their own.
func gather(ctx context.Context, fns ...func() error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, fn := range fns {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
