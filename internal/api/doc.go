// Package api implements the HTTP client for V-ZUG household appliances.
//
// V-ZUG appliances expose a small embedded HTTP server with two endpoint
// groups: "ai" (appliance intelligence: device status, firmware,
// notifications, MAC address, updates) and "hh" (household gateway:
// categories, commands, programs, eco info, ZH mode). Every operation is a
// GET request carrying a "command" query parameter; responses are raw text
// or loosely typed JSON.
//
// The embedded server is slow, serializes badly under parallel load, and
// intermittently returns garbage that self-corrects on a later request.
// The client therefore wraps every command in three layers:
//
//   - a shared admission semaphore capping in-flight requests at 3
//   - retry with exponential backoff, short-circuited for trusted status
//     codes (401/404) that are authoritative answers rather than faults
//   - top-level shape validation of the JSON body, with optional
//     substitution of a declared default value once retries are exhausted
//
// # Usage Example
//
//	client := api.NewClient("http://192.168.1.50")
//
//	state, err := client.AggregateState(ctx, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(state.Device.Program, state.Device.Status)
//
// Write operations (SetCommand, DoCommandAction, SetProgram, update
// triggers) use a reduced attempt budget and never substitute defaults: a
// failed write always surfaces as an error.
//
// # Aggregates
//
// Higher-level snapshots compose several endpoint calls into one value:
// AggregateState, AggregateUpdateStatus, AggregateMeta and AggregateConfig.
// Aggregates are plain values rebuilt wholesale on every call; they hold no
// references back into the client.
//
// # Thread Safety
//
// A Client is safe for concurrent use. The HTTP client and the admission
// semaphore are shared across all calls for the lifetime of the Client.
package api
